package core

import (
	"context"

	"github.com/dkeye/Channel/internal/domain"
)

// OccupancySource reports how many users are in the channel right now.
type OccupancySource interface {
	Query(ctx context.Context) (domain.Occupancy, error)
}
