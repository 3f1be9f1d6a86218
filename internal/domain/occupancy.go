package domain

import "fmt"

// Occupancy is the channel head count (local + remote) reported by the occupancy API.
// Negative values are sentinels, never counts.
type Occupancy int

const (
	OccupancyUnknown Occupancy = -1
	OccupancyError   Occupancy = -2
)

func (o Occupancy) Known() bool { return o >= 0 }

// Display renders the status line value, e.g. "3/4".
func (o Occupancy) Display(max int) string {
	switch {
	case o == OccupancyUnknown:
		return "loading..."
	case o == OccupancyError || o < 0:
		return "error"
	default:
		return fmt.Sprintf("%d/%d", int(o), max)
	}
}
