package occupancy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/dkeye/Channel/internal/domain"
)

const DefaultBaseURL = "https://api.agora.io/dev/v1"

type userListResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ChannelExist *bool `json:"channel_exist"`
		Total        int   `json:"total"`
	} `json:"data"`
}

// Client queries the channel user-list endpoint of the RTC provider's REST API.
type Client struct {
	baseURL    string
	appID      string
	channel    string
	customerID string
	secret     string
	http       *http.Client
}

// NewClient creates an API client. A zero timeout leaves the request bound only to its context.
func NewClient(baseURL, appID, channel, customerID, secret string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appID:      appID,
		channel:    channel,
		customerID: customerID,
		secret:     secret,
		http:       &http.Client{Timeout: timeout},
	}
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/channel/user/%s/%s", c.baseURL, url.PathEscape(c.appID), url.PathEscape(c.channel))
}

// Query returns the number of users in the channel, local user included.
// A channel that does not exist has zero users.
func (c *Client) Query(ctx context.Context) (domain.Occupancy, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(), nil)
	if err != nil {
		return domain.OccupancyError, fmt.Errorf("create http request: %w", err)
	}
	req.SetBasicAuth(c.customerID, c.secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.OccupancyError, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.OccupancyError, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.OccupancyError, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out userListResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.OccupancyError, fmt.Errorf("unmarshal response: %w", err)
	}
	if out.Data.ChannelExist == nil || !*out.Data.ChannelExist {
		return 0, nil
	}
	if out.Data.Total < 0 {
		return domain.OccupancyError, fmt.Errorf("negative total %d", out.Data.Total)
	}
	return domain.Occupancy(out.Data.Total), nil
}
