package occupancy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Channel/internal/domain"
)

func serve(t *testing.T, status int, body string) (*Client, <-chan *http.Request) {
	t.Helper()
	seen := make(chan *http.Request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case seen <- r.Clone(context.Background()):
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/dev/v1/", "app123", "lobby room", "cust", "s3cret", time.Second), seen
}

func TestQuery_ChannelExists(t *testing.T) {
	c, requests := serve(t, http.StatusOK, `{"success":true,"data":{"channel_exist":true,"mode":1,"total":3,"users":[1,2,3]}}`)

	occ, err := c.Query(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Occupancy(3), occ)

	seen := <-requests
	assert.Equal(t, "/dev/v1/channel/user/app123/lobby room", seen.URL.Path)
	user, pass, ok := seen.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "cust", user)
	assert.Equal(t, "s3cret", pass)
	assert.Equal(t, "Basic Y3VzdDpzM2NyZXQ=", seen.Header.Get("Authorization"))
}

func TestQuery_ChannelDoesNotExist(t *testing.T) {
	c, _ := serve(t, http.StatusOK, `{"data":{"channel_exist":false}}`)

	occ, err := c.Query(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Occupancy(0), occ)
}

func TestQuery_MissingChannelExistIsZero(t *testing.T) {
	c, _ := serve(t, http.StatusOK, `{"success":true,"data":{"total":5}}`)

	occ, err := c.Query(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Occupancy(0), occ)
}

func TestQuery_Errors(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"unauthorized": {http.StatusUnauthorized, `{"message":"Invalid authentication credentials"}`},
		"server error": {http.StatusInternalServerError, ``},
		"bad json":     {http.StatusOK, `{"data":`},
		"negative":     {http.StatusOK, `{"data":{"channel_exist":true,"total":-4}}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := serve(t, tc.status, tc.body)
			occ, err := c.Query(context.Background())
			require.Error(t, err)
			assert.Equal(t, domain.OccupancyError, occ)
		})
	}
}

func TestQuery_HonoursContext(t *testing.T) {
	c, _ := serve(t, http.StatusOK, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Query(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
