package rtc

import (
	"context"
	"sync"
	"testing"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_StartAndCloseConcurrently(t *testing.T) {
	for i := 0; i < 20; i++ {
		conn, err := NewConnection(webrtc.Configuration{}, 7, true)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = conn.Start(context.Background())
		}()
		go func() {
			defer wg.Done()
			conn.Close()
		}()
		wg.Wait()

		assert.ErrorIs(t, conn.Start(context.Background()), ErrConnectionClosed)
	}
}

func TestConnection_CandidatesQueuedUntilAnswer(t *testing.T) {
	conn, err := NewConnection(webrtc.Configuration{}, 7, false)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.Start(context.Background()))

	require.NoError(t, conn.AddICECandidate(webrtc.ICECandidateInit{Candidate: "candidate:1 1 udp 1 127.0.0.1 9 typ host"}))
	conn.mu.Lock()
	assert.Len(t, conn.pending, 1)
	conn.mu.Unlock()
}
