package render

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Channel/internal/domain"
)

type packetReader struct {
	packets []*rtp.Packet
	err     error
}

func (r *packetReader) ReadRTP() (*rtp.Packet, interceptor.Attributes, error) {
	if len(r.packets) == 0 {
		return nil, nil, r.err
	}
	p := r.packets[0]
	r.packets = r.packets[1:]
	return p, interceptor.Attributes{}, nil
}

func packets(seqs ...uint16) []*rtp.Packet {
	out := make([]*rtp.Packet, 0, len(seqs))
	for _, s := range seqs {
		out = append(out, &rtp.Packet{Header: rtp.Header{SequenceNumber: s}, Payload: []byte{1, 2, 3, 4}})
	}
	return out
}

func TestSurfaces_BindAndFeed(t *testing.T) {
	s := NewSurfaces(2)
	require.Equal(t, 2, s.Slots())
	s.Bind(1, 42)

	s.Feed(context.Background(), 42, webrtc.RTPCodecTypeVideo, &packetReader{packets: packets(7, 8, 9), err: io.EOF})

	stats := s.Stats()
	assert.False(t, stats[0].Enabled)
	assert.True(t, stats[1].Enabled)
	assert.Equal(t, domain.ParticipantID(42), stats[1].Participant)
	assert.Equal(t, uint64(3), stats[1].Packets)
	assert.Equal(t, uint64(12), stats[1].Bytes)
	assert.Equal(t, uint16(9), stats[1].LastSeq)
	assert.Equal(t, uint64(0), s.Dropped())
}

func TestSurfaces_UnboundParticipantIsDropped(t *testing.T) {
	s := NewSurfaces(1)
	s.Bind(0, 1)
	s.Unbind(0)

	s.Feed(context.Background(), 1, webrtc.RTPCodecTypeVideo, &packetReader{packets: packets(1, 2), err: errors.New("track closed")})

	assert.Equal(t, uint64(2), s.Dropped())
	assert.Equal(t, SurfaceStats{Index: 0}, s.Stats()[0])
}

func TestSurfaces_FeedStopsOnContext(t *testing.T) {
	s := NewSurfaces(1)
	s.Bind(0, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.Feed(ctx, 1, webrtc.RTPCodecTypeVideo, &packetReader{packets: packets(1, 2, 3)})
	assert.Equal(t, uint64(0), s.Stats()[0].Packets)
}

func TestSurfaces_AudioCountedSeparately(t *testing.T) {
	s := NewSurfaces(1)
	s.Bind(0, 5)

	s.Feed(context.Background(), 5, webrtc.RTPCodecTypeAudio, &packetReader{packets: packets(1, 2), err: io.EOF})

	st := s.Stats()[0]
	assert.Equal(t, uint64(0), st.Packets)
	assert.Equal(t, uint64(2), st.Audio)
	assert.Equal(t, uint64(0), s.Dropped())
}

func TestSurfaces_LocalAndRange(t *testing.T) {
	s := NewSurfaces(1)
	assert.False(t, s.LocalEnabled())
	s.SetLocalEnabled(true)
	assert.True(t, s.LocalEnabled())

	s.Bind(3, 1)
	s.Unbind(-1)
	assert.False(t, s.Stats()[0].Enabled)
}
