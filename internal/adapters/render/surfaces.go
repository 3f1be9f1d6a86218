package render

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Channel/internal/domain"
)

// RTPReader is the part of *webrtc.TrackRemote a surface needs.
type RTPReader interface {
	ReadRTP() (*rtp.Packet, interceptor.Attributes, error)
}

type SurfaceStats struct {
	Index       int                  `json:"index"`
	Enabled     bool                 `json:"enabled"`
	Participant domain.ParticipantID `json:"participant,omitempty"`
	Packets     uint64               `json:"packets"`
	Bytes       uint64               `json:"bytes"`
	LastSeq     uint16               `json:"last_seq"`
	Audio       uint64               `json:"audio_packets"`
}

type surface struct {
	enabled bool
	id      domain.ParticipantID
	packets uint64
	bytes   uint64
	lastSeq uint16
	audio   uint64
}

// Surfaces is a fixed set of remote video surfaces plus the local preview.
// It implements core.Renderer. Media is accounted, never decoded.
type Surfaces struct {
	mu      sync.RWMutex
	local   bool
	remote  []surface
	dropped uint64
}

func NewSurfaces(n int) *Surfaces {
	return &Surfaces{remote: make([]surface, n)}
}

func (s *Surfaces) Slots() int { return len(s.remote) }

func (s *Surfaces) SetLocalEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local = enabled
}

func (s *Surfaces) Bind(slot int, id domain.ParticipantID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot < 0 || slot >= len(s.remote) {
		log.Error().Str("module", "render").Int("slot", slot).Msg("bind out of range")
		return
	}
	s.remote[slot] = surface{enabled: true, id: id}
	log.Info().Str("module", "render").Int("slot", slot).Str("uid", id.String()).Msg("surface bound")
}

func (s *Surfaces) Unbind(slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot < 0 || slot >= len(s.remote) {
		return
	}
	s.remote[slot] = surface{}
}

// Feed drains a remote track until it ends or ctx is done. Video packets are
// counted against the bound surface, audio only by packet count. Packets of a
// participant with no enabled surface are dropped.
func (s *Surfaces) Feed(ctx context.Context, id domain.ParticipantID, kind webrtc.RTPCodecType, r RTPReader) {
	logger := log.With().Str("module", "render").Str("uid", id.String()).Str("kind", kind.String()).Logger()
	logger.Debug().Msg("feed started")
	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("feed ctx done")
			return
		default:
		}
		pkt, _, err := r.ReadRTP()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn().Err(err).Msg("feed read RTP error, stopping")
			}
			return
		}
		s.account(id, kind, pkt)
	}
}

func (s *Surfaces) account(id domain.ParticipantID, kind webrtc.RTPCodecType, pkt *rtp.Packet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.remote {
		sf := &s.remote[i]
		if !sf.enabled || sf.id != id {
			continue
		}
		if kind == webrtc.RTPCodecTypeAudio {
			sf.audio++
		} else {
			sf.packets++
			sf.bytes += uint64(len(pkt.Payload))
			sf.lastSeq = pkt.SequenceNumber
		}
		return
	}
	s.dropped++
}

func (s *Surfaces) LocalEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.local
}

func (s *Surfaces) Dropped() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dropped
}

func (s *Surfaces) Stats() []SurfaceStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SurfaceStats, 0, len(s.remote))
	for i, sf := range s.remote {
		out = append(out, SurfaceStats{
			Index:       i,
			Enabled:     sf.enabled,
			Participant: sf.id,
			Packets:     sf.packets,
			Bytes:       sf.bytes,
			LastSeq:     sf.lastSeq,
			Audio:       sf.audio,
		})
	}
	return out
}
