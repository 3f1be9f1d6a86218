package rtc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Channel/internal/adapters/render"
	"github.com/dkeye/Channel/internal/adapters/signal"
	"github.com/dkeye/Channel/internal/core"
	"github.com/dkeye/Channel/internal/domain"
)

const (
	DefaultEventBuffer = 64

	MinVolume = 0
	MaxVolume = 400
)

// EngineError codes raised locally rather than by the signaling server.
const (
	CodeSignal = 1000 + iota
	CodeMedia
)

var (
	ErrEngineClosed = errors.New("engine closed")
	ErrVolumeRange  = errors.New("volume out of range")
)

// TrackSink consumes remote tracks. Audio arrives already gated by the
// participant's playback volume.
type TrackSink interface {
	Feed(ctx context.Context, id domain.ParticipantID, kind webrtc.RTPCodecType, r render.RTPReader)
}

type signaler interface {
	Join(channel string, uid domain.ParticipantID) error
	Leave() error
	Offer(sdp string) error
	Candidate(ci webrtc.ICECandidateInit) error
	Close()
}

type dialFunc func(ctx context.Context, url string, h signal.Handler, opts signal.Options) (signaler, error)

func dialSignal(ctx context.Context, url string, h signal.Handler, opts signal.Options) (signaler, error) {
	return signal.Dial(ctx, url, h, opts)
}

type Config struct {
	SignalURL   string
	UID         domain.ParticipantID
	WebRTC      webrtc.Configuration
	Signal      signal.Options
	EventBuffer int
}

// Engine implements core.Engine over the signaling client and a pion
// PeerConnection. Every call returns immediately; outcomes arrive on Events.
type Engine struct {
	cfg    Config
	sink   TrackSink
	dial   dialFunc
	events chan core.Event
	done   chan struct{}

	mu      sync.Mutex
	closed  bool
	video   bool
	volumes map[domain.ParticipantID]int
	current *session
}

var _ core.Engine = (*Engine)(nil)

func NewEngine(cfg Config, sink TrackSink) *Engine {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultEventBuffer
	}
	return &Engine{
		cfg:     cfg,
		sink:    sink,
		dial:    dialSignal,
		events:  make(chan core.Event, cfg.EventBuffer),
		done:    make(chan struct{}),
		volumes: make(map[domain.ParticipantID]int),
	}
}

func (e *Engine) Events() <-chan core.Event { return e.events }

func (e *Engine) EnableVideo() {
	e.mu.Lock()
	e.video = true
	e.mu.Unlock()
}

func (e *Engine) DisableVideo() {
	e.mu.Lock()
	e.video = false
	e.mu.Unlock()
}

// JoinChannel starts a session in the background.
func (e *Engine) JoinChannel(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	if e.current != nil {
		return fmt.Errorf("join %q while in %q: %w", name, e.current.channel, domain.ErrSessionActive)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		engine:  e,
		channel: name,
		video:   e.video,
		started: time.Now(),
		ctx:     ctx,
		cancel:  cancel,
	}
	e.current = s
	go s.connect()
	return nil
}

// LeaveChannel ends the session without emitting LeftChannel: the caller
// already knows, and a late event could land on the next session.
func (e *Engine) LeaveChannel() error {
	e.mu.Lock()
	s := e.current
	e.current = nil
	e.mu.Unlock()
	if s == nil {
		return domain.ErrNotInChannel
	}
	if sig := s.signaler(); sig != nil {
		_ = sig.Leave()
	}
	s.finish(false)
	return nil
}

// AdjustUserPlaybackSignalVolume takes 0..400; 100 leaves the track unchanged.
func (e *Engine) AdjustUserPlaybackSignalVolume(id domain.ParticipantID, volume int) error {
	if volume < MinVolume || volume > MaxVolume {
		return fmt.Errorf("volume %d for %s: %w", volume, id, ErrVolumeRange)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if volume == 100 {
		delete(e.volumes, id)
	} else {
		e.volumes[id] = volume
	}
	return nil
}

func (e *Engine) audible(id domain.ParticipantID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.volumes[id]
	return !ok || v > 0
}

// Close ends any session and stops event delivery.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	s := e.current
	e.current = nil
	close(e.done)
	e.mu.Unlock()
	if s != nil {
		s.finish(false)
	}
}

func (e *Engine) handleTrack(ctx context.Context, track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
	id, err := domain.ParseParticipantID(track.StreamID())
	if err != nil {
		log.Warn().Err(err).Str("module", "rtc").Str("stream_id", track.StreamID()).Msg("track without participant id")
		return
	}
	var r render.RTPReader = track
	if track.Kind() == webrtc.RTPCodecTypeAudio {
		r = gatedReader{r: track, audible: func() bool { return e.audible(id) }}
	}
	e.sink.Feed(ctx, id, track.Kind(), r)
}

// gatedReader skips packets while the participant is muted.
type gatedReader struct {
	r       render.RTPReader
	audible func() bool
}

func (g gatedReader) ReadRTP() (*rtp.Packet, interceptor.Attributes, error) {
	for {
		pkt, attr, err := g.r.ReadRTP()
		if err != nil || g.audible() {
			return pkt, attr, err
		}
	}
}

// session is one join attempt. It is the signal.Handler for its connection.
type session struct {
	engine  *Engine
	channel string
	video   bool
	started time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	ended   atomic.Bool

	mu   sync.Mutex
	sig  signaler
	conn *Connection

	// held for reading by emit; finish takes it to wait out in-flight sends
	emitMu sync.RWMutex
}

var _ signal.Handler = (*session)(nil)

func (s *session) signaler() signaler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sig
}

func (s *session) connection() *Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// emit drops events once the session is cancelled. After finish returns no
// event of this session can reach the channel.
func (s *session) emit(ev core.Event) {
	s.emitMu.RLock()
	defer s.emitMu.RUnlock()
	if s.ctx.Err() != nil {
		return
	}
	select {
	case s.engine.events <- ev:
	case <-s.engine.done:
	case <-s.ctx.Done():
	}
}

func (s *session) fail(code int, err error) {
	log.Error().Err(err).Str("module", "rtc").Str("channel", s.channel).Int("code", code).Msg("session failed")
	s.emit(core.EngineError{Code: code, Message: err.Error()})
	s.finish(true)
}

func (s *session) connect() {
	e := s.engine
	sig, err := e.dial(s.ctx, e.cfg.SignalURL, s, e.cfg.Signal)
	if err != nil {
		s.fail(CodeSignal, err)
		return
	}

	s.mu.Lock()
	s.sig = sig
	s.mu.Unlock()
	if s.ctx.Err() != nil {
		sig.Close()
		return
	}
	if err := sig.Join(s.channel, e.cfg.UID); err != nil {
		s.fail(CodeSignal, fmt.Errorf("send join: %w", err))
	}
}

// finish tears the session down once. remote marks a leave the tracker did not ask for.
func (s *session) finish(remote bool) {
	if !s.ended.CompareAndSwap(false, true) {
		return
	}
	e := s.engine
	e.mu.Lock()
	if e.current == s {
		e.current = nil
	}
	e.mu.Unlock()

	if remote {
		s.emit(core.LeftChannel{Duration: time.Since(s.started)})
	}
	s.cancel()
	// wait for emits that passed the ctx check before cancel
	s.emitMu.Lock()
	s.emitMu.Unlock()

	s.mu.Lock()
	sig, conn := s.sig, s.conn
	s.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	if sig != nil {
		sig.Close()
	}
	log.Info().Str("module", "rtc").Str("channel", s.channel).Bool("remote", remote).Msg("session ended")
}

func (s *session) OnJoined(channel string, uid domain.ParticipantID) {
	if s.connection() != nil {
		log.Warn().Str("module", "rtc").Str("channel", channel).Str("uid", uid.String()).Msg("repeated joined ignored")
		return
	}
	e := s.engine
	conn, err := NewConnection(e.cfg.WebRTC, uid, s.video)
	if err != nil {
		s.fail(CodeMedia, err)
		return
	}
	sig := s.signaler()
	conn.OnICECandidate(func(ci webrtc.ICECandidateInit) {
		_ = sig.Candidate(ci)
	})
	conn.OnTrack(e.handleTrack)
	conn.OnFailed(func() {
		s.fail(CodeMedia, errors.New("peer connection failed"))
	})

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	if s.ctx.Err() != nil {
		conn.Close()
		return
	}
	if err := conn.Start(s.ctx); err != nil {
		// closed by a concurrent finish
		return
	}

	offer, err := conn.CreateOffer()
	if err != nil {
		s.fail(CodeMedia, err)
		return
	}
	if err := sig.Offer(offer.SDP); err != nil {
		s.fail(CodeSignal, fmt.Errorf("send offer: %w", err))
		return
	}
	log.Info().Str("module", "rtc").Str("channel", channel).Str("uid", uid.String()).Msg("joined")
	s.emit(core.JoinSuccess{Channel: channel, UID: uid, Elapsed: time.Since(s.started)})
}

func (s *session) OnUserJoined(uid domain.ParticipantID) {
	s.emit(core.UserJoined{UID: uid, Elapsed: time.Since(s.started)})
}

func (s *session) OnUserOffline(uid domain.ParticipantID, reason domain.OfflineReason) {
	s.emit(core.UserOffline{UID: uid, Reason: reason})
}

func (s *session) OnLeft() { s.finish(true) }

func (s *session) OnAnswer(sdp string) {
	conn := s.connection()
	if conn == nil {
		log.Warn().Str("module", "rtc").Str("channel", s.channel).Msg("answer before joined")
		return
	}
	if err := conn.ApplyAnswer(sdp); err != nil {
		s.fail(CodeMedia, err)
	}
}

func (s *session) OnCandidate(ci webrtc.ICECandidateInit) {
	conn := s.connection()
	if conn == nil {
		return
	}
	if err := conn.AddICECandidate(ci); err != nil {
		log.Warn().Err(err).Str("module", "rtc").Str("channel", s.channel).Msg("add ice candidate")
	}
}

func (s *session) OnError(code int, message string) {
	s.emit(core.EngineError{Code: code, Message: message})
}

func (s *session) OnClosed(err error) {
	if err == nil {
		return
	}
	s.fail(CodeSignal, fmt.Errorf("signaling closed: %w", err))
}
