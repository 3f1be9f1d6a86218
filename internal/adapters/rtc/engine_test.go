package rtc

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Channel/internal/adapters/render"
	"github.com/dkeye/Channel/internal/adapters/signal"
	"github.com/dkeye/Channel/internal/core"
	"github.com/dkeye/Channel/internal/domain"
)

type signalState struct {
	joins      []string
	offers     []string
	candidates int
	leaves     int
	closed     bool
}

type fakeSignal struct {
	mu sync.Mutex
	st signalState
}

func (f *fakeSignal) Join(channel string, _ domain.ParticipantID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st.joins = append(f.st.joins, channel)
	return nil
}

func (f *fakeSignal) Leave() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st.leaves++
	return nil
}

func (f *fakeSignal) Offer(sdp string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st.offers = append(f.st.offers, sdp)
	return nil
}

func (f *fakeSignal) Candidate(webrtc.ICECandidateInit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st.candidates++
	return nil
}

func (f *fakeSignal) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st.closed = true
}

func (f *fakeSignal) snapshot() signalState {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.st
	st.joins = append([]string(nil), f.st.joins...)
	st.offers = append([]string(nil), f.st.offers...)
	return st
}

type nopSink struct{}

func (nopSink) Feed(context.Context, domain.ParticipantID, webrtc.RTPCodecType, render.RTPReader) {}

type dialed struct {
	handler signal.Handler
	sig     *fakeSignal
}

func newTestEngine(t *testing.T, dialErr error) (*Engine, chan dialed) {
	t.Helper()
	e := NewEngine(Config{SignalURL: "ws://signal.test/ws", UID: 7}, nopSink{})
	ch := make(chan dialed, 4)
	e.dial = func(_ context.Context, _ string, h signal.Handler, _ signal.Options) (signaler, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		fs := &fakeSignal{}
		ch <- dialed{handler: h, sig: fs}
		return fs, nil
	}
	t.Cleanup(e.Close)
	return e, ch
}

func awaitDial(t *testing.T, ch chan dialed) dialed {
	t.Helper()
	select {
	case d := <-ch:
		require.Eventually(t, func() bool { return len(d.sig.snapshot().joins) == 1 }, time.Second, 5*time.Millisecond)
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not dial")
		return dialed{}
	}
}

func nextEvent(t *testing.T, e *Engine) core.Event {
	t.Helper()
	select {
	case ev := <-e.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no engine event")
		return nil
	}
}

func noEvent(t *testing.T, e *Engine) {
	t.Helper()
	select {
	case ev := <-e.Events():
		t.Fatalf("unexpected event %#v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEngine_JoinFlow(t *testing.T) {
	e, ch := newTestEngine(t, nil)
	e.EnableVideo()
	require.NoError(t, e.JoinChannel("lobby"))
	d := awaitDial(t, ch)
	assert.Equal(t, []string{"lobby"}, d.sig.snapshot().joins)

	assert.ErrorIs(t, e.JoinChannel("lobby"), domain.ErrSessionActive)

	d.handler.OnJoined("lobby", 7)
	js, ok := nextEvent(t, e).(core.JoinSuccess)
	require.True(t, ok)
	assert.Equal(t, "lobby", js.Channel)
	assert.Equal(t, domain.ParticipantID(7), js.UID)

	offers := d.sig.snapshot().offers
	require.Len(t, offers, 1)
	assert.Contains(t, offers[0], "m=audio")
	assert.Contains(t, offers[0], "m=video")
	assert.Contains(t, offers[0], "a=recvonly")

	d.handler.OnUserJoined(10)
	uj, ok := nextEvent(t, e).(core.UserJoined)
	require.True(t, ok)
	assert.Equal(t, domain.ParticipantID(10), uj.UID)

	d.handler.OnUserOffline(10, domain.OfflineDropped)
	assert.Equal(t, core.UserOffline{UID: 10, Reason: domain.OfflineDropped}, nextEvent(t, e))

	d.handler.OnError(3, "bad token")
	assert.Equal(t, core.EngineError{Code: 3, Message: "bad token"}, nextEvent(t, e))

	d.handler.OnLeft()
	_, ok = nextEvent(t, e).(core.LeftChannel)
	assert.True(t, ok)
	assert.True(t, d.sig.snapshot().closed)
	assert.ErrorIs(t, e.LeaveChannel(), domain.ErrNotInChannel)

	d.handler.OnUserJoined(11)
	noEvent(t, e)
}

func TestEngine_LocalLeaveIsSilent(t *testing.T) {
	e, ch := newTestEngine(t, nil)
	require.NoError(t, e.JoinChannel("lobby"))
	d := awaitDial(t, ch)

	d.handler.OnJoined("lobby", 7)
	_, ok := nextEvent(t, e).(core.JoinSuccess)
	require.True(t, ok)
	offer := d.sig.snapshot().offers[0]
	assert.False(t, strings.Contains(offer, "m=video"), "video transceiver added while video disabled")

	require.NoError(t, e.LeaveChannel())
	snap := d.sig.snapshot()
	assert.Equal(t, 1, snap.leaves)
	assert.True(t, snap.closed)

	d.handler.OnLeft()
	noEvent(t, e)

	require.NoError(t, e.JoinChannel("lobby"))
	awaitDial(t, ch)
}

func TestEngine_RepeatJoinedIgnored(t *testing.T) {
	e, ch := newTestEngine(t, nil)
	require.NoError(t, e.JoinChannel("lobby"))
	d := awaitDial(t, ch)

	d.handler.OnJoined("lobby", 7)
	_, ok := nextEvent(t, e).(core.JoinSuccess)
	require.True(t, ok)
	s := d.handler.(*session)
	first := s.connection()
	require.NotNil(t, first)

	d.handler.OnJoined("lobby", 7)
	noEvent(t, e)
	assert.Same(t, first, s.connection())
	assert.False(t, first.closed.Load())
	assert.Len(t, d.sig.snapshot().offers, 1)
}

func TestEngine_LeaveOverlapsJoined(t *testing.T) {
	for i := 0; i < 20; i++ {
		e, ch := newTestEngine(t, nil)
		require.NoError(t, e.JoinChannel("lobby"))
		d := awaitDial(t, ch)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			d.handler.OnJoined("lobby", 7)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, e.LeaveChannel())
		}()
		wg.Wait()

		// A JoinSuccess may have been sent before the leave; nothing else may.
		for drained := false; !drained; {
			select {
			case ev := <-e.Events():
				_, ok := ev.(core.JoinSuccess)
				assert.True(t, ok, "unexpected event %#v", ev)
			default:
				drained = true
			}
		}
		s := d.handler.(*session)
		if conn := s.connection(); conn != nil {
			assert.True(t, conn.closed.Load(), "connection left open after leave")
		}
		assert.True(t, d.sig.snapshot().closed)

		d.handler.OnJoined("lobby", 7)
		d.handler.OnUserJoined(10)
		d.handler.OnLeft()
		noEvent(t, e)
	}
}

func TestEngine_DialFailure(t *testing.T) {
	e, _ := newTestEngine(t, errors.New("connection refused"))
	require.NoError(t, e.JoinChannel("lobby"))

	ee, ok := nextEvent(t, e).(core.EngineError)
	require.True(t, ok)
	assert.Equal(t, CodeSignal, ee.Code)
	assert.Contains(t, ee.Message, "connection refused")

	_, ok = nextEvent(t, e).(core.LeftChannel)
	assert.True(t, ok)
	assert.ErrorIs(t, e.LeaveChannel(), domain.ErrNotInChannel)
}

func TestEngine_SignalLost(t *testing.T) {
	e, ch := newTestEngine(t, nil)
	require.NoError(t, e.JoinChannel("lobby"))
	d := awaitDial(t, ch)

	d.handler.OnClosed(nil)
	noEvent(t, e)

	d.handler.OnClosed(errors.New("unexpected EOF"))
	ee, ok := nextEvent(t, e).(core.EngineError)
	require.True(t, ok)
	assert.Equal(t, CodeSignal, ee.Code)
	_, ok = nextEvent(t, e).(core.LeftChannel)
	assert.True(t, ok)
}

func TestEngine_Volume(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	assert.True(t, e.audible(3))

	require.NoError(t, e.AdjustUserPlaybackSignalVolume(3, 0))
	assert.False(t, e.audible(3))
	assert.True(t, e.audible(4))

	require.NoError(t, e.AdjustUserPlaybackSignalVolume(3, 100))
	assert.True(t, e.audible(3))

	assert.ErrorIs(t, e.AdjustUserPlaybackSignalVolume(3, 401), ErrVolumeRange)
	assert.ErrorIs(t, e.AdjustUserPlaybackSignalVolume(3, -1), ErrVolumeRange)
}

func TestEngine_Closed(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.Close()
	e.Close()
	assert.ErrorIs(t, e.JoinChannel("lobby"), ErrEngineClosed)
}

type seqReader struct {
	seqs []uint16
}

func (r *seqReader) ReadRTP() (*rtp.Packet, interceptor.Attributes, error) {
	if len(r.seqs) == 0 {
		return nil, nil, io.EOF
	}
	p := &rtp.Packet{Header: rtp.Header{SequenceNumber: r.seqs[0]}}
	r.seqs = r.seqs[1:]
	return p, nil, nil
}

func TestGatedReader(t *testing.T) {
	g := gatedReader{r: &seqReader{seqs: []uint16{1, 2}}, audible: func() bool { return true }}
	p, _, err := g.ReadRTP()
	require.NoError(t, err)
	assert.Equal(t, uint16(1), p.SequenceNumber)

	muted := gatedReader{r: &seqReader{seqs: []uint16{1, 2, 3}}, audible: func() bool { return false }}
	_, _, err = muted.ReadRTP()
	assert.ErrorIs(t, err, io.EOF)
}
