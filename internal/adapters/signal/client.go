package signal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Channel/internal/domain"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("signal connection closed")
)

const (
	DefaultSendBuffer   = 32
	DefaultPingInterval = 15 * time.Second
	DefaultWriteTimeout = 5 * time.Second

	// SessionHeader carries the client-generated session id on the upgrade request.
	SessionHeader = "X-Session-Id"
)

type Options struct {
	SendBuffer   int
	PingInterval time.Duration
	WriteTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.SendBuffer <= 0 {
		o.SendBuffer = DefaultSendBuffer
	}
	if o.PingInterval <= 0 {
		o.PingInterval = DefaultPingInterval
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = DefaultWriteTimeout
	}
	return o
}

// Client is one websocket session with the signaling server.
type Client struct {
	conn    *websocket.Conn
	sid     string
	handler Handler
	opts    Options
	send    chan []byte

	mu     sync.RWMutex
	closed bool
	cause  error
}

// Dial connects to url and starts the read and write pumps.
func Dial(ctx context.Context, url string, h Handler, opts Options) (*Client, error) {
	opts = opts.withDefaults()
	sid := uuid.NewString()
	header := http.Header{}
	header.Set(SessionHeader, sid)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	log.Info().Str("module", "signal").Str("sid", sid).Str("url", url).Msg("connected")

	c := &Client{
		conn:    conn,
		sid:     sid,
		handler: h,
		opts:    opts,
		send:    make(chan []byte, opts.SendBuffer),
	}
	go c.writePump()
	go c.readPump()
	return c, nil
}

func (c *Client) SessionID() string { return c.sid }

func (c *Client) Join(channel string, uid domain.ParticipantID) error {
	return c.sendJSON(message{Type: typeJoin, Channel: channel, UID: uint32(uid)})
}

func (c *Client) Leave() error {
	return c.sendJSON(message{Type: typeLeave})
}

func (c *Client) Offer(sdp string) error {
	return c.sendJSON(message{Type: typeOffer, SDP: sdp})
}

func (c *Client) Candidate(ci webrtc.ICECandidateInit) error {
	return c.sendJSON(candidateMessage(ci))
}

// TrySend queues a raw frame without blocking.
func (c *Client) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

// Close is safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// fail closes the connection and keeps err as the reason reported to OnClosed.
func (c *Client) fail(err error) {
	c.mu.Lock()
	if !c.closed {
		c.cause = err
	}
	c.mu.Unlock()
	c.Close()
}

// closedBy reports whether Close already ran and the failure that caused it, if any.
func (c *Client) closedBy() (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed, c.cause
}

func (c *Client) sendJSON(m message) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", m.Type, err)
	}
	if err := c.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", c.sid).Str("type", m.Type).Msg("send dropped")
		return err
	}
	return nil
}

// writePump is the only writer on the connection; pings go through it too.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer ticker.Stop()
	ping, _ := json.Marshal(message{Type: typePing})

	for {
		var data []byte
		select {
		case d, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Str("sid", c.sid).Msg("writePump channel closed")
				return
			}
			data = d
		case <-ticker.C:
			data = ping
		}
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
			log.Error().Err(err).Str("module", "signal").Str("sid", c.sid).Msg("writePump set deadline")
			c.fail(err)
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Error().Err(err).Str("module", "signal").Str("sid", c.sid).Msg("writePump write error")
			c.fail(err)
			return
		}
	}
}

func (c *Client) readPump() {
	var cause error
	defer func() {
		log.Info().Str("module", "signal").Str("sid", c.sid).Msg("readPump closing")
		c.Close()
		c.handler.OnClosed(cause)
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			closed, failure := c.closedBy()
			if !closed {
				log.Error().Err(err).Str("module", "signal").Str("sid", c.sid).Msg("readPump read error")
				failure = err
			}
			cause = failure
			return
		}
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	var m message
	if err := json.Unmarshal(data, &m); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", c.sid).Msg("bad json")
		return
	}

	switch m.Type {
	case typeJoined:
		c.handler.OnJoined(m.Channel, domain.ParticipantID(m.UID))
	case typeUserJoined:
		c.handler.OnUserJoined(domain.ParticipantID(m.UID))
	case typeUserOff:
		c.handler.OnUserOffline(domain.ParticipantID(m.UID), domain.ParseOfflineReason(m.Reason))
	case typeLeft:
		c.handler.OnLeft()
	case typeAnswer:
		c.handler.OnAnswer(m.SDP)
	case typeCandidate:
		c.handler.OnCandidate(m.candidate())
	case typeError:
		c.handler.OnError(m.Code, m.Message)
	case typePong:
	default:
		log.Warn().Str("module", "signal").Str("type", m.Type).Msg("unknown signal")
	}
}
