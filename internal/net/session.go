package net

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/skelrealm/server/internal/net/packet"
	"go.uber.org/zap"
)

const (
	pingPeriodRatio = 9 // ping every readTimeout*9/10
	closeGrace      = time.Second
)

// SessionOptions are the per-connection limits taken from [network].
type SessionOptions struct {
	InQueueSize     int
	OutQueueSize    int
	EventsPerSecond int // 0 = unlimited
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxMessageSize  int64
}

// Session represents a single client connection. Network I/O runs in
// dedicated goroutines; game state is accessed only from the game loop.
type Session struct {
	ID   string
	conn *websocket.Conn

	state atomic.Int32 // packet.SessionState stored as int32

	InQueue  chan []byte // game loop reads frames from here
	OutQueue chan []byte // writer goroutine reads from here

	IP string

	outBuf [][]byte // buffered frames, flushed by OutputSystem (game loop only)

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	// Per-second event rate limiter (readLoop goroutine only, no lock needed)
	evPerSec  int
	evCount   int
	evResetAt int64
	evDropped atomic.Int64

	opts SessionOptions
	log  *zap.Logger
}

// NewSession wraps conn. conn may be nil, which yields a session that only
// buffers output (used by tests and tools).
func NewSession(conn *websocket.Conn, id string, opts SessionOptions, log *zap.Logger) *Session {
	if opts.InQueueSize <= 0 {
		opts.InQueueSize = 128
	}
	if opts.OutQueueSize <= 0 {
		opts.OutQueueSize = 256
	}
	s := &Session{
		ID:       id,
		conn:     conn,
		InQueue:  make(chan []byte, opts.InQueueSize),
		OutQueue: make(chan []byte, opts.OutQueueSize),
		closeCh:  make(chan struct{}),
		evPerSec: opts.EventsPerSecond,
		opts:     opts,
		log:      log.With(zap.String("session", id)),
	}
	if conn != nil {
		s.IP = conn.RemoteAddr().String()
	}
	s.state.Store(int32(packet.StateConnected))
	return s
}

func (s *Session) State() packet.SessionState {
	return packet.SessionState(s.state.Load())
}

func (s *Session) SetState(st packet.SessionState) {
	s.state.Store(int32(st))
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	if s.conn == nil {
		return
	}
	go s.readLoop()
	go s.writeLoop()
}

// Send buffers a frame. The frame is not written to the socket until
// FlushOutput is called by the game loop.
// Called only from the game loop goroutine, no lock needed on outBuf.
func (s *Session) Send(frame []byte) {
	if s.closed.Load() {
		return
	}
	s.outBuf = append(s.outBuf, frame)
}

// Pending returns the frames buffered since the last flush.
func (s *Session) Pending() [][]byte {
	return s.outBuf
}

// FlushOutput drains the output buffer to OutQueue for the writeLoop goroutine.
// Non-blocking: if OutQueue is full, the session is disconnected (backpressure).
func (s *Session) FlushOutput() {
	for _, frame := range s.outBuf {
		select {
		case s.OutQueue <- frame:
		default:
			s.log.Warn("output queue full, dropping slow client")
			s.Close()
			s.outBuf = s.outBuf[:0]
			return
		}
	}
	s.outBuf = s.outBuf[:0]
}

// Close shuts the session down. Safe to call from any goroutine. The
// protocol state is left alone so the game loop can still apply events that
// arrived before the close.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		if s.conn != nil {
			deadline := time.Now().Add(closeGrace)
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			s.conn.Close()
		}
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done is closed when the session closes.
func (s *Session) Done() <-chan struct{} {
	return s.closeCh
}

// allow applies the per-second event limit.
func (s *Session) allow(now int64) bool {
	if s.evPerSec <= 0 {
		return true
	}
	if now != s.evResetAt {
		s.evCount = 0
		s.evResetAt = now
	}
	s.evCount++
	return s.evCount <= s.evPerSec
}

// readLoop runs in its own goroutine. It reads text frames from the socket
// and pushes them onto InQueue for the game loop to consume.
func (s *Session) readLoop() {
	defer s.Close()
	defer func() {
		if n := s.evDropped.Load(); n > 0 {
			s.log.Info("rate-limited frames dropped", zap.Int64("frames", n))
		}
	}()

	if s.opts.MaxMessageSize > 0 {
		s.conn.SetReadLimit(s.opts.MaxMessageSize)
	}
	s.extendReadDeadline()
	s.conn.SetPongHandler(func(string) error {
		s.extendReadDeadline()
		return nil
	})

	for {
		kind, frame, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() && websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		s.extendReadDeadline()

		if !s.allow(time.Now().Unix()) {
			if s.evDropped.Add(1) == 1 {
				s.log.Debug("event rate exceeded, dropping frames", zap.Int("eps", s.evPerSec))
			}
			continue
		}

		// A full queue stalls this reader only.
		select {
		case s.InQueue <- frame:
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) extendReadDeadline() {
	if s.opts.ReadTimeout > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	}
}

// writeLoop runs in its own goroutine. It writes frames from OutQueue and
// keeps the connection alive with pings.
func (s *Session) writeLoop() {
	defer s.Close()

	period := 54 * time.Second
	if s.opts.ReadTimeout > 0 {
		period = s.opts.ReadTimeout * pingPeriodRatio / 10
	}
	ping := time.NewTicker(period)
	defer ping.Stop()

	for {
		select {
		case frame := <-s.OutQueue:
			if !s.write(websocket.TextMessage, frame) {
				return
			}
		case <-ping.C:
			if !s.write(websocket.PingMessage, nil) {
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) write(kind int, frame []byte) bool {
	if s.opts.WriteTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}
	if err := s.conn.WriteMessage(kind, frame); err != nil {
		if !s.closed.Load() {
			s.log.Debug("write error", zap.Error(err))
		}
		return false
	}
	return true
}
