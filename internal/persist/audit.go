package persist

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// AuditEntry is one line of the combat audit trail.
type AuditEntry struct {
	Time    time.Time      `json:"time"`
	Kind    string         `json:"kind"` // monster_killed, loot, player_died, player_respawned
	Actor   string         `json:"actor,omitempty"`
	Subject string         `json:"subject,omitempty"`
	X       float64        `json:"x,omitempty"`
	Y       float64        `json:"y,omitempty"`
	Detail  map[string]any `json:"detail,omitempty"`
}

// JSONLZstdWriter appends JSON lines to hourly rotated zstd files named
// <prefix>-YYYY-MM-DD-HH.jsonl.zst under dir.
type JSONLZstdWriter struct {
	dir    string
	prefix string
	now    func() time.Time

	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewJSONLZstdWriter(dir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{dir: dir, prefix: prefix, now: time.Now}
}

func (w *JSONLZstdWriter) Write(v any) error {
	hour := w.now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotate(hour); err != nil {
			return err
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush pushes buffered lines into the current zstd frame.
func (w *JSONLZstdWriter) Flush() error {
	if w.w == nil {
		return nil
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *JSONLZstdWriter) Close() error {
	var err error
	if w.w != nil {
		err = w.w.Flush()
	}
	if w.enc != nil {
		if cerr := w.enc.Close(); err == nil {
			err = cerr
		}
		w.enc = nil
	}
	if w.f != nil {
		if cerr := w.f.Close(); err == nil {
			err = cerr
		}
		w.f = nil
	}
	w.w = nil
	w.curHour = ""
	return err
}

func (w *JSONLZstdWriter) rotate(hour string) error {
	if err := w.Close(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.PathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.curHour = hour
	return nil
}

func (w *JSONLZstdWriter) PathForHour(hour string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// AuditLog writes AuditEntry records on a background goroutine so the game
// loop never blocks on disk. Entries are dropped (and counted) when the
// buffer is full.
type AuditLog struct {
	w       *JSONLZstdWriter
	ch      chan AuditEntry
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
	log     *zap.Logger

	mu     sync.Mutex // guards closed and sends on ch
	closed bool
}

func NewAuditLog(dir string, log *zap.Logger) *AuditLog {
	a := &AuditLog{
		w:    NewJSONLZstdWriter(dir, "combat"),
		ch:   make(chan AuditEntry, 4096),
		done: make(chan struct{}),
		log:  log,
	}
	go a.loop()
	return a
}

// Record queues an entry without blocking.
func (a *AuditLog) Record(e AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		a.dropped.Add(1)
		return
	}
	select {
	case a.ch <- e:
	default:
		a.dropped.Add(1)
	}
}

// Dropped returns how many entries were discarded because the buffer was full.
func (a *AuditLog) Dropped() int64 {
	return a.dropped.Load()
}

// Close drains pending entries and closes the current file.
func (a *AuditLog) Close() error {
	a.once.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.ch)
		a.mu.Unlock()
	})
	<-a.done
	return a.w.Close()
}

func (a *AuditLog) loop() {
	defer close(a.done)
	flush := time.NewTicker(time.Second)
	defer flush.Stop()
	for {
		select {
		case e, ok := <-a.ch:
			if !ok {
				return
			}
			if err := a.w.Write(e); err != nil {
				a.log.Warn("audit write failed", zap.Error(err))
			}
		case <-flush.C:
			if err := a.w.Flush(); err != nil {
				a.log.Warn("audit flush failed", zap.Error(err))
			}
		}
	}
}
