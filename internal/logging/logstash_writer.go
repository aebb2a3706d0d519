package logging

import (
	"errors"
	"net"
	"strings"
	"sync"
	"time"
)

var (
	errEmptyAddr     = errors.New("logstash: empty address")
	errWriterClosed  = errors.New("logstash: writer closed")
	errRetryCooldown = errors.New("logstash: retry cooldown in effect")
)

// LogstashWriter ships newline-delimited JSON log lines to a Logstash TCP
// input. It never blocks callers on an unreachable Logstash: failed writes
// are dropped and the next dial waits for the retry interval.
type LogstashWriter struct {
	addr          string
	dial          func(addr string, timeout time.Duration) (net.Conn, error)
	dialTimeout   time.Duration
	writeTimeout  time.Duration
	retryInterval time.Duration
	now           func() time.Time

	mu        sync.Mutex
	conn      net.Conn
	nextRetry time.Time
	dropped   int
	closed    bool
}

type Option func(*LogstashWriter)

func WithDialTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.dialTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.writeTimeout = d }
}

// WithRetryInterval sets how long the writer stays quiet after a failed
// dial or write. Defaults to 5 seconds.
func WithRetryInterval(d time.Duration) Option {
	return func(w *LogstashWriter) { w.retryInterval = d }
}

func NewLogstashWriter(addr string, opts ...Option) (*LogstashWriter, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errEmptyAddr
	}
	w := &LogstashWriter{
		addr: addr,
		dial: func(addr string, timeout time.Duration) (net.Conn, error) {
			return net.DialTimeout("tcp", addr, timeout)
		},
		dialTimeout:   2 * time.Second,
		writeTimeout:  time.Second,
		retryInterval: 5 * time.Second,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Write always reports the full length as written unless the writer has
// been closed, so a zerolog MultiLevelWriter keeps feeding stdout.
func (w *LogstashWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	line := make([]byte, len(p), len(p)+1)
	copy(line, p)
	if line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, errWriterClosed
	}
	if err := w.connectLocked(); err != nil {
		w.dropped++
		return len(p), nil
	}
	if w.writeTimeout > 0 {
		_ = w.conn.SetWriteDeadline(w.now().Add(w.writeTimeout))
	}
	if _, err := w.conn.Write(line); err != nil {
		w.dropped++
		w.resetLocked()
	}
	return len(p), nil
}

// Dropped returns how many lines were discarded while Logstash was down.
func (w *LogstashWriter) Dropped() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropped
}

func (w *LogstashWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}

func (w *LogstashWriter) connectLocked() error {
	if w.conn != nil {
		return nil
	}
	if !w.nextRetry.IsZero() && w.now().Before(w.nextRetry) {
		return errRetryCooldown
	}
	conn, err := w.dial(w.addr, w.dialTimeout)
	if err != nil {
		w.nextRetry = w.now().Add(w.retryInterval)
		return err
	}
	w.conn = conn
	w.nextRetry = time.Time{}
	return nil
}

func (w *LogstashWriter) resetLocked() {
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
	w.nextRetry = w.now().Add(w.retryInterval)
}
