package logging

import (
	"bufio"
	"errors"
	"net"
	"testing"
	"time"
)

func TestLogstashWriterShipsLines(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		received <- line
	}()

	w, err := NewLogstashWriter(ln.Addr().String())
	if err != nil {
		t.Fatalf("NewLogstashWriter returned error: %v", err)
	}
	defer w.Close()

	if n, err := w.Write([]byte(`{"level":"info"}`)); err != nil || n != 16 {
		t.Fatalf("unexpected write result n=%d err=%v", n, err)
	}

	select {
	case line := <-received:
		if line != "{\"level\":\"info\"}\n" {
			t.Fatalf("unexpected line %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for log line")
	}
}

func TestLogstashWriterDropsDuringCooldown(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	dials := 0
	w, _ := NewLogstashWriter("logstash:5000", WithRetryInterval(time.Minute))
	w.now = func() time.Time { return now }
	w.dial = func(string, time.Duration) (net.Conn, error) {
		dials++
		return nil, errors.New("connection refused")
	}

	for i := 0; i < 3; i++ {
		if n, err := w.Write([]byte("line")); err != nil || n != 4 {
			t.Fatalf("write must not fail while logstash is down: n=%d err=%v", n, err)
		}
	}
	if dials != 1 {
		t.Fatalf("expected a single dial inside the cooldown, got %d", dials)
	}
	if w.Dropped() != 3 {
		t.Fatalf("expected 3 dropped lines, got %d", w.Dropped())
	}

	now = now.Add(time.Minute)
	_, _ = w.Write([]byte("line"))
	if dials != 2 {
		t.Fatalf("expected a redial after cooldown, got %d dials", dials)
	}
}

func TestLogstashWriterRejectsEmptyAddr(t *testing.T) {
	if _, err := NewLogstashWriter("  "); err == nil {
		t.Fatalf("expected error for empty address")
	}
}

func TestLogstashWriterClosed(t *testing.T) {
	w, _ := NewLogstashWriter("logstash:5000")
	_ = w.Close()
	if _, err := w.Write([]byte("line")); err == nil {
		t.Fatalf("expected error after close")
	}
}
