package transport

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/atvremote/atvremote-go/pkg/atvlog"
	"github.com/atvremote/atvremote-go/pkg/wire"
)

// Framer pairs a buffered reader and a mutex-guarded writer over one
// net.Conn-like stream, framing every message with pkg/wire's varint length
// prefix. Writes are serialized so concurrent callers never interleave
// partial frames (every write is serialized behind one mutex).
type Framer struct {
	r  *bufio.Reader
	w  io.Writer
	mu sync.Mutex

	logger atvlog.Logger
	connID string
	layer  atvlog.Layer
}

// NewFramer wraps rw. logger may be nil (defaults to a no-op logger).
func NewFramer(rw io.ReadWriter, logger atvlog.Logger, connID string, layer atvlog.Layer) *Framer {
	if logger == nil {
		logger = atvlog.NoopLogger{}
	}
	return &Framer{
		r:      bufio.NewReader(rw),
		w:      rw,
		logger: logger,
		connID: connID,
		layer:  layer,
	}
}

// WriteFrame writes one varint-length-prefixed frame. Safe for concurrent use.
func (f *Framer) WriteFrame(body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := wire.WriteFrame(f.w, body); err != nil {
		return fmt.Errorf("transport: write frame: %w", err)
	}
	f.logger.Log(frameEvent(f.connID, f.layer, atvlog.DirectionOut, body))
	return nil
}

// ReadFrame blocks until one frame arrives. Not safe for concurrent callers;
// exactly one reader goroutine should own this.
func (f *Framer) ReadFrame() ([]byte, error) {
	body, err := wire.ReadFrame(f.r)
	if err != nil {
		return nil, err
	}
	f.logger.Log(frameEvent(f.connID, f.layer, atvlog.DirectionIn, body))
	return body, nil
}

const maxLoggedFrameBytes = 4096

func frameEvent(connID string, layer atvlog.Layer, dir atvlog.Direction, body []byte) atvlog.Event {
	data := body
	truncated := false
	if len(data) > maxLoggedFrameBytes {
		data = data[:maxLoggedFrameBytes]
		truncated = true
	}
	return atvlog.Event{
		Timestamp: time.Now(),
		ConnID:    connID,
		Direction: dir,
		Layer:     layer,
		Category:  atvlog.CategoryFrame,
		Frame:     &atvlog.FrameEvent{Size: len(body), Data: data, Truncated: truncated},
	}
}
