package atvlog

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends each Event as a CBOR-encoded record to a file, giving a
// durable, replayable trace of a session independent of whatever the console
// shows. Records are length-naive: each is a complete top-level CBOR value,
// so a reader streams cbor.Decoder.Decode in a loop until EOF.
type FileLogger struct {
	mu  sync.Mutex
	f   *os.File
	enc *cbor.Encoder
}

// NewFileLogger opens (creating/appending) path for CBOR event logging.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{f: f, enc: cbor.NewEncoder(f)}, nil
}

func (l *FileLogger) Log(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	// Best-effort: a logging failure must never interrupt protocol handling.
	_ = l.enc.Encode(e)
}

func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// MultiLogger fans a single Event out to every configured Logger.
type MultiLogger struct {
	loggers []Logger
}

func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

func (m *MultiLogger) Log(e Event) {
	for _, l := range m.loggers {
		l.Log(e)
	}
}

// ReadEvents decodes every CBOR-encoded Event from path, in order, so a
// prior session's trace can be inspected.
func ReadEvents(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := cbor.NewDecoder(f)
	var events []Event
	for {
		var e Event
		if err := dec.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return events, err
		}
		events = append(events, e)
	}
	return events, nil
}
