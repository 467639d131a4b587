package atvlog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.cbor")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	logger.Log(Event{
		Timestamp: time.Unix(0, 0),
		ConnID:    "conn-1",
		Layer:     LayerSession,
		Category:  CategoryStateChange,
		StateChange: &StateChangeEvent{From: "Connecting", To: "Connected"},
	})
	require.NoError(t, logger.Close())

	events, err := ReadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "conn-1", events[0].ConnID)
	require.Equal(t, "Connected", events[0].StateChange.To)
}

func TestMultiLoggerFansOut(t *testing.T) {
	var a, b int
	counter := func(n *int) Logger { return countingLogger{n: n} }
	m := NewMultiLogger(counter(&a), counter(&b))
	m.Log(Event{})
	require.Equal(t, 1, a)
	require.Equal(t, 1, b)
}

type countingLogger struct{ n *int }

func (c countingLogger) Log(Event) { *c.n++ }
