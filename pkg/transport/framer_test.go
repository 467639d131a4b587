package transport

import (
	"bytes"
	"sync"
	"testing"

	"github.com/atvremote/atvremote-go/pkg/atvlog"
	"github.com/stretchr/testify/require"
)

type loopback struct {
	bytes.Buffer
}

func TestFramerRoundTrip(t *testing.T) {
	var buf loopback
	f := NewFramer(&buf, nil, "conn-1", atvlog.LayerSession)

	require.NoError(t, f.WriteFrame([]byte("hello")))
	got, err := f.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestFramerConcurrentWritesDoNotInterleave(t *testing.T) {
	var buf loopback
	f := NewFramer(&buf, nil, "conn-1", atvlog.LayerSession)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			require.NoError(t, f.WriteFrame([]byte("payload")))
		}()
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		got, err := f.ReadFrame()
		require.NoError(t, err)
		require.Equal(t, []byte("payload"), got)
	}
}
