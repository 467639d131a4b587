package wire

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarintBoundaries(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 16383, 16384, 2097151, 2097152}
	for _, v := range values {
		buf := putUvarint(nil, v)
		got, err := readUvarint(bufio.NewReader(bytes.NewReader(buf)))
		require.NoError(t, err)
		require.Equal(t, v, got, "value %d round-trip", v)
	}
}

func TestReadUvarintOverflow(t *testing.T) {
	// 10 bytes, all continuation bits set, final byte too large for the
	// remaining bit budget of a uint64.
	buf := bytes.Repeat([]byte{0xff}, 9)
	buf = append(buf, 0x7f)
	_, err := readUvarint(bufio.NewReader(bytes.NewReader(buf)))
	require.Error(t, err)
}

func TestReadUvarintTruncated(t *testing.T) {
	buf := []byte{0x80} // continuation bit set, no following byte
	_, err := readUvarint(bufio.NewReader(bytes.NewReader(buf)))
	require.ErrorIs(t, err, ErrTruncated)
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	body := []byte("hello world")
	require.NoError(t, WriteFrame(&buf, body))

	got, err := ReadFrame(bufio.NewReader(&buf))
	require.NoError(t, err)
	require.Equal(t, body, got)
}

func TestFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	body := bytes.Repeat([]byte{0x01}, MaxFrameSize+1)
	err := WriteFrame(&buf, body)
	require.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	prefix := putUvarint(nil, uint64(MaxFrameSize+1))
	buf.Write(prefix)
	_, err := ReadFrame(bufio.NewReader(&buf))
	require.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestDecodeFieldsNeverPanicsOnGarbage(t *testing.T) {
	// Fuzz-lite: a handful of adversarial byte strings that must return an
	// error, never panic or read past the declared length.
	cases := [][]byte{
		{0x08},             // varint tag, no value byte
		{0x12, 0xff},       // len-delim tag, length varint truncated
		{0x12, 0x05, 0x01}, // len-delim tag, declared length longer than remaining bytes
		{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
	}
	for _, c := range cases {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("decodeFields panicked on %x: %v", c, r)
				}
			}()
			err := decodeFields(c, func(rawField) error { return nil })
			require.Error(t, err, "decodeFields accepted %x", c)
		}()
	}
}
