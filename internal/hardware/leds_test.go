package hardware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"lightbar-service/internal/logger"
	"lightbar-service/internal/types"
)

func TestEncodeByte(t *testing.T) {
	cases := map[byte][3]byte{
		0x00: {0x92, 0x49, 0x24},
		0xFF: {0xDB, 0x6D, 0xB6},
		0x80: {0xD2, 0x49, 0x24},
		0x01: {0x92, 0x49, 0x26},
	}
	for in, want := range cases {
		var got [3]byte
		encodeByte(got[:], in)
		assert.Equal(t, want, got, "byte %#02x", in)
	}
}

func TestScale8(t *testing.T) {
	assert.Equal(t, uint8(0), scale8(200, 0))
	assert.Equal(t, uint8(255), scale8(255, 255))
	assert.Equal(t, uint8(245), scale8(250, 250))
	assert.Equal(t, uint8(0), scale8(0, 250))
}

func TestResetLen(t *testing.T) {
	assert.Equal(t, 90, resetLen(2400000))
	assert.Equal(t, 120, resetLen(3200000))
}

func TestEncodeFrameOrderAndReset(t *testing.T) {
	px := []types.RGB{{R: 0xFF, G: 0x00, B: 0x80}}
	out := EncodeFrame(nil, px, 255, DefaultSPISpeedHz)
	require.Len(t, out, bytesPerPixel+resetLen(DefaultSPISpeedHz))

	var g, r, b [3]byte
	encodeByte(g[:], 0x00)
	encodeByte(r[:], 0xFF)
	encodeByte(b[:], scale8(0x80, 255))
	assert.Equal(t, g[:], out[0:3], "green goes first")
	assert.Equal(t, r[:], out[3:6])
	assert.Equal(t, b[:], out[6:9])
	for _, v := range out[bytesPerPixel:] {
		assert.Equal(t, byte(0), v)
	}

	// The buffer is reused when big enough.
	again := EncodeFrame(out, px, 255, DefaultSPISpeedHz)
	assert.Equal(t, &out[0], &again[0])
}

func TestEncodeFrameStride(t *testing.T) {
	require.Equal(t, 3, encodedBytesPerByte)
	require.Equal(t, 9, bytesPerPixel)

	px := []types.RGB{{R: 1}, {G: 2}, {B: 3}}
	out := EncodeFrame(nil, px, 255, DefaultSPISpeedHz)
	require.Len(t, out, len(px)*bytesPerPixel+resetLen(DefaultSPISpeedHz))

	var want [encodedBytesPerByte]byte
	encodeByte(want[:], 3)
	off := 2*bytesPerPixel + 2*encodedBytesPerByte
	assert.Equal(t, want[:], out[off:off+encodedBytesPerByte], "blue of the third pixel")
}

func TestEncodeFrameAppliesMaxBrightness(t *testing.T) {
	px := []types.RGB{{R: 250, G: 250, B: 250}}
	out := EncodeFrame(nil, px, 0, DefaultSPISpeedHz)
	var zero [3]byte
	encodeByte(zero[:], 0)
	assert.Equal(t, zero[:], out[0:3])
}

func TestSPIStripWrite(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe2(fds[:], unix.O_CLOEXEC))
	defer unix.Close(fds[0])

	s := NewSPIStrip("pipe", DefaultSPISpeedHz, DefaultMaxBrightness, logger.NewLogger(nil, logger.LogLevelError))
	s.fd = fds[1]

	px := []types.RGB{{R: 10}, {G: 20}}
	require.NoError(t, s.Write(px))
	require.NoError(t, s.Close())

	want := EncodeFrame(nil, px, DefaultMaxBrightness, DefaultSPISpeedHz)
	got := make([]byte, len(want)+16)
	n, err := unix.Read(fds[0], got)
	require.NoError(t, err)
	assert.Equal(t, want, got[:n])

	assert.Error(t, s.Write(px), "closed strip rejects writes")
	assert.NoError(t, s.Close())
}
