package hardware

import "lightbar-service/internal/types"

// scale8 scales v by s/256 the way the LED driver libraries do, so that
// s=255 leaves v (almost) untouched and s=0 turns it off.
func scale8(v, s uint8) uint8 {
	return uint8((uint16(v) * (uint16(s) + 1)) >> 8)
}

// encodeByte expands one data byte into encodedBytesPerByte SPI bytes, MSB
// first.
func encodeByte(dst []byte, b byte) {
	var bits uint32
	for i := 7; i >= 0; i-- {
		bits <<= spiBitsPerDataBit
		if b&(1<<uint(i)) != 0 {
			bits |= 0b110
		} else {
			bits |= 0b100
		}
	}
	dst[0] = byte(bits >> 16)
	dst[1] = byte(bits >> 8)
	dst[2] = byte(bits)
}

// resetLen is the number of zero bytes that keep the line low for the
// latch time at speedHz.
func resetLen(speedHz uint32) int {
	bits := uint64(speedHz) * resetTimeMicros / 1000000
	return int((bits + 7) / 8)
}

// EncodeFrame converts pixels into the SPI byte stream for a WS2812 chain
// (GRB order) including the trailing reset, reusing dst when it is large
// enough.
func EncodeFrame(dst []byte, px []types.RGB, maxBrightness uint8, speedHz uint32) []byte {
	n := len(px)*bytesPerPixel + resetLen(speedHz)
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]

	off := 0
	for _, p := range px {
		for _, c := range [3]uint8{p.G, p.R, p.B} {
			encodeByte(dst[off:], scale8(c, maxBrightness))
			off += encodedBytesPerByte
		}
	}
	for i := off; i < n; i++ {
		dst[i] = 0
	}
	return dst
}
