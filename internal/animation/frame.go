package animation

import (
	"github.com/lucasb-eyer/go-colorful"

	"lightbar-service/internal/types"
)

// Pixel is a color in the byte HSV space the palette is defined in: hue
// runs once around the wheel over 0..255.
type Pixel struct {
	H, S, V uint8
}

var Off = Pixel{}

func pixelFor(c types.Color, value uint8) Pixel {
	return Pixel{H: c.Hue(), S: c.Saturation(), V: c.Scale(value)}
}

// RGB converts the pixel for transmission.
func (p Pixel) RGB() types.RGB {
	if p.V == 0 {
		return types.RGBOff
	}
	h := float64(p.H) * 360.0 / 256.0
	r, g, b := colorful.Hsv(h, float64(p.S)/255.0, float64(p.V)/255.0).Clamped().RGB255()
	return types.RGB{R: r, G: g, B: b}
}

// Layout is the number of pixels in each strip segment. The fixed segment
// comes first on the wire.
type Layout struct {
	Fixed int
	RGB   int
}

func (l Layout) Len() int { return l.Fixed + l.RGB }

// Frame holds one full strip of pixels.
type Frame struct {
	layout Layout
	pixels []Pixel
}

func NewFrame(l Layout) *Frame {
	return &Frame{layout: l, pixels: make([]Pixel, l.Len())}
}

func (f *Frame) Layout() Layout { return f.layout }

func (f *Frame) Pixels() []Pixel { return f.pixels }

func (f *Frame) FixedSegment() []Pixel { return f.pixels[:f.layout.Fixed] }

func (f *Frame) RGBSegment() []Pixel { return f.pixels[f.layout.Fixed:] }

// ToRGB converts the frame into dst, which must hold Layout().Len() pixels,
// and returns it.
func (f *Frame) ToRGB(dst []types.RGB) []types.RGB {
	if cap(dst) < len(f.pixels) {
		dst = make([]types.RGB, len(f.pixels))
	}
	dst = dst[:len(f.pixels)]
	for i, p := range f.pixels {
		dst[i] = p.RGB()
	}
	return dst
}

func fill(dst []Pixel, p Pixel) {
	for i := range dst {
		dst[i] = p
	}
}
