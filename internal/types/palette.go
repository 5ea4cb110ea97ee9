package types

// Color is an index into the fixed palette.
type Color uint8

const (
	ColorRed    Color = 0
	ColorWhite  Color = 10
	ColorBlack  Color = 11
	PaletteSize       = 12

	// HueSlots is the number of colors a single-color cycle visits; black
	// is only used as filler and is never selected directly.
	HueSlots = 11
)

var paletteHues = [PaletteSize]uint8{0, 24, 48, 80, 96, 128, 144, 160, 192, 224, 0, 0}

func (c Color) Valid() bool { return c < PaletteSize }

// Hue returns the hue byte (0..255 around the wheel).
func (c Color) Hue() uint8 {
	if !c.Valid() {
		return 0
	}
	return paletteHues[c]
}

// Saturation is zero for white and full for every hue slot.
func (c Color) Saturation() uint8 {
	if c == ColorWhite {
		return 0
	}
	return 255
}

// Scale returns the value a pixel of this color has at brightness v.
func (c Color) Scale(v uint8) uint8 {
	if c == ColorBlack || !c.Valid() {
		return 0
	}
	return v
}
