package types

import "fmt"

type Mode uint8

const (
	ModeNormal Mode = iota
	ModeNormalPlusRGB

	ModeCount = 2
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeNormalPlusRGB:
		return "normal+rgb"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

func (m Mode) Valid() bool { return m < ModeCount }

type Brightness uint8

const (
	BrightnessOff Brightness = iota
	BrightnessLow
	BrightnessMed
	BrightnessHigh

	BrightnessCount = 4
)

var brightnessValues = [BrightnessCount]uint8{0, 80, 160, 250}

// Value is the pixel value (0..255) the level renders at.
func (b Brightness) Value() uint8 {
	if !b.Valid() {
		return 0
	}
	return brightnessValues[b]
}

func (b Brightness) String() string {
	switch b {
	case BrightnessOff:
		return "off"
	case BrightnessLow:
		return "low"
	case BrightnessMed:
		return "med"
	case BrightnessHigh:
		return "high"
	default:
		return fmt.Sprintf("brightness(%d)", uint8(b))
	}
}

func (b Brightness) Valid() bool { return b < BrightnessCount }

type Effect uint8

const (
	EffectConstant Effect = iota
	EffectSingleFlash
	EffectDoubleFlash
	EffectSingleFade
	EffectDoubleFade
	EffectForwardShift
	EffectReverseShift

	EffectCount = 7
)

var effectNames = [EffectCount]string{
	"constant",
	"single-flash",
	"double-flash",
	"single-fade",
	"double-fade",
	"forward-shift",
	"reverse-shift",
}

func (e Effect) String() string {
	if !e.Valid() {
		return fmt.Sprintf("effect(%d)", uint8(e))
	}
	return effectNames[e]
}

func (e Effect) Valid() bool { return e < EffectCount }
