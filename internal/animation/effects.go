package animation

import (
	"math"
	"time"

	"lightbar-service/internal/types"
)

// timing is the fixed tick period and cycle length of an effect. A zero
// period means the effect does not animate.
type timing struct {
	period time.Duration
	cycle  int
}

var effectTiming = [types.EffectCount]timing{
	types.EffectConstant:     {},
	types.EffectSingleFlash:  {period: 100 * time.Millisecond, cycle: 10},
	types.EffectDoubleFlash:  {period: 50 * time.Millisecond, cycle: 20},
	types.EffectSingleFade:   {period: 5 * time.Millisecond, cycle: 200},
	types.EffectDoubleFade:   {period: 5 * time.Millisecond, cycle: 200},
	types.EffectForwardShift: {period: 100 * time.Millisecond},
	types.EffectReverseShift: {period: 100 * time.Millisecond},
}

const (
	singleFlashOn = 3

	doubleFlashPulse = 3 // ticks per pulse and per gap

	singleFadeRamp = 80 // rise [0,80), fall [80,160), off after
	doubleFadeRamp = 40 // rise, fall, rise, fall, then off

	// shiftSlotTicks is how many ticks each color is injected for.
	shiftSlotTicks = 4
)

func timingFor(e types.Effect) timing {
	if !e.Valid() {
		return timing{}
	}
	return effectTiming[e]
}

// level returns the fraction (0..1) of the configured brightness the RGB
// segment shows at tick for the pulsing effects.
func level(e types.Effect, tick int) float64 {
	switch e {
	case types.EffectConstant:
		return 1
	case types.EffectSingleFlash:
		if tick < singleFlashOn {
			return 1
		}
		return 0
	case types.EffectDoubleFlash:
		if pulse := tick / doubleFlashPulse; pulse == 0 || pulse == 2 {
			return 1
		}
		return 0
	case types.EffectSingleFade:
		return ramp(tick, singleFadeRamp, 1)
	case types.EffectDoubleFade:
		return ramp(tick, doubleFadeRamp, 2)
	}
	return 0
}

// ramp is `pairs` quarter-sine rise/fall pairs of n ticks per segment,
// back to back, followed by darkness.
func ramp(tick, n, pairs int) float64 {
	seg := tick / n
	if seg >= 2*pairs {
		return 0
	}
	p := float64(tick%n) / float64(n)
	if seg%2 == 0 {
		return math.Sin(p * math.Pi / 2)
	}
	return math.Sin((p + 1) * math.Pi / 2)
}

func scale(v uint8, f float64) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return v
	}
	return uint8(float64(v) * f)
}

func isShift(e types.Effect) bool {
	return e == types.EffectForwardShift || e == types.EffectReverseShift
}

// shiftColors is the list a chase injects from. A single color alternates
// with black so it reads as moving.
func shiftColors(colors []types.Color) []types.Color {
	switch len(colors) {
	case 0:
		return []types.Color{types.ColorBlack}
	case 1:
		return []types.Color{colors[0], types.ColorBlack}
	}
	return colors
}
