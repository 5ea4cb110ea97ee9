// Package animation turns a lighting configuration and a monotonic clock
// into pixel frames for a strip made of a fixed white segment followed by
// an RGB effect segment.
package animation

import (
	"time"

	"lightbar-service/internal/config"
	"lightbar-service/internal/types"
)

// Engine carries effect phase between frames. It is not safe for
// concurrent use; the dispatcher loop owns it.
type Engine struct {
	layout Layout

	started bool
	effect  types.Effect
	mode    types.Mode

	// fresh is set by reset; the next frame renders tick 0 without
	// waiting a period.
	fresh  bool
	tick   int
	anchor time.Duration
	hueIdx int
	shift  []Pixel
}

func NewEngine(l Layout) *Engine {
	return &Engine{
		layout: l,
		shift:  make([]Pixel, l.RGB),
	}
}

// Tick is the current position within the active effect's cycle.
func (e *Engine) Tick() int { return e.tick }

// Render writes the frame for cfg at time now.
func (e *Engine) Render(cfg config.Config, now time.Duration, frame *Frame) {
	bv := cfg.Brightness.Value()
	fill(frame.FixedSegment(), Pixel{V: bv})

	if !e.started || cfg.Effect != e.effect || cfg.Mode != e.mode {
		e.reset(cfg, now)
	}

	rgb := frame.RGBSegment()
	if cfg.Mode != types.ModeNormalPlusRGB {
		fill(rgb, Off)
		return
	}

	e.advance(cfg, now)

	if isShift(cfg.Effect) {
		copy(rgb, e.shift)
		return
	}

	colors := cfg.ActiveColors()
	if len(colors) == 0 {
		fill(rgb, Off)
		return
	}
	c := colors[0]
	if cfg.Effect != types.EffectConstant {
		c = colors[e.hueIdx%len(colors)]
	}
	fill(rgb, pixelFor(c, scale(bv, level(cfg.Effect, e.tick))))
}

func (e *Engine) reset(cfg config.Config, now time.Duration) {
	e.started = true
	e.effect = cfg.Effect
	e.mode = cfg.Mode
	e.fresh = true
	e.tick = 0
	e.anchor = now
	e.hueIdx = 0
	fill(e.shift, Off)
}

// advance moves the phase forward by at most one tick. When the loop has
// fallen more than a period behind the anchor is resynchronized rather
// than replaying the missed ticks.
func (e *Engine) advance(cfg config.Config, now time.Duration) {
	t := timingFor(cfg.Effect)
	if t.period == 0 {
		return
	}

	if e.fresh {
		e.fresh = false
		e.anchor = now
		if isShift(cfg.Effect) {
			e.inject(cfg)
		}
		return
	}

	elapsed := now - e.anchor
	if elapsed < t.period {
		return
	}
	if elapsed >= 2*t.period {
		e.anchor = now
	} else {
		e.anchor += t.period
	}

	if isShift(cfg.Effect) {
		e.tick = (e.tick + 1) % (shiftSlotTicks * len(shiftColors(cfg.ActiveColors())))
		e.inject(cfg)
		return
	}

	e.tick++
	if e.tick >= t.cycle {
		e.tick = 0
		if n := cfg.ColorCount; n > 0 {
			e.hueIdx = (e.hueIdx + 1) % n
		}
	}
}

// inject shifts the chase buffer by one pixel and feeds the color for the
// current tick in at the vacated end.
func (e *Engine) inject(cfg config.Config) {
	n := len(e.shift)
	if n == 0 {
		return
	}
	colors := shiftColors(cfg.ActiveColors())
	slot := (e.tick / shiftSlotTicks) % len(colors)
	p := pixelFor(colors[slot], cfg.Brightness.Value())

	if cfg.Effect == types.EffectForwardShift {
		copy(e.shift, e.shift[1:])
		e.shift[n-1] = p
		return
	}
	copy(e.shift[1:], e.shift[:n-1])
	e.shift[0] = p
}
