// Package button classifies presses of a single pushbutton into short and
// long multi-click gestures.
//
// OnEdge is safe to call from an interrupt-like context (the GPIO event
// goroutine); everything else belongs to the polling loop.
package button

import (
	"fmt"
	"time"

	"go.uber.org/atomic"
)

const (
	DebounceDelay    = 20 * time.Millisecond
	MulticlickWindow = 500 * time.Millisecond
	LongPressWindow  = 1000 * time.Millisecond

	// MaxBucket is the highest click count a gesture reports; anything
	// above it is folded into it.
	MaxBucket = 3
)

// Kind tells short presses from long ones.
type Kind uint8

const (
	ShortPress Kind = iota + 1
	LongPress
)

func (k Kind) String() string {
	switch k {
	case ShortPress:
		return "short"
	case LongPress:
		return "long"
	default:
		return "none"
	}
}

// Gesture is a completed interaction: Clicks is 1, 2 or 3 (three or more).
type Gesture struct {
	Kind   Kind
	Clicks int
}

func (g Gesture) String() string {
	return fmt.Sprintf("%s:%d", g.Kind, g.Clicks)
}

// Short is an n-click short press gesture.
func Short(n int) Gesture { return Gesture{Kind: ShortPress, Clicks: bucket(n)} }

// Long is a long press ending a sequence of n clicks.
func Long(n int) Gesture { return Gesture{Kind: LongPress, Clicks: bucket(n)} }

func bucket(n int) int {
	if n >= MaxBucket {
		return MaxBucket
	}
	return n
}

// Input reports the current logical level of the button.
type Input interface {
	Pressed() bool
}

// InputFunc adapts a plain function to Input.
type InputFunc func() bool

func (f InputFunc) Pressed() bool { return f() }

// Clock returns monotonic time since an arbitrary fixed origin.
type Clock func() time.Duration

// Timing holds the classifier windows.
type Timing struct {
	Debounce   time.Duration
	Multiclick time.Duration
	LongPress  time.Duration
}

// DefaultTiming returns the standard debounce, multiclick and long press
// windows.
func DefaultTiming() Timing {
	return Timing{
		Debounce:   DebounceDelay,
		Multiclick: MulticlickWindow,
		LongPress:  LongPressWindow,
	}
}

// State is a diagnostic view of the classifier.
type State uint8

const (
	StateIdle State = iota
	StateDebouncing
	StateCounting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateCounting:
		return "counting"
	default:
		return "unknown"
	}
}

// Button classifies the edges of one input into gestures.
type Button struct {
	input  Input
	clock  Clock
	timing Timing

	// pending holds the timestamp of the most recent unprocessed edge plus
	// one, or zero when no edge is pending. A single word keeps the flag
	// and its timestamp from being observed separately.
	pending atomic.Int64

	clicks    int
	lastClick time.Duration
}

// New creates a Button with the default timing.
func New(input Input, clock Clock) *Button {
	return NewWithTiming(input, clock, DefaultTiming())
}

// NewWithTiming creates a Button with custom windows.
func NewWithTiming(input Input, clock Clock, timing Timing) *Button {
	return &Button{
		input:  input,
		clock:  clock,
		timing: timing,
	}
}

// OnEdge records that the input changed. It never classifies anything.
func (b *Button) OnEdge() {
	b.pending.Store(int64(b.clock()) + 1)
}

// Poll advances the classifier to now and returns the gesture completed by
// this call, if any.
func (b *Button) Poll(now time.Duration) (Gesture, bool) {
	if p := b.pending.Load(); p != 0 {
		changedAt := time.Duration(p - 1)
		// A failed swap means a newer edge arrived; its own debounce
		// window starts over.
		if now-changedAt > b.timing.Debounce && b.pending.CompareAndSwap(p, 0) {
			if b.input.Pressed() {
				b.lastClick = now
				b.clicks++
			}
		}
	}

	if b.clicks == 0 {
		return Gesture{}, false
	}

	elapsed := now - b.lastClick
	pressed := b.input.Pressed()
	switch {
	case !pressed && elapsed > b.timing.Multiclick:
		g := Short(b.clicks)
		b.clicks = 0
		return g, true
	case pressed && elapsed > b.timing.LongPress:
		g := Long(b.clicks)
		b.clicks = 0
		return g, true
	}
	return Gesture{}, false
}

// State reports whether an edge is settling or clicks are being counted.
func (b *Button) State() State {
	switch {
	case b.pending.Load() != 0:
		return StateDebouncing
	case b.clicks > 0:
		return StateCounting
	default:
		return StateIdle
	}
}

// Clicks is the number of presses accumulated toward the current gesture.
func (b *Button) Clicks() int {
	return b.clicks
}
