// Package simulator implements the hardware interface on a terminal: the
// strip is drawn as colored cells and the keyboard acts as the button.
package simulator

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"lightbar-service/internal/logger"
	"lightbar-service/internal/types"
)

const (
	// ClickDuration is how long a space bar click holds the button down.
	ClickDuration = 80 * time.Millisecond

	cellsPerPixel = 2
	stripRow      = 2
	statusRow     = 4
	helpRow       = 0
)

const helpText = "space: click   h: hold/release   q: quit"

// Terminal is a HardwareIO backed by a tcell screen.
type Terminal struct {
	screen tcell.Screen
	logger *logger.Logger

	mu      sync.Mutex
	pressed bool
	holding bool
	onEdge  func()
	release *time.Timer
	last    []types.RGB
	status  func() string
	shown   string
	started bool
	closed  bool

	quit     chan struct{}
	quitOnce sync.Once
	wg       sync.WaitGroup
}

// New wraps screen, which must not be initialized yet.
func New(screen tcell.Screen, l *logger.Logger) *Terminal {
	return &Terminal{
		screen: screen,
		logger: l,
		quit:   make(chan struct{}),
	}
}

// NewScreen opens the controlling terminal.
func NewScreen(l *logger.Logger) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	return New(screen, l), nil
}

// SetStatus installs a function whose result is shown under the strip.
func (t *Terminal) SetStatus(fn func() string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = fn
}

// Quit is closed when the user asks to leave.
func (t *Terminal) Quit() <-chan struct{} {
	return t.quit
}

func (t *Terminal) Initialize() error {
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()
	t.drawText(0, helpRow, helpText, tcell.StyleDefault)
	t.screen.Show()

	t.mu.Lock()
	t.started = true
	t.mu.Unlock()

	t.wg.Add(1)
	go t.pollEvents()
	return nil
}

func (t *Terminal) pollEvents() {
	defer t.wg.Done()
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.handleKey(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Terminal) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		t.requestQuit()
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch ev.Rune() {
	case ' ':
		t.click()
	case 'h', 'H':
		t.toggleHold()
	case 'q', 'Q':
		t.requestQuit()
	}
}

func (t *Terminal) requestQuit() {
	t.quitOnce.Do(func() {
		t.logger.Debugf("Quit requested")
		close(t.quit)
	})
}

// click presses the button and schedules the release.
func (t *Terminal) click() {
	t.mu.Lock()
	if t.holding || t.pressed {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.setLevel(true)
	t.mu.Lock()
	t.release = time.AfterFunc(ClickDuration, func() { t.setLevel(false) })
	t.mu.Unlock()
}

func (t *Terminal) toggleHold() {
	t.mu.Lock()
	t.holding = !t.holding
	hold := t.holding
	t.mu.Unlock()
	t.setLevel(hold)
}

// setLevel changes the simulated line and fires the edge callback.
func (t *Terminal) setLevel(pressed bool) {
	t.mu.Lock()
	if t.pressed == pressed {
		t.mu.Unlock()
		return
	}
	t.pressed = pressed
	cb := t.onEdge
	t.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (t *Terminal) ButtonPressed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pressed
}

func (t *Terminal) OnButtonEdge(cb func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onEdge = cb
}

// ShowPixels redraws the strip when it or the status line changed since
// the last frame.
func (t *Terminal) ShowPixels(px []types.RGB) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || !t.started {
		return fmt.Errorf("terminal not active")
	}
	var text string
	if t.status != nil {
		text = t.status()
	}
	if t.last != nil && equal(t.last, px) && text == t.shown {
		return nil
	}
	t.last = append(t.last[:0], px...)
	t.shown = text

	for i, p := range px {
		style := tcell.StyleDefault.
			Foreground(tcell.NewRGBColor(int32(p.R), int32(p.G), int32(p.B))).
			Background(tcell.ColorBlack)
		for c := 0; c < cellsPerPixel; c++ {
			t.screen.SetContent(i*cellsPerPixel+c, stripRow, '█', nil, style)
		}
	}
	w, _ := t.screen.Size()
	for x := 0; x < w; x++ {
		t.screen.SetContent(x, statusRow, ' ', nil, tcell.StyleDefault)
	}
	t.drawText(0, statusRow, text, tcell.StyleDefault)
	t.screen.Show()
	return nil
}

func (t *Terminal) drawText(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (t *Terminal) Cleanup() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	if t.release != nil {
		t.release.Stop()
	}
	started := t.started
	t.mu.Unlock()

	// The screen cannot be finalized before Init.
	if started {
		t.screen.Fini()
		t.wg.Wait()
	}
	t.requestQuit()
}

func equal(a, b []types.RGB) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
