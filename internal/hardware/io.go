package hardware

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/atomic"

	"lightbar-service/internal/logger"
	"lightbar-service/internal/types"
)

// Config selects the button line and the LED strip device.
type Config struct {
	ButtonChip      string
	ButtonLine      int
	ButtonActiveLow bool

	SPIDevice     string
	SPISpeedHz    uint32
	MaxBrightness uint8
}

func DefaultConfig() Config {
	return Config{
		ButtonChip:      DefaultButtonChip,
		ButtonLine:      DefaultButtonLine,
		ButtonActiveLow: true,
		SPIDevice:       DefaultSPIDevice,
		SPISpeedHz:      DefaultSPISpeedHz,
		MaxBrightness:   DefaultMaxBrightness,
	}
}

// LinuxHardwareIO owns the button GPIO line and the LED strip.
type LinuxHardwareIO struct {
	cfg    Config
	logger *logger.Logger

	chip  *gpiocdev.Chip
	line  *gpiocdev.Line
	strip *SPIStrip

	mu     sync.RWMutex
	onEdge func()

	// lastLevel is reported when the line cannot be read.
	lastLevel atomic.Bool
}

func NewLinuxHardwareIO(cfg Config, l *logger.Logger) *LinuxHardwareIO {
	return &LinuxHardwareIO{
		cfg:    cfg,
		logger: l,
		strip:  NewSPIStrip(cfg.SPIDevice, cfg.SPISpeedHz, cfg.MaxBrightness, l),
	}
}

func (io *LinuxHardwareIO) Initialize() error {
	io.logger.Infof("Initializing hardware IO")

	if err := io.strip.Open(); err != nil {
		return fmt.Errorf("failed to initialize LED strip: %w", err)
	}

	chip, err := gpiocdev.NewChip(io.cfg.ButtonChip, gpiocdev.WithConsumer(Consumer))
	if err != nil {
		io.strip.Close()
		return fmt.Errorf("failed to open GPIO chip %s: %w", io.cfg.ButtonChip, err)
	}
	io.chip = chip

	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(io.handleEvent),
	}
	if io.cfg.ButtonActiveLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}
	line, err := chip.RequestLine(io.cfg.ButtonLine, opts...)
	if err != nil {
		chip.Close()
		io.strip.Close()
		return fmt.Errorf("failed to request GPIO line %d: %w", io.cfg.ButtonLine, err)
	}
	io.line = line
	io.logger.Infof("Configured button: chip=%s, line=%d, activeLow=%v",
		io.cfg.ButtonChip, io.cfg.ButtonLine, io.cfg.ButtonActiveLow)

	return nil
}

// handleEvent runs on the gpiocdev watcher goroutine for every edge.
func (io *LinuxHardwareIO) handleEvent(evt gpiocdev.LineEvent) {
	io.mu.RLock()
	cb := io.onEdge
	io.mu.RUnlock()
	if cb != nil {
		cb()
	}
}

// OnButtonEdge registers the function called on every button edge. It must
// not block.
func (io *LinuxHardwareIO) OnButtonEdge(cb func()) {
	io.mu.Lock()
	defer io.mu.Unlock()
	io.onEdge = cb
}

// ButtonPressed samples the current logical button level.
func (io *LinuxHardwareIO) ButtonPressed() bool {
	if io.line == nil {
		return io.lastLevel.Load()
	}
	v, err := io.line.Value()
	if err != nil {
		io.logger.Warnf("Failed to read button line: %v", err)
		return io.lastLevel.Load()
	}
	pressed := v == 1
	io.lastLevel.Store(pressed)
	return pressed
}

// ShowPixels transmits one full frame.
func (io *LinuxHardwareIO) ShowPixels(px []types.RGB) error {
	return io.strip.Write(px)
}

func (io *LinuxHardwareIO) Cleanup() {
	io.logger.Infof("Cleaning up hardware resources")

	if io.line != nil {
		io.line.Close()
		io.line = nil
	}
	if io.chip != nil {
		io.chip.Close()
		io.chip = nil
	}
	if err := io.strip.Close(); err != nil {
		io.logger.Warnf("Failed to close LED strip: %v", err)
	}

	io.logger.Infof("Hardware cleanup complete")
}
