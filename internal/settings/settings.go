// Package settings loads the service's hardware and runtime settings from a
// YAML file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"lightbar-service/internal/animation"
	"lightbar-service/internal/button"
	"lightbar-service/internal/config"
	"lightbar-service/internal/hardware"
)

var ErrInvalid = errors.New("invalid settings")

type Button struct {
	Chip       string        `yaml:"chip"`
	Line       int           `yaml:"line"`
	ActiveLow  bool          `yaml:"active-low"`
	Debounce   time.Duration `yaml:"debounce"`
	Multiclick time.Duration `yaml:"multiclick"`
	LongPress  time.Duration `yaml:"long-press"`
}

type Strip struct {
	Device        string `yaml:"device"`
	SpeedHz       uint32 `yaml:"speed-hz"`
	FixedLEDs     int    `yaml:"fixed-leds"`
	RGBLEDs       int    `yaml:"rgb-leds"`
	MaxBrightness int    `yaml:"max-brightness"`
}

type Redis struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Service struct {
	TickInterval  time.Duration `yaml:"tick-interval"`
	AutosaveDelay time.Duration `yaml:"autosave-delay"`
	LogLevel      string        `yaml:"log-level"`
}

type Settings struct {
	Button  Button  `yaml:"button"`
	Strip   Strip   `yaml:"strip"`
	Redis   Redis   `yaml:"redis"`
	Service Service `yaml:"service"`
}

func Default() Settings {
	t := button.DefaultTiming()
	return Settings{
		Button: Button{
			Chip:       hardware.DefaultButtonChip,
			Line:       hardware.DefaultButtonLine,
			ActiveLow:  true,
			Debounce:   t.Debounce,
			Multiclick: t.Multiclick,
			LongPress:  t.LongPress,
		},
		Strip: Strip{
			Device:        hardware.DefaultSPIDevice,
			SpeedHz:       hardware.DefaultSPISpeedHz,
			FixedLEDs:     hardware.DefaultFixedLEDs,
			RGBLEDs:       hardware.DefaultRGBLEDs,
			MaxBrightness: hardware.DefaultMaxBrightness,
		},
		Redis: Redis{
			Host: "localhost",
			Port: 6379,
		},
		Service: Service{
			TickInterval:  time.Millisecond,
			AutosaveDelay: config.AutosaveDelay,
			LogLevel:      "info",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	if err := Parse(data, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes YAML into s, keeping the current value of every field the
// document does not mention, and validates the result.
func Parse(data []byte, s *Settings) error {
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return s.Validate()
}

func (s Settings) Validate() error {
	switch {
	case s.Button.Chip == "":
		return fmt.Errorf("%w: button chip is empty", ErrInvalid)
	case s.Button.Line < 0:
		return fmt.Errorf("%w: button line %d", ErrInvalid, s.Button.Line)
	case s.Button.Debounce <= 0 || s.Button.Multiclick <= 0 || s.Button.LongPress <= 0:
		return fmt.Errorf("%w: button timings must be positive", ErrInvalid)
	case s.Strip.Device == "":
		return fmt.Errorf("%w: strip device is empty", ErrInvalid)
	case s.Strip.SpeedHz == 0:
		return fmt.Errorf("%w: strip speed is zero", ErrInvalid)
	case s.Strip.FixedLEDs < 0 || s.Strip.RGBLEDs < 0 || s.Strip.FixedLEDs+s.Strip.RGBLEDs == 0:
		return fmt.Errorf("%w: strip layout %d+%d", ErrInvalid, s.Strip.FixedLEDs, s.Strip.RGBLEDs)
	case s.Strip.MaxBrightness < 0 || s.Strip.MaxBrightness > 255:
		return fmt.Errorf("%w: max brightness %d", ErrInvalid, s.Strip.MaxBrightness)
	case s.Redis.Port <= 0 || s.Redis.Port > 65535:
		return fmt.Errorf("%w: redis port %d", ErrInvalid, s.Redis.Port)
	case s.Service.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval %v", ErrInvalid, s.Service.TickInterval)
	case s.Service.AutosaveDelay <= 0:
		return fmt.Errorf("%w: autosave delay %v", ErrInvalid, s.Service.AutosaveDelay)
	}
	return nil
}

func (s Settings) Hardware() hardware.Config {
	return hardware.Config{
		ButtonChip:      s.Button.Chip,
		ButtonLine:      s.Button.Line,
		ButtonActiveLow: s.Button.ActiveLow,
		SPIDevice:       s.Strip.Device,
		SPISpeedHz:      s.Strip.SpeedHz,
		MaxBrightness:   uint8(s.Strip.MaxBrightness),
	}
}

func (s Settings) Layout() animation.Layout {
	return animation.Layout{Fixed: s.Strip.FixedLEDs, RGB: s.Strip.RGBLEDs}
}

func (s Settings) Timing() button.Timing {
	return button.Timing{
		Debounce:   s.Button.Debounce,
		Multiclick: s.Button.Multiclick,
		LongPress:  s.Button.LongPress,
	}
}
