package config

import (
	"fmt"
	"time"

	"lightbar-service/internal/logger"
	"lightbar-service/internal/types"
)

const (
	// Key is the KV key the record is stored under.
	Key = "lightbar:config"

	AutosaveDelay = 20 * time.Second
)

// Store owns the live configuration. Mutations and autosave run on the
// dispatcher loop only.
type Store struct {
	kv     KV
	logger *logger.Logger
	clock  func() time.Duration
	delay  time.Duration

	cfg          Config
	dirty        bool
	lastMutation time.Duration
}

// NewStore creates a store on kv. Mutations are stamped with clock, so the
// now passed to CheckAutosave must come from the same clock.
func NewStore(kv KV, clock func() time.Duration, l *logger.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: l,
		clock:  clock,
		delay:  AutosaveDelay,
		cfg:    Default(),
	}
}

// SetAutosaveDelay overrides the quiet period before a dirty configuration
// is written back.
func (s *Store) SetAutosaveDelay(d time.Duration) {
	s.delay = d
}

func (s *Store) Current() Config {
	return s.cfg
}

func (s *Store) Dirty() bool {
	return s.dirty
}

// Load reads the stored record. A missing or corrupt record is replaced by
// the default configuration, which is written back immediately. A failed
// read leaves the stored record alone: the store runs on the defaults in
// memory and the read error is returned.
func (s *Store) Load() error {
	data, err := s.kv.GetBytes(Key)
	if err != nil {
		s.cfg = Default()
		s.dirty = false
		s.logger.Warnf("Failed to read stored configuration, running on defaults: %v", err)
		return fmt.Errorf("failed to read configuration: %w", err)
	}

	var cfg Config
	uerr := cfg.UnmarshalBinary(data)
	switch {
	case uerr == nil:
		s.cfg = cfg
		s.dirty = false
		s.logger.Infof("Loaded configuration: %s", cfg)
		return nil
	case data == nil:
		s.logger.Infof("No stored configuration, using defaults")
	default:
		s.logger.Warnf("Stored configuration rejected: %v", uerr)
	}

	s.cfg = Default()
	s.dirty = false
	s.logger.Infof("Using default configuration: %s", s.cfg)
	return s.Save()
}

// Save writes the current record. Failures are reported but not retried.
func (s *Store) Save() error {
	data, err := s.cfg.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := s.kv.PutBytes(Key, data); err != nil {
		s.logger.Errorf("Failed to save configuration: %v", err)
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	s.logger.Debugf("Saved configuration: %s", s.cfg)
	return nil
}

// CheckAutosave writes the configuration back once it has been dirty and
// untouched for longer than the autosave delay. It reports whether a write
// was attempted.
func (s *Store) CheckAutosave(now time.Duration) bool {
	if !s.dirty || now-s.lastMutation <= s.delay {
		return false
	}
	s.dirty = false
	if err := s.Save(); err != nil {
		s.logger.Warnf("Autosave failed, changes kept in memory only: %v", err)
	} else {
		s.logger.Infof("Autosaved configuration: %s", s.cfg)
	}
	return true
}

// Flush saves immediately if there are unsaved changes.
func (s *Store) Flush() error {
	if !s.dirty {
		return nil
	}
	s.dirty = false
	return s.Save()
}

// touch marks the configuration dirty and restarts the autosave window.
func (s *Store) touch() {
	s.dirty = true
	s.lastMutation = s.clock()
}

func (s *Store) CycleBrightness() types.Brightness {
	s.cfg.Brightness = (s.cfg.Brightness + 1) % types.BrightnessCount
	s.touch()
	s.logger.Infof("Brightness: %s", s.cfg.Brightness)
	return s.cfg.Brightness
}

func (s *Store) CycleMode() types.Mode {
	s.cfg.Mode = (s.cfg.Mode + 1) % types.ModeCount
	s.touch()
	s.logger.Infof("Mode: %s", s.cfg.Mode)
	return s.cfg.Mode
}

// CycleSingleColor collapses the color list to its first entry and moves
// that entry to the next hue slot.
func (s *Store) CycleSingleColor() types.Color {
	s.cfg.ColorCount = 1
	s.cfg.Colors[0] = (s.cfg.Colors[0] + 1) % types.HueSlots
	s.touch()
	s.logger.Infof("Color: %d", s.cfg.Colors[0])
	return s.cfg.Colors[0]
}

func (s *Store) CycleEffect() types.Effect {
	s.cfg.Effect = (s.cfg.Effect + 1) % types.EffectCount
	s.touch()
	s.logger.Infof("Effect: %s", s.cfg.Effect)
	return s.cfg.Effect
}

// SetColors replaces the color list. Entries past MaxColors are dropped.
func (s *Store) SetColors(colors ...types.Color) error {
	if len(colors) > MaxColors {
		colors = colors[:MaxColors]
	}
	for _, c := range colors {
		if !c.Valid() {
			return fmt.Errorf("%w: color %d", ErrInvalidRecord, c)
		}
	}
	var list [MaxColors]types.Color
	copy(list[:], colors)
	s.cfg.Colors = list
	s.cfg.ColorCount = len(colors)
	s.touch()
	return nil
}

// ResetDefaults restores the factory configuration.
func (s *Store) ResetDefaults() {
	s.cfg = Default()
	s.touch()
	s.logger.Infof("Configuration reset to defaults")
}
