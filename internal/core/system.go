// Package core ties the button, configuration store, animation engine and
// hardware together into the dispatcher loop.
package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"lightbar-service/internal/animation"
	"lightbar-service/internal/button"
	"lightbar-service/internal/config"
	"lightbar-service/internal/fsm"
	"lightbar-service/internal/logger"
	"lightbar-service/internal/types"
)

type Options struct {
	Layout        animation.Layout
	Timing        button.Timing
	TickInterval  time.Duration
	AutosaveDelay time.Duration

	// Clock defaults to time since NewLightSystem.
	Clock button.Clock
}

func DefaultOptions() Options {
	return Options{
		Layout:        animation.Layout{Fixed: 4, RGB: 4},
		Timing:        button.DefaultTiming(),
		TickInterval:  time.Millisecond,
		AutosaveDelay: config.AutosaveDelay,
	}
}

type LightSystem struct {
	logger *logger.Logger
	io     HardwareIO
	redis  MessagingClient
	opts   Options
	clock  button.Clock

	button *button.Button
	store  *config.Store
	engine *animation.Engine
	frame  *animation.Frame
	rgb    []types.RGB

	machine   fsm.Machine
	fsmCancel context.CancelFunc

	// loopMu is held for the duration of every tick so shutdown can wait
	// for the loop to go quiet before touching the strip and the store.
	loopMu      sync.Mutex
	running     atomic.Bool
	showFailing bool

	stopped      chan struct{}
	stopOnce     sync.Once
	shutdownOnce sync.Once
}

func NewLightSystem(io HardwareIO, redis MessagingClient, opts Options, l *logger.Logger) *LightSystem {
	clock := opts.Clock
	if clock == nil {
		origin := time.Now()
		clock = func() time.Duration { return time.Since(origin) }
	}

	s := &LightSystem{
		logger:  l,
		io:      io,
		redis:   redis,
		opts:    opts,
		clock:   clock,
		engine:  animation.NewEngine(opts.Layout),
		frame:   animation.NewFrame(opts.Layout),
		stopped: make(chan struct{}),
	}
	s.button = button.NewWithTiming(button.InputFunc(io.ButtonPressed), clock, opts.Timing)
	s.store = config.NewStore(redis, clock, l.WithTag("config"))
	if opts.AutosaveDelay > 0 {
		s.store.SetAutosaveDelay(opts.AutosaveDelay)
	}
	return s
}

func (s *LightSystem) Start(ctx context.Context) error {
	s.logger.Infof("Starting light system")

	if err := s.redis.Connect(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if err := s.io.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize hardware: %w", err)
	}
	s.io.OnButtonEdge(s.button.OnEdge)

	if err := s.initFSM(ctx); err != nil {
		return fmt.Errorf("failed to initialize state machine: %w", err)
	}

	if err := s.store.Load(); err != nil {
		s.logger.Warnf("Configuration store unavailable, running on defaults: %v", err)
	}

	if err := s.sendEvent(fsm.EvConfigLoaded); err != nil {
		return fmt.Errorf("failed to enter running state: %w", err)
	}

	s.logger.Infof("Light system started: %s", s.store.Current())
	return nil
}

// Run drives Tick from a ticker until ctx is cancelled or the system leaves
// the running state.
func (s *LightSystem) Run(ctx context.Context) error {
	interval := s.opts.TickInterval
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Debugf("Dispatcher loop running every %v", interval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !s.running.Load() {
				return nil
			}
			s.Tick(s.clock())
		}
	}
}

// Tick runs one dispatcher iteration: poll the button, apply any gesture,
// render and show a frame, then service the autosave. now must come from
// Options.Clock, which also stamps button edges and configuration changes.
func (s *LightSystem) Tick(now time.Duration) {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()

	if !s.running.Load() {
		return
	}

	if g, ok := s.button.Poll(now); ok {
		s.handleGesture(g)
	}

	s.engine.Render(s.store.Current(), now, s.frame)
	s.show(s.frame.ToRGB(s.rgb))

	if s.store.CheckAutosave(now) {
		s.publishSettings()
	}
}

// SetColors replaces the configured color list from outside the loop.
func (s *LightSystem) SetColors(colors ...types.Color) error {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	return s.store.SetColors(colors...)
}

// Config returns a copy of the live configuration.
func (s *LightSystem) Config() config.Config {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	return s.store.Current()
}

func (s *LightSystem) show(px []types.RGB) {
	s.rgb = px
	if err := s.io.ShowPixels(px); err != nil {
		if !s.showFailing {
			s.logger.Errorf("Failed to show frame: %v", err)
			s.showFailing = true
		}
		return
	}
	if s.showFailing {
		s.logger.Infof("LED output recovered")
		s.showFailing = false
	}
}

func (s *LightSystem) blank() {
	px := make([]types.RGB, s.opts.Layout.Len())
	if err := s.io.ShowPixels(px); err != nil {
		s.logger.Warnf("Failed to blank strip: %v", err)
	}
}

func (s *LightSystem) publishSettings() {
	if err := s.redis.PublishSettings(s.store.Current()); err != nil {
		s.logger.Warnf("Failed to publish settings: %v", err)
	}
}
