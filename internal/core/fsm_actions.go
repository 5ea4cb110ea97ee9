package core

import (
	"context"

	"github.com/librescoot/librefsm"

	"lightbar-service/internal/fsm"
	"lightbar-service/internal/types"
)

// Ensure LightSystem implements fsm.Actions
var _ fsm.Actions = (*LightSystem)(nil)

func stateIDToServiceState(id librefsm.StateID) types.ServiceState {
	switch id {
	case fsm.StateInit:
		return types.StateInit
	case fsm.StateRunning:
		return types.StateRunning
	case fsm.StateShuttingDown:
		return types.StateShuttingDown
	case fsm.StateStopped:
		return types.StateStopped
	default:
		return types.ServiceState(id)
	}
}

// initFSM builds and starts the lifecycle machine. It outlives ctx so the
// shutdown sequence can still run after a signal; Shutdown cancels it.
func (s *LightSystem) initFSM(ctx context.Context) error {
	machine, err := fsm.NewDefinition(s).Build()
	if err != nil {
		return err
	}

	machine.OnStateChange(func(from, to librefsm.StateID) {
		newState := stateIDToServiceState(to)
		s.logger.Infof("State transition: %s -> %s", stateIDToServiceState(from), newState)

		// Publish the known new state; CurrentState would deadlock here.
		if err := s.redis.PublishServiceState(newState); err != nil {
			s.logger.Errorf("Failed to publish state: %v", err)
		}
	})

	fsmCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if err := machine.Start(fsmCtx); err != nil {
		cancel()
		return err
	}
	s.machine = machine
	s.fsmCancel = cancel

	s.logger.Infof("librefsm state machine started")
	return nil
}

// === State Entry/Exit Actions ===

func (s *LightSystem) EnterRunning(c *librefsm.Context) error {
	s.logger.Debugf("FSM: EnterRunning")
	s.running.Store(true)
	s.publishSettings()
	return nil
}

func (s *LightSystem) ExitRunning(c *librefsm.Context) error {
	s.logger.Debugf("FSM: ExitRunning")
	s.running.Store(false)
	return nil
}

func (s *LightSystem) EnterShuttingDown(c *librefsm.Context) error {
	s.logger.Infof("Entering shutting down state from %s", stateIDToServiceState(c.FromState))

	// Wait out a tick that may still be in flight.
	s.loopMu.Lock()
	s.blank()
	dirty := s.store.Dirty()
	err := s.store.Flush()
	s.loopMu.Unlock()

	if err != nil {
		s.logger.Errorf("Failed to flush configuration: %v", err)
	} else if dirty {
		s.logger.Infof("Flushed configuration")
		s.publishSettings()
	}

	// Events cannot be delivered synchronously from inside a callback.
	go func() {
		if err := s.machine.SendSync(librefsm.Event{ID: fsm.EvFlushComplete}); err != nil {
			s.logger.Debugf("flush-complete not delivered: %v", err)
		}
	}()
	return nil
}

func (s *LightSystem) EnterStopped(c *librefsm.Context) error {
	s.logger.Infof("Light system stopped")
	s.running.Store(false)
	s.stopOnce.Do(func() { close(s.stopped) })
	return nil
}

// === Transition Actions ===

func (s *LightSystem) OnShutdownTimeout(c *librefsm.Context) error {
	s.logger.Warnf("FSM: Shutdown timeout, stopping without a completed flush")
	return nil
}
