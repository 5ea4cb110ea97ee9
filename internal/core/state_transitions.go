package core

import (
	"time"

	"github.com/librescoot/librefsm"

	"lightbar-service/internal/fsm"
	"lightbar-service/internal/types"
)

// sendEvent sends an event to the FSM
func (s *LightSystem) sendEvent(event librefsm.EventID) error {
	return s.machine.SendSync(librefsm.Event{ID: event})
}

// State returns the current lifecycle state.
func (s *LightSystem) State() types.ServiceState {
	if s.machine == nil {
		return types.StateInit
	}
	return stateIDToServiceState(s.machine.CurrentState())
}

// Shutdown stops ticking, blanks the strip, flushes unsaved configuration
// and releases hardware and Redis. It is safe to call more than once and
// after a failed Start.
func (s *LightSystem) Shutdown() {
	s.shutdownOnce.Do(s.shutdown)
}

func (s *LightSystem) shutdown() {
	s.logger.Infof("Shutting down light system")

	if s.machine != nil {
		if err := s.sendEvent(fsm.EvShutdown); err != nil {
			s.logger.Warnf("Failed to send shutdown event: %v", err)
		}

		select {
		case <-s.stopped:
		case <-time.After(fsm.ShutdownTimeout + time.Second):
			s.logger.Errorf("Timed out waiting for shutdown to complete")
		}
		s.fsmCancel()
	}

	if err := s.redis.Close(); err != nil {
		s.logger.Warnf("Failed to close Redis client: %v", err)
	}
	s.io.Cleanup()
}
