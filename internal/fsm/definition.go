package fsm

import (
	"context"
	"time"

	"github.com/librescoot/librefsm"
)

// ShutdownTimeout bounds how long the final flush may take before the
// service stops anyway.
const ShutdownTimeout = 4 * time.Second

// Machine is the part of the built librefsm machine the service drives.
type Machine interface {
	Start(ctx context.Context) error
	SendSync(ev librefsm.Event) error
	CurrentState() librefsm.StateID
}

// NewDefinition creates the lifecycle FSM definition.
func NewDefinition(actions Actions) *librefsm.Definition {
	return librefsm.NewDefinition().
		State(StateInit).
		State(StateRunning,
			librefsm.WithOnEnter(actions.EnterRunning),
			librefsm.WithOnExit(actions.ExitRunning),
		).
		State(StateShuttingDown,
			librefsm.WithTimeout(ShutdownTimeout, EvShutdownTimeout),
			librefsm.WithOnEnter(actions.EnterShuttingDown),
		).
		State(StateStopped,
			librefsm.WithOnEnter(actions.EnterStopped),
		).

		// === Transitions ===

		Transition(StateInit, EvConfigLoaded, StateRunning).
		// Shutdown before the first config load has nothing to flush
		Transition(StateInit, EvShutdown, StateStopped).

		Transition(StateRunning, EvShutdown, StateShuttingDown).

		Transition(StateShuttingDown, EvFlushComplete, StateStopped).
		Transition(StateShuttingDown, EvShutdownTimeout, StateStopped,
			librefsm.WithAction(actions.OnShutdownTimeout),
		).

		Initial(StateInit)
}
