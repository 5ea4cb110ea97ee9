package fsm

import "github.com/librescoot/librefsm"

// Actions is implemented by the light system to react to lifecycle
// transitions.
type Actions interface {
	EnterRunning(c *librefsm.Context) error
	ExitRunning(c *librefsm.Context) error
	EnterShuttingDown(c *librefsm.Context) error
	EnterStopped(c *librefsm.Context) error

	OnShutdownTimeout(c *librefsm.Context) error
}
