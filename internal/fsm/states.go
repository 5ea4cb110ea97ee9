package fsm

import "github.com/librescoot/librefsm"

// Service lifecycle states
const (
	StateInit         librefsm.StateID = "init"
	StateRunning      librefsm.StateID = "running"
	StateShuttingDown librefsm.StateID = "shutting-down"
	StateStopped      librefsm.StateID = "stopped"
)

// Lifecycle events
const (
	EvConfigLoaded    librefsm.EventID = "config-loaded"
	EvShutdown        librefsm.EventID = "shutdown"
	EvFlushComplete   librefsm.EventID = "flush-complete"
	EvShutdownTimeout librefsm.EventID = "shutdown-timeout"
)
