package types

type ServiceState string

const (
	StateInit         ServiceState = "init"
	StateRunning      ServiceState = "running"
	StateShuttingDown ServiceState = "shutting-down"
	StateStopped      ServiceState = "stopped"
)
