package core

import (
	"lightbar-service/internal/config"
	"lightbar-service/internal/types"
)

// MessagingClient defines the persistence and status operations needed by LightSystem
type MessagingClient interface {
	config.KV

	Connect() error
	Close() error

	PublishSettings(cfg config.Config) error
	PublishServiceState(state types.ServiceState) error
	PublishButtonEvent(event string) error
}

// HardwareIO defines the button and LED operations needed by LightSystem
type HardwareIO interface {
	Initialize() error
	Cleanup()

	// ButtonPressed samples the current logical button level.
	ButtonPressed() bool
	// OnButtonEdge registers a non-blocking callback run on every edge.
	OnButtonEdge(cb func())

	ShowPixels(px []types.RGB) error
}
