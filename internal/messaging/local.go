package messaging

import (
	"lightbar-service/internal/config"
	"lightbar-service/internal/logger"
	"lightbar-service/internal/types"
)

// LocalClient keeps the record in memory and logs what would have been
// published. It stands in for Redis when none is available.
type LocalClient struct {
	*config.MemoryKV
	logger *logger.Logger
}

func NewLocalClient(l *logger.Logger) *LocalClient {
	return &LocalClient{MemoryKV: config.NewMemoryKV(), logger: l}
}

func (c *LocalClient) Connect() error {
	c.logger.Infof("Using in-memory settings store")
	return nil
}

func (c *LocalClient) Close() error { return nil }

func (c *LocalClient) PublishSettings(cfg config.Config) error {
	c.logger.Debugf("settings: %s", cfg)
	return nil
}

func (c *LocalClient) PublishServiceState(state types.ServiceState) error {
	c.logger.Debugf("state: %s", state)
	return nil
}

func (c *LocalClient) PublishButtonEvent(event string) error {
	c.logger.Debugf("%s: %s", ButtonsChannel, event)
	return nil
}
