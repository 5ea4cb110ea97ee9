package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lightbar-service/internal/config"
	"lightbar-service/internal/logger"
	"lightbar-service/internal/types"

	"github.com/redis/go-redis/v9"
)

const (
	// StatusHash holds the published settings and lifecycle state.
	StatusHash = "lightbar"
	// StatusChannel is notified with the name of whatever changed in StatusHash.
	StatusChannel = "lightbar"
	// ButtonsChannel carries one message per recognized gesture.
	ButtonsChannel = "buttons"

	opTimeout = 2 * time.Second
)

type RedisClient struct {
	client *redis.Client
	logger *logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewRedisClient(host string, port int, l *logger.Logger) *RedisClient {
	return NewRedisClientAddr(fmt.Sprintf("%s:%d", host, port), l)
}

func NewRedisClientAddr(addr string, l *logger.Logger) *RedisClient {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   0,
		}),
		logger: l,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (r *RedisClient) Connect() error {
	r.logger.Infof("Attempting to connect to Redis at %s", r.client.Options().Addr)

	ctx, cancel := context.WithTimeout(r.ctx, opTimeout)
	defer cancel()
	if err := r.client.Ping(ctx).Err(); err != nil {
		r.logger.Errorf("Redis connection failed: %v", err)
		return fmt.Errorf("redis connection failed: %w", err)
	}
	r.logger.Infof("Successfully connected to Redis")
	return nil
}

// GetBytes returns the raw value stored under key, or nil when the key does
// not exist.
func (r *RedisClient) GetBytes(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(r.ctx, opTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

func (r *RedisClient) PutBytes(key string, data []byte) error {
	ctx, cancel := context.WithTimeout(r.ctx, opTimeout)
	defer cancel()

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// PublishSettings mirrors cfg into the status hash and announces it.
func (r *RedisClient) PublishSettings(cfg config.Config) error {
	r.logger.Debugf("Publishing settings: %s", cfg)

	ctx, cancel := context.WithTimeout(r.ctx, opTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, StatusHash,
		"brightness", cfg.Brightness.String(),
		"mode", cfg.Mode.String(),
		"effect", cfg.Effect.String(),
		"colors", cfg.ColorList(),
	)
	pipe.Publish(ctx, StatusChannel, "settings")
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warnf("Failed to publish settings: %v", err)
		return err
	}
	return nil
}

func (r *RedisClient) PublishServiceState(state types.ServiceState) error {
	r.logger.Infof("Publishing service state: %s", state)
	timestamp := time.Now().Format(time.RFC3339)

	ctx, cancel := context.WithTimeout(r.ctx, opTimeout)
	defer cancel()

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, StatusHash, "state", string(state))
	pipe.HSet(ctx, StatusHash, "state:timestamp", timestamp)
	pipe.Publish(ctx, StatusChannel, "state")
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warnf("Failed to publish service state: %v", err)
		return err
	}
	return nil
}

// PublishButtonEvent publishes a gesture to the "buttons" channel
func (r *RedisClient) PublishButtonEvent(event string) error {
	r.logger.Debugf("Publishing button event: %s", event)

	ctx, cancel := context.WithTimeout(r.ctx, opTimeout)
	defer cancel()

	if err := r.client.Publish(ctx, ButtonsChannel, event).Err(); err != nil {
		r.logger.Warnf("Failed to publish button event: %v", err)
		return err
	}
	return nil
}

func (r *RedisClient) Close() error {
	r.logger.Infof("Closing Redis client")
	r.cancel()
	return r.client.Close()
}
