package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightbar-service/internal/config"
	"lightbar-service/internal/logger"
	"lightbar-service/internal/types"
)

func newTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	m := miniredis.RunT(t)
	r := NewRedisClientAddr(m.Addr(), logger.NewLogger(nil, logger.LogLevelError))
	require.NoError(t, r.Connect())
	t.Cleanup(func() { r.Close() })
	return r, m
}

func TestConnectFails(t *testing.T) {
	m := miniredis.RunT(t)
	addr := m.Addr()
	m.Close()

	r := NewRedisClientAddr(addr, logger.NewLogger(nil, logger.LogLevelError))
	defer r.Close()
	assert.Error(t, r.Connect())
}

func TestBytesRoundTrip(t *testing.T) {
	r, m := newTestClient(t)

	data, err := r.GetBytes(config.Key)
	require.NoError(t, err)
	assert.Nil(t, data, "absent key reads as nil")

	record, err := config.Default().MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, r.PutBytes(config.Key, record))

	got, err := r.GetBytes(config.Key)
	require.NoError(t, err)
	assert.Equal(t, record, got)

	raw, err := m.Get(config.Key)
	require.NoError(t, err)
	assert.Equal(t, string(record), raw)
}

func TestGetBytesError(t *testing.T) {
	r, m := newTestClient(t)
	m.SetError("LOADING")
	_, err := r.GetBytes(config.Key)
	assert.Error(t, err)
	assert.Error(t, r.PutBytes(config.Key, []byte{1}))
}

func TestStoreOverRedis(t *testing.T) {
	r, _ := newTestClient(t)
	l := logger.NewLogger(nil, logger.LogLevelError)
	clock := func() time.Duration { return 0 }

	s := config.NewStore(r, clock, l)
	require.NoError(t, s.Load())
	assert.Equal(t, config.Default(), s.Current())

	s.CycleEffect()
	require.NoError(t, s.Flush())

	other := config.NewStore(r, clock, l)
	require.NoError(t, other.Load())
	assert.Equal(t, types.EffectDoubleFade, other.Current().Effect)
}

func TestPublishSettings(t *testing.T) {
	r, m := newTestClient(t)

	cfg := config.Default()
	cfg.Brightness = types.BrightnessHigh
	require.NoError(t, r.PublishSettings(cfg))

	assert.Equal(t, "high", m.HGet(StatusHash, "brightness"))
	assert.Equal(t, "normal+rgb", m.HGet(StatusHash, "mode"))
	assert.Equal(t, "single-fade", m.HGet(StatusHash, "effect"))
	assert.Equal(t, "10", m.HGet(StatusHash, "colors"))
}

func TestPublishServiceState(t *testing.T) {
	r, m := newTestClient(t)
	require.NoError(t, r.PublishServiceState(types.StateRunning))
	assert.Equal(t, "running", m.HGet(StatusHash, "state"))
	assert.NotEmpty(t, m.HGet(StatusHash, "state:timestamp"))
}

func TestPublishButtonEvent(t *testing.T) {
	r, _ := newTestClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sub := r.client.Subscribe(ctx, ButtonsChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, r.PublishButtonEvent("short:2"))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, ButtonsChannel, msg.Channel)
	assert.Equal(t, "short:2", msg.Payload)
}

func TestLocalClient(t *testing.T) {
	c := NewLocalClient(logger.NewLogger(nil, logger.LogLevelError))
	require.NoError(t, c.Connect())
	defer c.Close()

	s := config.NewStore(c, func() time.Duration { return 0 }, logger.NewLogger(nil, logger.LogLevelError))
	require.NoError(t, s.Load())
	assert.Equal(t, 1, c.Puts())

	assert.NoError(t, c.PublishSettings(s.Current()))
	assert.NoError(t, c.PublishServiceState(types.StateRunning))
	assert.NoError(t, c.PublishButtonEvent("long:1"))
}
