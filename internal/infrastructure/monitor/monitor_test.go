package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

// go-redis starts a package-level clock goroutine when imported.
var redisTimeCache = goleak.IgnoreTopFunction("github.com/redis/go-redis/v9/internal/pool.startGlobalTimeCache.func1")

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, redisTimeCache)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type queueSize int

func (q queueSize) Size() (int, error) { return int(q), nil }

func TestMonitor_OnlineWithoutExternalServices(t *testing.T) {
	m := New(nil, nil, queueSize(4), time.Hour, nil)
	m.Start()
	defer m.Stop()

	assert.True(t, m.IsOnline())
	status := m.GetStatus()
	assert.True(t, status.Queue)
	assert.Equal(t, 4, status.QueueSize)
}

func TestMonitor_PostgresDown(t *testing.T) {
	m := New(pingerFunc(func(context.Context) error { return errors.New("refused") }), nil, nil, time.Hour, nil)
	m.Start()
	defer m.Stop()

	assert.False(t, m.IsOnline())
	assert.False(t, m.GetStatus().PostgreSQL)
}

func TestMonitor_StopIsIdempotent(t *testing.T) {
	m := New(pingerFunc(func(context.Context) error { return nil }), nil, nil, time.Millisecond, nil)
	m.Start()
	time.Sleep(5 * time.Millisecond)
	m.Stop()
	m.Stop()
	assert.True(t, m.IsOnline())
}
