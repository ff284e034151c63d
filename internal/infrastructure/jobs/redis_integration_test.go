//go:build integration

package jobs

// Ejecutar con: go test -tags integration ./internal/infrastructure/jobs/... -v

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phuong1932/logistics-deploy/internal/application/ports"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisBackend_ReintentosYDLQ(t *testing.T) {
	ctx := context.Background()

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := NewRedis(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	backend := NewRedisBackend(rdb, "jobs:test")
	backend.wait = 200 * time.Millisecond
	p := NewPool(backend, Options{Workers: 2, MaxAttempts: 2, Backoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}, logger.Nop())
	t.Cleanup(p.Stop)

	var calls atomic.Int32
	p.Handle(testType, func(_ context.Context, job ports.Job) error {
		calls.Add(1)
		if job.Key == "malo" {
			return errors.New("sin espacio")
		}
		return nil
	})
	p.Start(context.Background())

	require.NoError(t, p.Enqueue(ctx, ports.Job{Type: testType, Key: "bueno"}))
	require.NoError(t, p.Enqueue(ctx, ports.Job{Type: testType, Key: "malo"}))

	waitState(t, p, "bueno", ports.JobDone)
	st := waitState(t, p, "malo", ports.JobFailed)
	assert.Equal(t, 2, st.Attempts)

	require.Eventually(t, func() bool {
		n, err := backend.DLQLength(ctx)
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 3, calls.Load())
}
