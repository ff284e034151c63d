package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phuong1932/logistics-deploy/internal/application/ports"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testType = "test.job"

func newTestPool(t *testing.T, maxAttempts int) (*Pool, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend(16)
	p := NewPool(backend, Options{Workers: 2, MaxAttempts: maxAttempts, Backoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}, logger.Nop())
	t.Cleanup(p.Stop)
	return p, backend
}

func waitState(t *testing.T, p *Pool, key, state string) ports.JobStatus {
	t.Helper()
	var st ports.JobStatus
	require.Eventually(t, func() bool {
		var ok bool
		st, ok = p.Status(key)
		return ok && st.State == state
	}, 2*time.Second, 5*time.Millisecond)
	return st
}

func TestPool_ReintentaHastaCompletar(t *testing.T) {
	p, _ := newTestPool(t, 5)
	var calls atomic.Int32
	p.Handle(testType, func(_ context.Context, _ ports.Job) error {
		if calls.Add(1) < 3 {
			return errors.New("falla temporal")
		}
		return nil
	})
	p.Start(context.Background())

	require.NoError(t, p.Enqueue(context.Background(), ports.Job{Type: testType, Key: "k1"}))
	st := waitState(t, p, "k1", ports.JobDone)
	assert.Equal(t, 3, st.Attempts)
	assert.Empty(t, st.LastError)
	assert.EqualValues(t, 3, calls.Load())
}

func TestPool_DeadLetterTrasMaxIntentos(t *testing.T) {
	p, backend := newTestPool(t, 3)
	p.Handle(testType, func(_ context.Context, _ ports.Job) error { return errors.New("disco lleno") })
	p.Start(context.Background())

	require.NoError(t, p.Enqueue(context.Background(), ports.Job{Type: testType, Key: "k2"}))
	st := waitState(t, p, "k2", ports.JobFailed)
	assert.Equal(t, 3, st.Attempts)
	assert.Equal(t, "disco lleno", st.LastError)

	dead := backend.DeadLetters()
	require.Len(t, dead, 1)
	assert.Equal(t, "k2", dead[0].Job.Key)
	assert.Equal(t, 3, dead[0].Attempts)
	assert.Equal(t, DefaultQueue, dead[0].Queue)
}

func TestPool_RecuperaPanic(t *testing.T) {
	p, backend := newTestPool(t, 1)
	p.Handle(testType, func(_ context.Context, _ ports.Job) error { panic("boom") })
	p.Start(context.Background())

	require.NoError(t, p.Enqueue(context.Background(), ports.Job{Type: testType, Key: "k3"}))
	st := waitState(t, p, "k3", ports.JobFailed)
	assert.Contains(t, st.LastError, "boom")
	assert.Len(t, backend.DeadLetters(), 1)
}

func TestPool_SinHandlerVaADeadLetter(t *testing.T) {
	p, backend := newTestPool(t, 3)
	p.Start(context.Background())

	require.NoError(t, p.Enqueue(context.Background(), ports.Job{Type: "desconocido", Key: "k4"}))
	waitState(t, p, "k4", ports.JobFailed)
	assert.Len(t, backend.DeadLetters(), 1)
}

func TestPool_ColapsaDuplicadosPendientes(t *testing.T) {
	p, backend := newTestPool(t, 1)
	var calls atomic.Int32
	p.Handle(testType, func(_ context.Context, _ ports.Job) error {
		calls.Add(1)
		return nil
	})

	// Sin workers todavía: los tres encolados quedan pendientes y se colapsan.
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Enqueue(context.Background(), ports.Job{Type: testType, Key: "k5"}))
	}
	assert.Len(t, backend.ch, 1)
	st, ok := p.Status("k5")
	require.True(t, ok)
	assert.Equal(t, ports.JobPending, st.State)

	p.Start(context.Background())
	waitState(t, p, "k5", ports.JobDone)
	assert.EqualValues(t, 1, calls.Load())
}

func TestPool_StopEsperaTrabajoEnCurso(t *testing.T) {
	p, _ := newTestPool(t, 1)
	started := make(chan struct{})
	var finished atomic.Bool
	p.Handle(testType, func(ctx context.Context, _ ports.Job) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(ctx.Err() == nil)
		return nil
	})
	p.Start(context.Background())
	require.NoError(t, p.Enqueue(context.Background(), ports.Job{Type: testType, Key: "k6"}))

	<-started
	p.Stop()
	assert.True(t, finished.Load(), "el trabajo en curso termina con contexto vivo")
}

func TestPool_EncolarDuranteEjecucionVuelveAEjecutar(t *testing.T) {
	p, _ := newTestPool(t, 1)
	release := make(chan struct{})
	var once sync.Once
	var calls atomic.Int32
	p.Handle(testType, func(_ context.Context, _ ports.Job) error {
		if calls.Add(1) == 1 {
			<-release
		}
		return nil
	})
	p.Start(context.Background())

	require.NoError(t, p.Enqueue(context.Background(), ports.Job{Type: testType, Key: "k7"}))
	waitState(t, p, "k7", ports.JobRunning)
	require.NoError(t, p.Enqueue(context.Background(), ports.Job{Type: testType, Key: "k7"}))
	once.Do(func() { close(release) })

	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
	waitState(t, p, "k7", ports.JobDone)
}

func TestMemoryBackend_Llena(t *testing.T) {
	b := NewMemoryBackend(1)
	require.NoError(t, b.Push(context.Background(), ports.Job{Key: "a"}))
	assert.ErrorIs(t, b.Push(context.Background(), ports.Job{Key: "b"}), ErrQueueFull)
}

func TestBackoffExponencialAcotado(t *testing.T) {
	p := NewPool(NewMemoryBackend(1), Options{Backoff: 100 * time.Millisecond, MaxBackoff: time.Second}, logger.Nop())
	assert.Equal(t, 100*time.Millisecond, p.backoff(1))
	assert.Equal(t, 200*time.Millisecond, p.backoff(2))
	assert.Equal(t, 800*time.Millisecond, p.backoff(4))
	assert.Equal(t, time.Second, p.backoff(5))
}
