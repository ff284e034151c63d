package jobs

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/phuong1932/logistics-deploy/internal/application/ports"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
	"github.com/rs/zerolog/log"
)

var _ ports.JobQueue = (*Pool)(nil)

// Options parámetros del pool.
type Options struct {
	Workers     int
	MaxAttempts int
	Backoff     time.Duration // base; el intento n espera Backoff * 2^(n-1)
	MaxBackoff  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 1
	}
	if o.Backoff <= 0 {
		o.Backoff = 500 * time.Millisecond
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = 30 * time.Second
	}
	return o
}

// Pool workers que consumen el Backend y despachan por Job.Type.
type Pool struct {
	backend  Backend
	status   *StatusStore
	opts     Options
	log      *logger.Logger
	handlers map[string]ports.JobHandler

	mu      sync.Mutex
	cancel  context.CancelFunc
	ctx     context.Context
	workers sync.WaitGroup
	delayed sync.WaitGroup
}

// NewPool construye el pool. Los handlers se registran con Handle antes de Start.
func NewPool(backend Backend, opts Options, log *logger.Logger) *Pool {
	return &Pool{
		backend:  backend,
		status:   NewStatusStore(),
		opts:     opts.withDefaults(),
		log:      log.Component("jobs"),
		handlers: make(map[string]ports.JobHandler),
	}
}

// Handle registra el handler de un tipo de trabajo.
func (p *Pool) Handle(jobType string, h ports.JobHandler) {
	p.handlers[jobType] = h
}

// Start lanza los workers. Terminan cuando ctx se cancela o al llamar Stop.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.opts.Workers; i++ {
		p.workers.Add(1)
		go p.run(i)
	}
	p.log.Info().Int("workers", p.opts.Workers).Str("queue", p.backend.Name()).Msg("pool de trabajos iniciado")
}

// Stop detiene el consumo y espera a que terminen los trabajos en curso.
// Los reintentos aún en backoff se descartan.
func (p *Pool) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	p.workers.Wait()
	p.delayed.Wait()
	p.log.Info().Msg("pool de trabajos detenido")
}

// Enqueue encola el trabajo salvo que ya haya uno esperando con la misma Key.
func (p *Pool) Enqueue(ctx context.Context, job ports.Job) error {
	job.Attempt = 0
	if !p.status.tryPending(job) {
		p.log.Debug().Str("key", job.Key).Str("type", job.Type).Msg("trabajo ya pendiente, se colapsa")
		return nil
	}
	if err := p.backend.Push(ctx, job); err != nil {
		p.status.forget(job, err)
		return fmt.Errorf("jobs: encolar %s: %w", job.Type, err)
	}
	return nil
}

// Status último estado de la clave.
func (p *Pool) Status(key string) (ports.JobStatus, bool) {
	return p.status.Get(key)
}

func (p *Pool) run(id int) {
	defer p.workers.Done()
	for {
		job, err := p.backend.Pop(p.ctx)
		if err != nil {
			if p.ctx.Err() != nil {
				return
			}
			if !errors.Is(err, errEmpty) {
				p.log.Error().Err(err).Int("worker", id).Msg("error leyendo la cola")
				select {
				case <-time.After(time.Second):
				case <-p.ctx.Done():
					return
				}
			}
			continue
		}
		p.process(job)
	}
}

// process ejecuta un intento. Los handlers reciben un contexto que no se cancela con
// Stop para que el trabajo en curso termine.
func (p *Pool) process(job ports.Job) {
	attempt := job.Attempt + 1
	p.status.running(job, attempt)

	h, ok := p.handlers[job.Type]
	if !ok {
		p.dead(job, attempt, fmt.Errorf("jobs: sin handler para %q", job.Type))
		return
	}
	err := withRecover(h)(context.WithoutCancel(p.ctx), job)
	if err == nil {
		p.status.finish(job, ports.JobDone, attempt, nil)
		p.log.Debug().Str("key", job.Key).Int("attempt", attempt).Msg("trabajo completado")
		return
	}
	if attempt >= p.opts.MaxAttempts {
		p.dead(job, attempt, err)
		return
	}
	if !p.status.retrying(job, attempt, err) {
		return
	}
	delay := p.backoff(attempt)
	p.log.Warn().Err(err).Str("key", job.Key).Int("attempt", attempt).Dur("retry_in", delay).Msg("trabajo fallido, se reintenta")
	job.Attempt = attempt
	p.delayed.Add(1)
	go func() {
		defer p.delayed.Done()
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-p.ctx.Done():
			return
		}
		if err := p.backend.Push(p.ctx, job); err != nil {
			p.status.forget(job, err)
			p.log.Error().Err(err).Str("key", job.Key).Msg("no se pudo reencolar el trabajo")
		}
	}()
}

// backoff Backoff * 2^(attempt-1), acotado por MaxBackoff.
func (p *Pool) backoff(attempt int) time.Duration {
	d := p.opts.Backoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.opts.MaxBackoff {
			return p.opts.MaxBackoff
		}
	}
	return d
}

func (p *Pool) dead(job ports.Job, attempts int, err error) {
	p.status.finish(job, ports.JobFailed, attempts, err)
	dl := DeadLetter{
		Queue:    p.backend.Name(),
		Job:      job,
		Reason:   err.Error(),
		FailedAt: time.Now().UTC().Format(time.RFC3339),
		Attempts: attempts,
	}
	p.log.Error().
		Err(err).
		Str("queue", dl.Queue).
		Str("type", job.Type).
		Str("key", job.Key).
		Int("attempts", attempts).
		Msg("dlq: trabajo movido a dead letter")
	if derr := p.backend.DeadLetter(context.WithoutCancel(p.ctx), dl); derr != nil {
		p.log.Error().Err(derr).Str("key", job.Key).Msg("dlq: no se pudo guardar el trabajo")
	}
}

// withRecover convierte un panic del handler en error.
func withRecover(h ports.JobHandler) ports.JobHandler {
	return func(ctx context.Context, job ports.Job) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("type", job.Type).Str("key", job.Key).Bytes("stack", debug.Stack()).Msg("panic en handler")
				err = fmt.Errorf("jobs: panic en %s: %v", job.Type, r)
			}
		}()
		return h(ctx, job)
	}
}
