// Package jobs implementa la cola supervisada de trabajos en segundo plano:
// workers con recuperación de panics, reintentos con backoff exponencial,
// dead letter y estado consultable por clave.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/phuong1932/logistics-deploy/internal/application/ports"
	"github.com/redis/go-redis/v9"
)

// DefaultQueue nombre de la cola (y sufijo de la lista DLQ en Redis).
const DefaultQueue = "jobs:logistics"

// DLQPrefix prefijo de la lista de trabajos muertos por cola.
const DLQPrefix = "dlq:"

var (
	// ErrQueueFull la cola en memoria no admite más trabajos.
	ErrQueueFull = errors.New("jobs: cola llena")
	// errEmpty Pop expiró sin trabajos; el worker vuelve a intentar.
	errEmpty = errors.New("jobs: cola vacía")
)

// DeadLetter trabajo que agotó sus intentos, con metadatos para diagnóstico.
type DeadLetter struct {
	Queue    string    `json:"original_queue"`
	Job      ports.Job `json:"job"`
	Reason   string    `json:"reason"`
	FailedAt string    `json:"failed_at"` // RFC 3339
	Attempts int       `json:"attempts"`
}

// Backend transporte de la cola.
type Backend interface {
	Push(ctx context.Context, job ports.Job) error
	// Pop bloquea hasta obtener un trabajo o hasta que ctx termine.
	Pop(ctx context.Context) (ports.Job, error)
	DeadLetter(ctx context.Context, dl DeadLetter) error
	Name() string
}

// MemoryBackend canal con buffer; los trabajos pendientes se pierden al apagar.
type MemoryBackend struct {
	ch chan ports.Job

	mu   sync.Mutex
	dead []DeadLetter
}

// NewMemoryBackend crea la cola en memoria con capacidad size.
func NewMemoryBackend(size int) *MemoryBackend {
	if size < 1 {
		size = 1
	}
	return &MemoryBackend{ch: make(chan ports.Job, size)}
}

func (b *MemoryBackend) Name() string { return DefaultQueue }

func (b *MemoryBackend) Push(ctx context.Context, job ports.Job) error {
	select {
	case b.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (b *MemoryBackend) Pop(ctx context.Context) (ports.Job, error) {
	select {
	case job := <-b.ch:
		return job, nil
	case <-ctx.Done():
		return ports.Job{}, ctx.Err()
	}
}

func (b *MemoryBackend) DeadLetter(_ context.Context, dl DeadLetter) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dead = append(b.dead, dl)
	return nil
}

// DeadLetters copia de los trabajos muertos registrados.
func (b *MemoryBackend) DeadLetters() []DeadLetter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]DeadLetter(nil), b.dead...)
}

// RedisBackend lista Redis: LPUSH para encolar y BRPOP para consumir.
type RedisBackend struct {
	rdb   *redis.Client
	queue string
	wait  time.Duration
}

// NewRedisBackend usa la lista queue; vacío usa DefaultQueue.
func NewRedisBackend(rdb *redis.Client, queue string) *RedisBackend {
	if queue == "" {
		queue = DefaultQueue
	}
	return &RedisBackend{rdb: rdb, queue: queue, wait: 5 * time.Second}
}

func (b *RedisBackend) Name() string { return b.queue }

func (b *RedisBackend) Push(ctx context.Context, job ports.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return b.rdb.LPush(ctx, b.queue, data).Err()
}

// Pop espera hasta b.wait y devuelve errEmpty si no hubo trabajos.
func (b *RedisBackend) Pop(ctx context.Context) (ports.Job, error) {
	res, err := b.rdb.BRPop(ctx, b.wait, b.queue).Result()
	if errors.Is(err, redis.Nil) {
		return ports.Job{}, errEmpty
	}
	if err != nil {
		return ports.Job{}, err
	}
	if len(res) < 2 {
		return ports.Job{}, errEmpty
	}
	var job ports.Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return ports.Job{}, err
	}
	return job, nil
}

func (b *RedisBackend) DeadLetter(ctx context.Context, dl DeadLetter) error {
	data, err := json.Marshal(dl)
	if err != nil {
		return err
	}
	return b.rdb.LPush(ctx, DLQPrefix+b.queue, data).Err()
}

// DLQLength cantidad de trabajos muertos, para monitoreo.
func (b *RedisBackend) DLQLength(ctx context.Context) (int64, error) {
	return b.rdb.LLen(ctx, DLQPrefix+b.queue).Result()
}

// NewRedis crea el cliente desde una URL redis:// y valida la conexión.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
