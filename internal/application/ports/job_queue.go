package ports

import (
	"context"
	"time"
)

// Tipos de trabajo conocidos.
const (
	JobCargoFile = "cargo.file"
)

// Estados de un trabajo en JobStatus.State.
const (
	JobPending  = "pending"
	JobRunning  = "running"
	JobRetrying = "retrying"
	JobDone     = "done"
	JobFailed   = "failed"
)

// Job trabajo en segundo plano. Key identifica el recurso afectado: encolar dos veces
// la misma Key mientras está pendiente produce una sola ejecución.
type Job struct {
	Type    string `json:"type"`
	Key     string `json:"key"`
	Payload []byte `json:"payload,omitempty"`
	Attempt int    `json:"attempt"`
}

// JobStatus último estado conocido de los trabajos de una Key.
type JobStatus struct {
	Key       string
	Type      string
	State     string
	Attempts  int
	LastError string
	UpdatedAt time.Time
}

// JobHandler procesa un trabajo; un error provoca reintento con backoff.
type JobHandler func(ctx context.Context, job Job) error

// JobQueue puerto de salida hacia la cola supervisada de trabajos.
type JobQueue interface {
	Enqueue(ctx context.Context, job Job) error
	Status(key string) (JobStatus, bool)
}
