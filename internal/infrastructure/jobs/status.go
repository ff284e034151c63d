package jobs

import (
	"sync"
	"time"

	"github.com/phuong1932/logistics-deploy/internal/application/ports"
)

// StatusStore último estado conocido por clave de trabajo.
type StatusStore struct {
	mu sync.Mutex
	m  map[string]ports.JobStatus
	// queued claves con una ejecución esperando en la cola o en backoff.
	queued map[string]bool
	now    func() time.Time
}

// NewStatusStore crea el almacén vacío.
func NewStatusStore() *StatusStore {
	return &StatusStore{m: make(map[string]ports.JobStatus), queued: make(map[string]bool), now: time.Now}
}

// Get estado de la clave; false si nunca se encoló.
func (s *StatusStore) Get(key string) (ports.JobStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[key]
	return st, ok
}

// tryPending marca la clave como pendiente. Devuelve false si ya hay una ejecución
// esperando: la nueva petición se colapsa en esa.
func (s *StatusStore) tryPending(job ports.Job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queued[job.Key] {
		return false
	}
	s.queued[job.Key] = true
	prev := s.m[job.Key]
	if prev.State == ports.JobRunning {
		// La ejecución en curso sigue visible; el fin de esa dejará "pending".
		return true
	}
	s.m[job.Key] = ports.JobStatus{Key: job.Key, Type: job.Type, State: ports.JobPending, UpdatedAt: s.now()}
	return true
}

// running marca el inicio de un intento y libera la clave para nuevos encolados.
func (s *StatusStore) running(job ports.Job, attempt int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.queued, job.Key)
	s.m[job.Key] = ports.JobStatus{Key: job.Key, Type: job.Type, State: ports.JobRunning, Attempts: attempt, UpdatedAt: s.now()}
}

// retrying deja la clave en backoff hasta que el trabajo se reencole.
func (s *StatusStore) retrying(job ports.Job, attempt int, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queued[job.Key] {
		// Ya hay otra ejecución en cola que leerá la fila actual.
		s.record(job, ports.JobPending, attempt, err)
		return false
	}
	s.queued[job.Key] = true
	s.record(job, ports.JobRetrying, attempt, err)
	return true
}

// finish registra done o failed salvo que otra ejecución ya esté en cola.
func (s *StatusStore) finish(job ports.Job, state string, attempt int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queued[job.Key] {
		state = ports.JobPending
	}
	s.record(job, state, attempt, err)
}

// forget libera la clave cuando el trabajo no pudo encolarse.
func (s *StatusStore) forget(job ports.Job, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.queued, job.Key)
	s.record(job, ports.JobFailed, job.Attempt, err)
}

func (s *StatusStore) record(job ports.Job, state string, attempts int, err error) {
	st := ports.JobStatus{Key: job.Key, Type: job.Type, State: state, Attempts: attempts, UpdatedAt: s.now()}
	if err != nil {
		st.LastError = err.Error()
	}
	s.m[job.Key] = st
}
