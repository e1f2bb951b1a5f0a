package form

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kmohsen11/Argos/internal/entity"
)

const DefaultTTL = 30 * time.Minute

type memoryForm struct {
	state entity.SubmissionState
	token string
}

// MemoryStore keeps form states in process. Forms that are not submitting
// expire ttl after their last update.
type MemoryStore struct {
	mu    sync.Mutex
	forms map[string]*memoryForm
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		forms: make(map[string]*memoryForm),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context) (string, entity.SubmissionState, error) {
	id := uuid.NewString()
	state := entity.IdleState(s.now().UTC())

	s.mu.Lock()
	s.forms[id] = &memoryForm{state: state}
	s.mu.Unlock()
	return id, state, nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (entity.SubmissionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.lookup(id)
	if !ok {
		return entity.SubmissionState{}, ErrFormNotFound
	}
	return f.state, nil
}

func (s *MemoryStore) Begin(ctx context.Context, id string) (string, entity.SubmissionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.lookup(id)
	if !ok {
		return "", entity.SubmissionState{}, ErrFormNotFound
	}
	switch f.state.Phase {
	case entity.PhaseSubmitting:
		return "", f.state, ErrSubmissionInFlight
	case entity.PhaseSucceeded:
		return "", f.state, ErrResetRequired
	}

	f.token = uuid.NewString()
	f.state = entity.SubmissionState{Phase: entity.PhaseSubmitting, UpdatedAt: s.now().UTC()}
	return f.token, f.state, nil
}

func (s *MemoryStore) Complete(ctx context.Context, id, token string, state entity.SubmissionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.forms[id]
	if !ok || f.token != token || f.state.Phase != entity.PhaseSubmitting {
		return ErrStaleSubmission
	}
	f.token = ""
	f.state = state
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context, id string) (entity.SubmissionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.lookup(id)
	if !ok {
		return entity.SubmissionState{}, ErrFormNotFound
	}
	if f.state.Phase == entity.PhaseSubmitting {
		return f.state, ErrSubmissionInFlight
	}
	f.state = entity.IdleState(s.now().UTC())
	return f.state, nil
}

// Run sweeps expired forms every interval until ctx is cancelled.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("Swept expired forms", "count", n)
			}
		}
	}
}

// Sweep drops expired forms and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for id, f := range s.forms {
		if s.expired(f) {
			delete(s.forms, id)
			n++
		}
	}
	return n
}

// lookup must be called with mu held.
func (s *MemoryStore) lookup(id string) (*memoryForm, bool) {
	f, ok := s.forms[id]
	if !ok || s.expired(f) {
		return nil, false
	}
	return f, true
}

func (s *MemoryStore) expired(f *memoryForm) bool {
	return f.state.Phase != entity.PhaseSubmitting && s.now().Sub(f.state.UpdatedAt) > s.ttl
}
