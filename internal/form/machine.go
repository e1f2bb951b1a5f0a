package form

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kmohsen11/Argos/internal/entity"
	"github.com/kmohsen11/Argos/internal/service"
)

// Submitter runs one pipeline invocation.
type Submitter interface {
	Submit(ctx context.Context, raw entity.RawPreorder) (*service.Result, error)
}

// Machine drives forms through idle, submitting, succeeded and failed.
type Machine struct {
	store     Store
	submitter Submitter
	now       func() time.Time

	wg sync.WaitGroup
}

func NewMachine(store Store, submitter Submitter) *Machine {
	return &Machine{
		store:     store,
		submitter: submitter,
		now:       time.Now,
	}
}

func (m *Machine) Create(ctx context.Context) (string, entity.SubmissionState, error) {
	return m.store.Create(ctx)
}

func (m *Machine) State(ctx context.Context, id string) (entity.SubmissionState, error) {
	return m.store.Load(ctx, id)
}

// Submit runs the pipeline and returns the final state. A form that is
// already submitting is left alone and ErrSubmissionInFlight is returned.
func (m *Machine) Submit(ctx context.Context, id string, raw entity.RawPreorder) (entity.SubmissionState, error) {
	token, state, err := m.store.Begin(ctx, id)
	if err != nil {
		return state, err
	}
	return m.run(context.WithoutCancel(ctx), id, token, raw), nil
}

// SubmitAsync starts the pipeline in the background and returns the
// submitting state. The run outlives ctx; Wait blocks until it is done.
func (m *Machine) SubmitAsync(ctx context.Context, id string, raw entity.RawPreorder) (entity.SubmissionState, error) {
	token, state, err := m.store.Begin(ctx, id)
	if err != nil {
		return state, err
	}

	runCtx := context.WithoutCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.run(runCtx, id, token, raw)
	}()
	return state, nil
}

// Reset returns a form to idle. Reset while submitting is rejected.
func (m *Machine) Reset(ctx context.Context, id string) (entity.SubmissionState, error) {
	return m.store.Reset(ctx, id)
}

// Wait blocks until every background submission has finished.
func (m *Machine) Wait() {
	m.wg.Wait()
}

func (m *Machine) run(ctx context.Context, id, token string, raw entity.RawPreorder) entity.SubmissionState {
	res, err := m.submitter.Submit(ctx, raw)
	state := m.outcome(res, err)

	if err := m.store.Complete(ctx, id, token, state); err != nil {
		if errors.Is(err, ErrStaleSubmission) {
			slog.Warn("Dropping result of stale submission", "form_id", id, "phase", state.Phase)
		} else {
			slog.Error("Failed to store form state", "form_id", id, "phase", state.Phase, "err", err)
		}
	}
	return state
}

func (m *Machine) outcome(res *service.Result, err error) entity.SubmissionState {
	state := entity.SubmissionState{UpdatedAt: m.now().UTC()}

	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		state.Phase = entity.PhaseFailed
		state.Field = verr.Field
		state.ErrorMessage = verr.Message
	case err != nil:
		state.Phase = entity.PhaseFailed
		state.ErrorMessage = entity.GenericSubmitMessage
	default:
		state.Phase = entity.PhaseSucceeded
		state.OrderID = res.Record.ID
		state.Warning = res.Warning()
	}
	return state
}
