// Package form tracks the submission state of rendered pre-order forms and
// guarantees at most one pipeline run in flight per form.
package form

import (
	"context"
	"errors"

	"github.com/kmohsen11/Argos/internal/entity"
)

var (
	ErrFormNotFound       = errors.New("form not found")
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrResetRequired      = errors.New("form must be reset before submitting again")
	// ErrStaleSubmission is returned by Complete when the caller no longer
	// owns the submitting phase.
	ErrStaleSubmission = errors.New("submission lease lost")
)

// Store persists form states. Begin is the only way into the submitting
// phase and must be atomic with respect to concurrent callers.
type Store interface {
	Create(ctx context.Context) (string, entity.SubmissionState, error)
	Load(ctx context.Context, id string) (entity.SubmissionState, error)

	// Begin moves the form to submitting and returns a lease token. On
	// ErrSubmissionInFlight or ErrResetRequired the current state is returned.
	Begin(ctx context.Context, id string) (string, entity.SubmissionState, error)

	// Complete stores the final state of the run that holds token.
	Complete(ctx context.Context, id, token string, state entity.SubmissionState) error

	// Reset returns the form to idle. A form that is submitting is left
	// untouched and ErrSubmissionInFlight is returned with its state.
	Reset(ctx context.Context, id string) (entity.SubmissionState, error)
}
