package entity

import "time"

// Phase is the position of a form instance in the submission lifecycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

func (p Phase) String() string {
	return string(p)
}

// CanSubmit reports whether a new pipeline run may start from this phase.
// A succeeded form has to be reset first.
func (p Phase) CanSubmit() bool {
	return p == PhaseIdle || p == PhaseFailed
}

// SubmissionState is the user-visible state of one rendered form.
type SubmissionState struct {
	Phase        Phase     `json:"phase"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	Field        Field     `json:"field,omitempty"`
	Warning      string    `json:"warning,omitempty"`
	OrderID      string    `json:"orderId,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IdleState returns a fresh form state.
func IdleState(now time.Time) SubmissionState {
	return SubmissionState{Phase: PhaseIdle, UpdatedAt: now}
}
