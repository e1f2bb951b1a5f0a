package entity

import "fmt"

// Field names a user-editable pre-order form field.
type Field string

const (
	FieldFirstName   Field = "firstName"
	FieldLastName    Field = "lastName"
	FieldEmail       Field = "email"
	FieldProductType Field = "productType"
	FieldSize        Field = "size"
	FieldDeviceType  Field = "deviceType"
)

// GenericSubmitMessage is shown whenever the durable write fails.
const GenericSubmitMessage = "Failed to submit pre-order. Please try again."

// NotificationWarning is the soft warning shown when the order is placed
// but the notification could not be sent.
const NotificationWarning = "Your pre-order was placed, but we could not send the confirmation email."

// ValidationError rejects a submission before any network call.
type ValidationError struct {
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// SubmissionError wraps a failed durable write.
type SubmissionError struct {
	Cause error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("failed to record pre-order: %v", e.Cause)
}

func (e *SubmissionError) Unwrap() error { return e.Cause }

// NotificationError wraps a failed best-effort notification. The order it
// refers to is already stored.
type NotificationError struct {
	OrderID string
	Cause   error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("failed to notify for pre-order %s: %v", e.OrderID, e.Cause)
}

func (e *NotificationError) Unwrap() error { return e.Cause }
