package entity

import "time"

// Event represents a domain event.
type Event interface {
	EventType() string
}

// PreorderPlaced is emitted after a pre-order row has been durably inserted.
type PreorderPlaced struct {
	EventID     string    `json:"eventId"`
	OrderID     string    `json:"orderId"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	ProductType string    `json:"productType"`
	Size        string    `json:"size"`
	DeviceType  string    `json:"deviceType"`
	PlacedAt    time.Time `json:"placedAt"`
}

func (e PreorderPlaced) EventType() string { return "PreorderPlaced" }

// Notification returns the mail payload carried by the event.
func (e PreorderPlaced) Notification() PreorderNotification {
	return PreorderNotification{
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Email:       e.Email,
		ProductType: e.ProductType,
		Size:        e.Size,
		DeviceType:  e.DeviceType,
	}
}

// NewPreorderPlaced builds the event for a stored record.
func NewPreorderPlaced(eventID string, rec *PreorderRecord) PreorderPlaced {
	return PreorderPlaced{
		EventID:     eventID,
		OrderID:     rec.ID,
		FirstName:   rec.FirstName,
		LastName:    rec.LastName,
		Email:       rec.Email,
		ProductType: string(rec.ProductType),
		Size:        string(rec.Size),
		DeviceType:  string(rec.DeviceType),
		PlacedAt:    rec.CreatedAt,
	}
}
