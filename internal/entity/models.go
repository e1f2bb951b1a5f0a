package entity

import (
	"time"
)

// ProductType is the garment line a pre-order is placed for.
type ProductType string

const (
	ProductShorts ProductType = "shorts"
	ProductShirts ProductType = "shirts"
)

// ProductTypes lists every accepted product type in display order.
var ProductTypes = []ProductType{ProductShorts, ProductShirts}

func (p ProductType) Valid() bool {
	switch p {
	case ProductShorts, ProductShirts:
		return true
	}
	return false
}

// Label returns the marketing name of the product line.
func (p ProductType) Label() string {
	switch p {
	case ProductShorts:
		return "AI Performance Shorts"
	case ProductShirts:
		return "AI Performance Shirts"
	}
	return string(p)
}

// Size is a garment size.
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// Sizes lists every accepted size, smallest first.
var Sizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL}

func (s Size) Valid() bool {
	switch s {
	case SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL:
		return true
	}
	return false
}

// DeviceType is the wearable the garment pairs with.
type DeviceType string

const (
	DeviceAppleWatch   DeviceType = "apple_watch"
	DeviceSamsungWatch DeviceType = "samsung_watch"
	DeviceWhoop        DeviceType = "whoop"
	DeviceFitbit       DeviceType = "fitbit"
	DeviceGarmin       DeviceType = "garmin"
	DeviceNone         DeviceType = "none"
)

// DeviceTypes lists every accepted device type in display order.
var DeviceTypes = []DeviceType{
	DeviceAppleWatch,
	DeviceSamsungWatch,
	DeviceWhoop,
	DeviceFitbit,
	DeviceGarmin,
	DeviceNone,
}

func (d DeviceType) Valid() bool {
	switch d {
	case DeviceAppleWatch, DeviceSamsungWatch, DeviceWhoop, DeviceFitbit, DeviceGarmin, DeviceNone:
		return true
	}
	return false
}

// Label returns the human readable device name.
func (d DeviceType) Label() string {
	switch d {
	case DeviceAppleWatch:
		return "Apple Watch"
	case DeviceSamsungWatch:
		return "Samsung Watch"
	case DeviceWhoop:
		return "Whoop"
	case DeviceFitbit:
		return "Fitbit"
	case DeviceGarmin:
		return "Garmin"
	case DeviceNone:
		return "None"
	}
	return string(d)
}

// PreorderStatus is the lifecycle status of a stored pre-order.
// Records are created pending and never transition.
type PreorderStatus string

const StatusPending PreorderStatus = "pending"

// RawPreorder is the untrusted form input, exactly as the user typed it.
type RawPreorder struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	ProductType string `json:"productType"`
	Size        string `json:"size"`
	DeviceType  string `json:"deviceType"`
}

// PreorderRequest is a validated pre-order. Only ValidatePreorder builds one.
type PreorderRequest struct {
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	ProductType ProductType `json:"productType"`
	Size        Size        `json:"size"`
	DeviceType  DeviceType  `json:"deviceType"`
}

// PreorderRecord is a pre-order as stored in the preorders table.
type PreorderRecord struct {
	ID          string         `json:"id"`
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	Email       string         `json:"email"`
	ProductType ProductType    `json:"productType"`
	Size        Size           `json:"size"`
	DeviceType  DeviceType     `json:"deviceType"`
	Status      PreorderStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Request returns the request fields of the record.
func (r *PreorderRecord) Request() PreorderRequest {
	return PreorderRequest{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		ProductType: r.ProductType,
		Size:        r.Size,
		DeviceType:  r.DeviceType,
	}
}

// PreorderNotification is the relay wire body. DeviceType is optional on the wire.
type PreorderNotification struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	ProductType string `json:"productType"`
	Size        string `json:"size"`
	DeviceType  string `json:"deviceType,omitempty"`
}

// Notification converts a validated request into the relay wire body.
func (r PreorderRequest) Notification() PreorderNotification {
	return PreorderNotification{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		ProductType: string(r.ProductType),
		Size:        string(r.Size),
		DeviceType:  string(r.DeviceType),
	}
}

// MissingRequired reports whether any relay-required field is blank.
func (n PreorderNotification) MissingRequired() bool {
	return n.FirstName == "" || n.LastName == "" || n.Email == "" || n.ProductType == "" || n.Size == ""
}
