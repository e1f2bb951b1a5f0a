package entity

import (
	"regexp"
	"strings"
)

// emailPattern is \S+@\S+\.\S+ with Unicode spaces counted as whitespace.
var emailPattern = regexp.MustCompile(`^[^\s\p{Z}\x{FEFF}]+@[^\s\p{Z}\x{FEFF}]+\.[^\s\p{Z}\x{FEFF}]+$`)

// ValidatePreorder trims and checks raw form input. Rules run in order and the
// first failing field is returned; no partially valid request is ever produced.
func ValidatePreorder(raw RawPreorder) (PreorderRequest, error) {
	req := PreorderRequest{
		FirstName:   strings.TrimSpace(raw.FirstName),
		LastName:    strings.TrimSpace(raw.LastName),
		Email:       strings.TrimSpace(raw.Email),
		ProductType: ProductType(strings.TrimSpace(raw.ProductType)),
		Size:        Size(strings.TrimSpace(raw.Size)),
		DeviceType:  DeviceType(strings.TrimSpace(raw.DeviceType)),
	}

	switch {
	case req.FirstName == "":
		return PreorderRequest{}, &ValidationError{Field: FieldFirstName, Message: "Please enter your first name."}
	case req.LastName == "":
		return PreorderRequest{}, &ValidationError{Field: FieldLastName, Message: "Please enter your last name."}
	case !emailPattern.MatchString(req.Email):
		return PreorderRequest{}, &ValidationError{Field: FieldEmail, Message: "Please enter a valid email address."}
	case !req.ProductType.Valid():
		return PreorderRequest{}, &ValidationError{Field: FieldProductType, Message: "Please choose a product."}
	case !req.Size.Valid():
		return PreorderRequest{}, &ValidationError{Field: FieldSize, Message: "Please choose a size."}
	case !req.DeviceType.Valid():
		return PreorderRequest{}, &ValidationError{Field: FieldDeviceType, Message: "Please choose a compatible device."}
	}
	return req, nil
}
