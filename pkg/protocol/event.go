package protocol

import "errors"

// Event limits.
const (
	MaxHIDLength       = 32
	MaxEventTypeLength = 32
	MaxEventValueSize  = 64 * 1024
)

// Event errors.
var (
	ErrInvalidHID       = errors.New("protocol: invalid hid")
	ErrInvalidEventType = errors.New("protocol: invalid event type")
	ErrValueTooLarge    = errors.New("protocol: event value too large")
)

// Event is a DOM event the client observed on an element.
type Event struct {
	// HID is the hydration ID of the event target.
	HID string `json:"hid"`

	// Type is the DOM event type, e.g. "click" or "input".
	Type string `json:"type"`

	// Value is the target's value property at the time of the event, for
	// form controls. Nil for elements without one.
	Value *string `json:"value,omitempty"`
}

// Validate rejects events that could not have come from the client.
func (e *Event) Validate() error {
	if !validHID(e.HID) {
		return ErrInvalidHID
	}
	if e.Type == "" || len(e.Type) > MaxEventTypeLength {
		return ErrInvalidEventType
	}
	for i := 0; i < len(e.Type); i++ {
		c := e.Type[i]
		if (c < 'a' || c > 'z') && c != '-' {
			return ErrInvalidEventType
		}
	}
	if e.Value != nil && len(*e.Value) > MaxEventValueSize {
		return ErrValueTooLarge
	}
	return nil
}

// validHID accepts "h" followed by decimal digits.
func validHID(hid string) bool {
	if len(hid) < 2 || len(hid) > MaxHIDLength || hid[0] != 'h' {
		return false
	}
	for i := 1; i < len(hid); i++ {
		if hid[i] < '0' || hid[i] > '9' {
			return false
		}
	}
	return true
}
