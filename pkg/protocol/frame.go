package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MaxFrameSize is the largest encoded frame either side accepts.
const MaxFrameSize = 1 << 20

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameEvent   FrameType = 0x01 // Client → Server events
	FramePatches FrameType = 0x02 // Server → Client patches
	FrameControl FrameType = 0x03 // Control messages (ping, etc.)
	FrameError   FrameType = 0x05 // Error message
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameEvent:
		return "Event"
	case FramePatches:
		return "Patches"
	case FrameControl:
		return "Control"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
	ErrMissingPayload   = errors.New("protocol: frame payload missing")
)

// Frame is one protocol message. Exactly one payload field is set, the
// one matching Type.
type Frame struct {
	Type FrameType `json:"t"`

	// Seq numbers patch frames, starting at 1 per session.
	Seq uint64 `json:"seq,omitempty"`

	Event   *Event        `json:"event,omitempty"`
	Patches []Patch       `json:"patches,omitempty"`
	Control *Control      `json:"control,omitempty"`
	Error   *ErrorMessage `json:"error,omitempty"`
}

// NewEventFrame wraps an event.
func NewEventFrame(ev *Event) *Frame {
	return &Frame{Type: FrameEvent, Event: ev}
}

// NewPatchesFrame wraps a batch of patches.
func NewPatchesFrame(seq uint64, patches []Patch) *Frame {
	return &Frame{Type: FramePatches, Seq: seq, Patches: patches}
}

// NewControlFrame wraps a control message.
func NewControlFrame(ct ControlType) *Frame {
	return &Frame{Type: FrameControl, Control: &Control{Type: ct}}
}

// NewCloseFrame tells the peer the session is ending.
func NewCloseFrame(reason string) *Frame {
	return &Frame{Type: FrameControl, Control: &Control{Type: ControlClose, Reason: reason}}
}

// NewErrorFrame wraps an error message.
func NewErrorFrame(code ErrorCode, message string, fatal bool) *Frame {
	return &Frame{Type: FrameError, Error: &ErrorMessage{Code: code, Message: message, Fatal: fatal}}
}

// Encode encodes the frame to JSON.
func (f *Frame) Encode() ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	if len(data) > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	return data, nil
}

// DecodeFrame decodes and validates a frame.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}

	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("protocol: decode frame: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks that the payload matches the frame type.
func (f *Frame) Validate() error {
	switch f.Type {
	case FrameEvent:
		if f.Event == nil {
			return ErrMissingPayload
		}
		return f.Event.Validate()
	case FramePatches:
		for i := range f.Patches {
			if err := f.Patches[i].Validate(); err != nil {
				return err
			}
		}
		return nil
	case FrameControl:
		if f.Control == nil {
			return ErrMissingPayload
		}
		return nil
	case FrameError:
		if f.Error == nil {
			return ErrMissingPayload
		}
		return nil
	default:
		return ErrInvalidFrameType
	}
}
