package protocol

import (
	"errors"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestFrameEncodeDecode(t *testing.T) {
	tests := []struct {
		name  string
		frame *Frame
	}{
		{"click", NewEventFrame(&Event{HID: "h1", Type: "click"})},
		{"input", NewEventFrame(&Event{HID: "h42", Type: "input", Value: strPtr("hello")})},
		{"patches", NewPatchesFrame(3, []Patch{
			NewSetTextPatch("h1", "x"),
			NewSetChildTextPatch("h2", 0, "y"),
			NewSetAttrPatch("h3", "href", "/a"),
			NewRemoveAttrPatch("h3", "title"),
			NewSetValuePatch("h4", "v"),
			NewSetHTMLPatch("h5", "<b>z</b>"),
		})},
		{"ping", NewControlFrame(ControlPing)},
		{"close", NewCloseFrame("bye")},
		{"error", NewErrorFrame(ErrInvalidEvent, "bad", true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.frame.Encode()
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := DecodeFrame(data)
			if err != nil {
				t.Fatalf("DecodeFrame: %v", err)
			}
			if got.Type != tt.frame.Type || got.Seq != tt.frame.Seq {
				t.Errorf("header = %v/%d, want %v/%d", got.Type, got.Seq, tt.frame.Type, tt.frame.Seq)
			}
			if len(got.Patches) != len(tt.frame.Patches) {
				t.Errorf("patches = %d, want %d", len(got.Patches), len(tt.frame.Patches))
			}
		})
	}
}

func TestChildIndexZeroSurvivesEncoding(t *testing.T) {
	data, err := NewPatchesFrame(1, []Patch{NewSetChildTextPatch("h2", 0, "y")}).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), `"child":0`) {
		t.Errorf("child index 0 was dropped: %s", data)
	}

	f, _ := DecodeFrame(data)
	if f.Patches[0].Child == nil || *f.Patches[0].Child != 0 {
		t.Errorf("Child = %v, want 0", f.Patches[0].Child)
	}
}

func TestDecodeFrameRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"unknown type", `{"t":9}`, ErrInvalidFrameType},
		{"event without payload", `{"t":1}`, ErrMissingPayload},
		{"bad hid", `{"t":1,"event":{"hid":"x1","type":"click"}}`, ErrInvalidHID},
		{"bad event type", `{"t":1,"event":{"hid":"h1","type":"Click!"}}`, ErrInvalidEventType},
		{"bad patch op", `{"t":2,"patches":[{"op":99,"hid":"h1"}]}`, ErrInvalidPatchOp},
		{"attr without key", `{"t":2,"patches":[{"op":2,"hid":"h1"}]}`, ErrMissingPayload},
		{"control without payload", `{"t":3}`, ErrMissingPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeFrameMalformedJSON(t *testing.T) {
	if _, err := DecodeFrame([]byte(`{"t":`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestDecodeFrameTooLarge(t *testing.T) {
	data := make([]byte, MaxFrameSize+1)
	if _, err := DecodeFrame(data); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("err = %v, want ErrFrameTooLarge", err)
	}
}

func TestEventValueLimit(t *testing.T) {
	ev := &Event{HID: "h1", Type: "input", Value: strPtr(strings.Repeat("a", MaxEventValueSize+1))}
	if err := ev.Validate(); !errors.Is(err, ErrValueTooLarge) {
		t.Errorf("err = %v, want ErrValueTooLarge", err)
	}
}

func TestStringers(t *testing.T) {
	if FramePatches.String() != "Patches" || PatchSetHTML.String() != "SetHTML" {
		t.Error("unexpected names")
	}
	if ControlPong.String() != "Pong" || ErrHandlerPanic.String() != "HandlerPanic" {
		t.Error("unexpected names")
	}
	if FrameType(0x7f).String() != "Unknown" {
		t.Error("unknown frame type should print Unknown")
	}
}
