package protocol

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchSetText    PatchOp = 0x01 // Update text content
	PatchSetAttr    PatchOp = 0x02 // Set attribute
	PatchRemoveAttr PatchOp = 0x03 // Remove attribute
	PatchSetValue   PatchOp = 0x08 // Set input value
	PatchSetHTML    PatchOp = 0x0C // Replace element content
)

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchSetValue:
		return "SetValue"
	case PatchSetHTML:
		return "SetHTML"
	default:
		return "Unknown"
	}
}

// Patch is one DOM write for the client to replay.
type Patch struct {
	Op PatchOp `json:"op"`

	// HID is the target element, or the parent element when Child is set.
	HID string `json:"hid"`

	// Child is the index of the target text node among HID's child nodes.
	Child *int `json:"child,omitempty"`

	// Key is the attribute name for SetAttr and RemoveAttr.
	Key string `json:"key,omitempty"`

	// Value is the text, attribute value, element value or HTML.
	Value string `json:"value,omitempty"`
}

// NewSetTextPatch creates a patch setting an element's textContent.
func NewSetTextPatch(hid, text string) Patch {
	return Patch{Op: PatchSetText, HID: hid, Value: text}
}

// NewSetChildTextPatch creates a patch setting the data of the text node
// at index child under the element hid.
func NewSetChildTextPatch(hid string, child int, text string) Patch {
	return Patch{Op: PatchSetText, HID: hid, Child: &child, Value: text}
}

// NewSetAttrPatch creates a patch setting an attribute.
func NewSetAttrPatch(hid, key, value string) Patch {
	return Patch{Op: PatchSetAttr, HID: hid, Key: key, Value: value}
}

// NewRemoveAttrPatch creates a patch removing an attribute.
func NewRemoveAttrPatch(hid, key string) Patch {
	return Patch{Op: PatchRemoveAttr, HID: hid, Key: key}
}

// NewSetValuePatch creates a patch setting an element's value property.
func NewSetValuePatch(hid, value string) Patch {
	return Patch{Op: PatchSetValue, HID: hid, Value: value}
}

// NewSetHTMLPatch creates a patch replacing an element's content.
func NewSetHTMLPatch(hid, html string) Patch {
	return Patch{Op: PatchSetHTML, HID: hid, Value: html}
}

// Validate checks the patch is addressable and complete.
func (p *Patch) Validate() error {
	if !validHID(p.HID) {
		return ErrInvalidHID
	}
	switch p.Op {
	case PatchSetText, PatchSetValue, PatchSetHTML:
	case PatchSetAttr, PatchRemoveAttr:
		if p.Key == "" {
			return ErrMissingPayload
		}
	default:
		return ErrInvalidPatchOp
	}
	if p.Child != nil && *p.Child < 0 {
		return ErrInvalidHID
	}
	return nil
}
