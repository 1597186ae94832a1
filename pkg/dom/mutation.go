package dom

// MutationOp is the kind of DOM write a Mutation records.
type MutationOp uint8

const (
	MutSetText    MutationOp = 0x01 // textContent of a text node or element
	MutSetAttr    MutationOp = 0x02 // set/update attribute
	MutRemoveAttr MutationOp = 0x03 // remove attribute
	MutSetValue   MutationOp = 0x08 // element value property
	MutSetHTML    MutationOp = 0x0C // innerHTML of an element
)

// String returns the string representation of the MutationOp.
func (op MutationOp) String() string {
	switch op {
	case MutSetText:
		return "SetText"
	case MutSetAttr:
		return "SetAttr"
	case MutRemoveAttr:
		return "RemoveAttr"
	case MutSetValue:
		return "SetValue"
	case MutSetHTML:
		return "SetHTML"
	default:
		return "Unknown"
	}
}

// Mutation records one write made through the Node API.
type Mutation struct {
	Op     MutationOp
	Target *Node
	Key    string // attribute name for SetAttr/RemoveAttr
	Value  string // new text, attribute value, element value or HTML
}
