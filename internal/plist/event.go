package plist

import "fmt"

// Kind classifies a structural event.
type Kind int

const (
	KindOpen Kind = iota + 1
	KindText
	KindClose
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindText:
		return "text"
	case KindClose:
		return "close"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TextName is the name reported for text events.
const TextName = "#text"

// Event is one structural notification from the document.
type Event struct {
	Depth    int
	Kind     Kind
	Name     string
	IsEmpty  bool
	HasValue bool
	Value    string
}

func (e Event) String() string {
	if e.HasValue {
		return fmt.Sprintf("%d %s %s %q", e.Depth, e.Kind, e.Name, e.Value)
	}
	return fmt.Sprintf("%d %s %s", e.Depth, e.Kind, e.Name)
}
