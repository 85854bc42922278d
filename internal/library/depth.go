package library

import (
	"strconv"

	"playlister/internal/plist"
)

// TrackIDState records whether a slot's track id has been confirmed.
type TrackIDState int

const (
	TrackIDUnresolved TrackIDState = iota
	TrackIDResolved
	TrackIDResolving
)

type pairing int

const (
	pairNone pairing = iota
	pairOpen
	pairSibling
)

type field struct {
	name  string
	value string
}

// Slot is the decoding state for one nesting depth.
type Slot struct {
	Depth       int
	OpenName    string
	OpenText    string
	SiblingName string
	SiblingText string

	InTracks    bool
	InPlaylists bool
	IsKey       bool

	TrackID            TrackIDState
	PlaylistIDResolved bool
	Skip               bool
	ID                 int

	candidate    string
	hasCandidate bool
	pairing      pairing
	pending      []field
}

// DepthStack holds one Slot per open depth, indexed by depth.
type DepthStack struct {
	slots []*Slot
}

// NewDepthStack returns a stack holding the root slot.
func NewDepthStack() *DepthStack {
	s := &DepthStack{}
	s.Reset()
	return s
}

// Reset discards every slot except a fresh root.
func (s *DepthStack) Reset() {
	s.slots = []*Slot{{Depth: 0}}
}

// Len reports the number of live slots.
func (s *DepthStack) Len() int {
	return len(s.slots)
}

// Top returns the slot for the current depth.
func (s *DepthStack) Top() *Slot {
	return s.slots[len(s.slots)-1]
}

// Parent returns the slot directly below Top, or nil at the root.
func (s *DepthStack) Parent() *Slot {
	if len(s.slots) < 2 {
		return nil
	}
	return s.slots[len(s.slots)-2]
}

// At returns the slot at depth, or nil.
func (s *DepthStack) At(depth int) *Slot {
	if depth < 0 || depth >= len(s.slots) {
		return nil
	}
	return s.slots[depth]
}

// Sync aligns the stack with an incoming event. Slots deeper than depth are
// discarded; new slots are created only for open events. It returns the
// number of slots created.
func (s *DepthStack) Sync(depth int, kind plist.Kind) int {
	if depth < 0 {
		depth = 0
	}
	for len(s.slots)-1 > depth {
		s.slots[len(s.slots)-1] = nil
		s.slots = s.slots[:len(s.slots)-1]
	}
	if kind != plist.KindOpen {
		return 0
	}
	created := 0
	for len(s.slots)-1 < depth {
		s.slots = append(s.slots, newSlot(s.Top()))
		created++
	}
	return created
}

// newSlot initializes a slot from its parent. Section flags are inherited.
// A parent holding <key>N</key><dict> is an envelope: its numeric key
// becomes the child's tentative track id. Below a resolved playlist the
// child inherits the playlist id and skip flag.
func newSlot(parent *Slot) *Slot {
	s := &Slot{
		Depth:       parent.Depth + 1,
		InTracks:    parent.InTracks,
		InPlaylists: parent.InPlaylists,
	}
	if id, ok := parseID(parent.OpenText); ok && parent.OpenName == "key" && parent.SiblingName == "dict" {
		parent.TrackID = TrackIDResolved
		s.ID = id
		s.candidate = parent.OpenText
		s.hasCandidate = true
		return s
	}
	if parent.PlaylistIDResolved {
		s.PlaylistIDResolved = true
		s.ID = parent.ID
		s.Skip = parent.Skip
	}
	return s
}

// parseID accepts a non-empty run of ASCII digits that fits in an int.
func parseID(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}
