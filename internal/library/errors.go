package library

import (
	"errors"
	"fmt"
)

// ErrTrackIDMismatch matches every *TrackIDMismatchError via errors.Is.
var ErrTrackIDMismatch = errors.New("track id mismatch")

// TrackIDMismatchError reports a track entry whose nested "Track ID"
// disagrees with the key of its enclosing dictionary.
type TrackIDMismatchError struct {
	Envelope string
	Nested   string
	Depth    int
}

func (e *TrackIDMismatchError) Error() string {
	if e.Envelope == "" {
		return fmt.Sprintf("track id %s at depth %d has no enclosing track key", e.Nested, e.Depth)
	}
	return fmt.Sprintf("track id %s at depth %d does not match enclosing key %s", e.Nested, e.Depth, e.Envelope)
}

func (e *TrackIDMismatchError) Is(target error) bool {
	return target == ErrTrackIDMismatch
}
