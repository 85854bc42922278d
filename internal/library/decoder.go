package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"playlister/internal/logging"
	"playlister/internal/plist"
)

// Section keys that switch the decoder between tracks and playlists.
const (
	sectionTracks    = "Tracks"
	sectionPlaylists = "Playlists"
	keyPlaylistID    = "Playlist ID"
)

// EventSource yields structural events until io.EOF.
type EventSource interface {
	Next() (plist.Event, error)
}

// Stats summarizes one decode.
type Stats struct {
	Events    int
	Tracks    int
	Playlists int
	Warnings  int
}

// Decoder feeds catalog events into a TrackStore and a PlaylistStore.
type Decoder struct {
	stack     *DepthStack
	tracks    *TrackStore
	playlists *PlaylistStore
	logger    *slog.Logger
	stats     Stats
}

// NewDecoder returns a decoder writing into tracks and playlists.
func NewDecoder(tracks *TrackStore, playlists *PlaylistStore, logger *slog.Logger) *Decoder {
	return &Decoder{
		stack:     NewDepthStack(),
		tracks:    tracks,
		playlists: playlists,
		logger:    logging.NewComponentLogger(logger, "decoder"),
	}
}

// Stats returns counters accumulated so far.
func (d *Decoder) Stats() Stats {
	s := d.stats
	s.Tracks = d.tracks.Len()
	return s
}

// Decode drains src. It stops at the first fatal error or when ctx is done.
func (d *Decoder) Decode(ctx context.Context, src EventSource) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		if err := d.Handle(ev); err != nil {
			return err
		}
	}
}

// Handle applies one event.
func (d *Decoder) Handle(ev plist.Event) error {
	d.stats.Events++
	d.stack.Sync(ev.Depth, ev.Kind)
	slot := d.stack.Top()

	switch ev.Kind {
	case plist.KindOpen:
		d.open(slot, ev.Name)
	case plist.KindText:
		d.text(slot, ev)
	case plist.KindClose:
		return d.close(slot, ev)
	}
	return nil
}

func (d *Decoder) open(slot *Slot, name string) {
	switch {
	case name == "key":
		slot.IsKey = true
		slot.pairing = pairOpen
		slot.OpenName = name
		slot.OpenText = ""
		slot.SiblingName = ""
		slot.SiblingText = ""
	case slot.OpenName == "":
		slot.pairing = pairOpen
		slot.OpenName = name
		slot.OpenText = ""
		slot.SiblingName = ""
		slot.SiblingText = ""
	default:
		slot.pairing = pairSibling
		slot.SiblingName = name
		slot.SiblingText = ""
	}
}

func (d *Decoder) text(slot *Slot, ev plist.Event) {
	switch slot.pairing {
	case pairOpen:
		slot.OpenText = ev.Value
	case pairSibling:
		slot.SiblingText = ev.Value
	default:
		d.logger.Debug("text outside any element pairing",
			logging.Int("depth", ev.Depth),
			logging.String("value", ev.Value),
		)
	}
}

func (d *Decoder) close(slot *Slot, ev plist.Event) error {
	switch slot.pairing {
	case pairOpen:
		slot.pairing = pairNone
		switch slot.OpenText {
		case sectionPlaylists:
			slot.InTracks = false
			slot.InPlaylists = true
			d.logger.Debug("playlists section start", logging.Int("depth", slot.Depth))
		case sectionTracks:
			slot.InTracks = true
			slot.InPlaylists = false
			d.logger.Debug("tracks section start", logging.Int("depth", slot.Depth))
		}
		return nil
	case pairSibling:
		slot.pairing = pairNone
		return d.closeSibling(slot)
	default:
		d.stats.Warnings++
		logging.WarnWithContext(d.logger, "close element without an open pairing", "unpaired_close",
			logging.Int("depth", ev.Depth),
			logging.String("element", ev.Name),
			logging.Bool("is_key", slot.IsKey),
			logging.String(logging.FieldErrorHint, "catalog may be truncated or not an iTunes library"),
			logging.String(logging.FieldImpact, "element ignored"),
		)
		return nil
	}
}

func (d *Decoder) closeSibling(slot *Slot) error {
	key, value := slot.OpenText, slot.SiblingText

	switch {
	case slot.InTracks && slot.TrackID != TrackIDResolved && key == FieldTrackID && isID(value):
		return d.resolveTrackID(slot, value)

	case slot.InTracks && slot.TrackID != TrackIDResolved:
		d.tracks.Set(slot.ID, key, value)

	case slot.InPlaylists && key == keyPlaylistID && isID(value):
		d.resolvePlaylistID(slot, value)

	case slot.InPlaylists && slot.PlaylistIDResolved && !slot.Skip:
		d.setPlaylistField(slot, key, value)

	case slot.InPlaylists && !slot.PlaylistIDResolved && isPlaylistField(key):
		slot.pending = append(slot.pending, field{name: key, value: value})
	}
	return nil
}

func (d *Decoder) resolveTrackID(slot *Slot, value string) error {
	parent := d.stack.Parent()
	id, _ := parseID(value)
	if parent == nil || !slot.hasCandidate {
		return &TrackIDMismatchError{Nested: value, Depth: slot.Depth}
	}
	if envelope, _ := parseID(slot.candidate); envelope != id {
		return &TrackIDMismatchError{Envelope: slot.candidate, Nested: value, Depth: slot.Depth}
	}
	slot.TrackID = TrackIDResolving
	slot.ID = id
	parent.TrackID = TrackIDResolved
	parent.ID = id
	return nil
}

func (d *Decoder) resolvePlaylistID(slot *Slot, value string) {
	id, _ := parseID(value)
	slot.PlaylistIDResolved = true
	slot.ID = id
	d.stats.Playlists++

	pending := slot.pending
	slot.pending = nil
	for _, f := range pending {
		if slot.Skip {
			break
		}
		d.setPlaylistField(slot, f.name, f.value)
	}
}

// setPlaylistField forwards a field and, when the playlist turns out to be
// unwanted, marks this slot and its parent so the remaining fields are
// dropped.
func (d *Decoder) setPlaylistField(slot *Slot, key, value string) {
	if !d.playlists.Set(slot.ID, key, value) {
		return
	}
	slot.Skip = true
	if parent := d.stack.Parent(); parent != nil {
		parent.Skip = true
	}
	d.logger.Debug("skipping unselected playlist",
		logging.Int(logging.FieldPlaylistID, slot.ID),
		logging.String(logging.FieldPlaylist, value),
	)
}

func isID(value string) bool {
	_, ok := parseID(value)
	return ok
}
