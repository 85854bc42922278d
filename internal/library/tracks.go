package library

import (
	"net/url"
	"strconv"
	"strings"
)

// Track field names recognized by TrackStore.Set.
const (
	FieldName        = "Name"
	FieldTotalTime   = "Total Time"
	FieldLocation    = "Location"
	FieldAlbum       = "Album"
	FieldAlbumArtist = "Album Artist"
	FieldArtist      = "Artist"
)

// Track is one catalog track.
type Track struct {
	ID          int
	TotalTimeMs int
	Location    string
	Name        string
	Album       string
	Artist      string
}

// TrackStore maps track ids to tracks, preserving first-insertion order.
type TrackStore struct {
	byID  map[int]*Track
	order []int
}

// NewTrackStore returns an empty store.
func NewTrackStore() *TrackStore {
	return &TrackStore{byID: make(map[int]*Track)}
}

// Set assigns one field of track id, creating the track on first use.
// Unrecognized fields are ignored and reported as false.
func (s *TrackStore) Set(id int, name, value string) bool {
	switch name {
	case FieldName, FieldTotalTime, FieldLocation, FieldAlbum, FieldAlbumArtist, FieldArtist:
	default:
		return false
	}

	t := s.upsert(id)
	switch name {
	case FieldName:
		t.Name = value
	case FieldTotalTime:
		ms, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			ms = 0
		}
		t.TotalTimeMs = ms
	case FieldLocation:
		t.Location = unescapeLocation(value)
	case FieldAlbum:
		t.Album = value
	case FieldAlbumArtist:
		t.Artist = value
	case FieldArtist:
		if t.Artist == "" {
			t.Artist = value
		}
	}
	return true
}

func (s *TrackStore) upsert(id int) *Track {
	if t, ok := s.byID[id]; ok {
		return t
	}
	t := &Track{ID: id}
	s.byID[id] = t
	s.order = append(s.order, id)
	return t
}

// Get returns a copy of track id.
func (s *TrackStore) Get(id int) (Track, bool) {
	t, ok := s.byID[id]
	if !ok {
		return Track{}, false
	}
	return *t, true
}

// Len reports the number of tracks.
func (s *TrackStore) Len() int {
	return len(s.order)
}

// All returns every track in insertion order.
func (s *TrackStore) All() []Track {
	out := make([]Track, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out
}

// unescapeLocation decodes %XX sequences. A malformed escape is kept
// verbatim instead of failing the whole value.
func unescapeLocation(value string) string {
	if !strings.Contains(value, "%") {
		return value
	}
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if value[i] == '%' && i+2 < len(value) && isHex(value[i+1]) && isHex(value[i+2]) {
			b.WriteByte(unhex(value[i+1])<<4 | unhex(value[i+2]))
			i += 2
			continue
		}
		b.WriteByte(value[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
