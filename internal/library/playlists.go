package library

import "slices"

// Playlist field names recognized by PlaylistStore.Set.
const (
	FieldPlaylistName = "Name"
	FieldTrackID      = "Track ID"
)

// Playlist is one catalog playlist.
type Playlist struct {
	ID       int
	Name     string
	Wanted   bool
	TrackIDs []int
}

// PlaylistStore maps playlist ids to playlists and applies the caller's
// selection of wanted names.
type PlaylistStore struct {
	byID      map[int]*Playlist
	order     []int
	requested []string
	selection map[string]struct{}
	seen      map[string]struct{}
}

// NewPlaylistStore returns an empty store. An empty wanted list selects
// every playlist. Names match exactly.
func NewPlaylistStore(wanted []string) *PlaylistStore {
	s := &PlaylistStore{
		byID:      make(map[int]*Playlist),
		selection: make(map[string]struct{}),
		seen:      make(map[string]struct{}),
	}
	for _, name := range wanted {
		if name == "" {
			continue
		}
		if _, dup := s.selection[name]; dup {
			continue
		}
		s.selection[name] = struct{}{}
		s.requested = append(s.requested, name)
	}
	return s
}

// Set assigns one field of playlist id, creating the playlist on first use.
// It returns true when the field revealed the playlist as unwanted, meaning
// further fields for it can be dropped.
func (s *PlaylistStore) Set(id int, name, value string) bool {
	switch name {
	case FieldPlaylistName:
		p := s.upsert(id)
		p.Name = value
		s.seen[value] = struct{}{}
		if !s.Wants(value) {
			p.Wanted = false
			return true
		}
	case FieldTrackID:
		trackID, ok := parseID(value)
		if !ok {
			return false
		}
		p := s.upsert(id)
		if p.Wanted {
			p.TrackIDs = append(p.TrackIDs, trackID)
		}
	}
	return false
}

// Wants reports whether a playlist named name is selected.
func (s *PlaylistStore) Wants(name string) bool {
	if len(s.selection) == 0 {
		return true
	}
	_, ok := s.selection[name]
	return ok
}

func (s *PlaylistStore) upsert(id int) *Playlist {
	if p, ok := s.byID[id]; ok {
		return p
	}
	p := &Playlist{ID: id, Wanted: true}
	s.byID[id] = p
	s.order = append(s.order, id)
	return p
}

// Get returns a copy of playlist id.
func (s *PlaylistStore) Get(id int) (Playlist, bool) {
	p, ok := s.byID[id]
	if !ok {
		return Playlist{}, false
	}
	return clonePlaylist(p), true
}

// Len reports the number of playlists.
func (s *PlaylistStore) Len() int {
	return len(s.order)
}

// All returns every playlist in insertion order.
func (s *PlaylistStore) All() []Playlist {
	out := make([]Playlist, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, clonePlaylist(s.byID[id]))
	}
	return out
}

// Wanted returns the selected playlists in insertion order.
func (s *PlaylistStore) Wanted() []Playlist {
	var out []Playlist
	for _, id := range s.order {
		if p := s.byID[id]; p.Wanted {
			out = append(out, clonePlaylist(p))
		}
	}
	return out
}

// Requested returns the selection in the order it was given.
func (s *PlaylistStore) Requested() []string {
	return slices.Clone(s.requested)
}

// Missing returns requested names that no playlist in the catalog carried.
func (s *PlaylistStore) Missing() []string {
	var out []string
	for _, name := range s.requested {
		if _, ok := s.seen[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

// Names returns every playlist name seen, in insertion order.
func (s *PlaylistStore) Names() []string {
	out := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if name := s.byID[id].Name; name != "" {
			out = append(out, name)
		}
	}
	return out
}

func clonePlaylist(p *Playlist) Playlist {
	c := *p
	c.TrackIDs = slices.Clone(p.TrackIDs)
	return c
}

func isPlaylistField(name string) bool {
	return name == FieldPlaylistName || name == FieldTrackID
}
