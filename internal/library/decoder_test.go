package library

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-test/deep"

	"playlister/internal/logging"
	"playlister/internal/plist"
	"playlister/internal/testsupport"
)

func decodeString(t *testing.T, doc string, wanted ...string) (*Library, error) {
	t.Helper()
	return Read(context.Background(), strings.NewReader(doc), wanted, logging.NewNop())
}

func TestDecoderBuildsStoresFromCatalog(t *testing.T) {
	doc := testsupport.CatalogXML(
		[]testsupport.CatalogTrack{
			{ID: 101, Name: "Song One", Artist: "Solo", Album: "First", TotalTime: 215000, Location: "file://localhost/C:/Music/Solo/First/01%20Song%20One.mp3"},
			{ID: 102, Name: "Song Two", Artist: "Guest", AlbumArtist: "Band", Album: "Second", TotalTime: 1999, Location: "file://localhost/C:/Music/Band/Second/02%20Song%20Two.m4a"},
		},
		[]testsupport.CatalogPlaylist{
			{ID: 201, Name: "Road Trip", TrackIDs: []int{102, 101, 102}},
			{ID: 202, Name: "Empty"},
		},
	)

	lib, err := decodeString(t, doc)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	wantTracks := []Track{
		{ID: 101, TotalTimeMs: 215000, Location: "file://localhost/C:/Music/Solo/First/01 Song One.mp3", Name: "Song One", Album: "First", Artist: "Solo"},
		{ID: 102, TotalTimeMs: 1999, Location: "file://localhost/C:/Music/Band/Second/02 Song Two.m4a", Name: "Song Two", Album: "Second", Artist: "Band"},
	}
	if diff := deep.Equal(lib.Tracks.All(), wantTracks); diff != nil {
		t.Fatalf("unexpected tracks: %v", diff)
	}

	wantPlaylists := []Playlist{
		{ID: 201, Name: "Road Trip", Wanted: true, TrackIDs: []int{102, 101, 102}},
		{ID: 202, Name: "Empty", Wanted: true},
	}
	if diff := deep.Equal(lib.Playlists.All(), wantPlaylists); diff != nil {
		t.Fatalf("unexpected playlists: %v", diff)
	}

	if lib.Stats.Tracks != 2 || lib.Stats.Playlists != 2 {
		t.Fatalf("unexpected stats: %+v", lib.Stats)
	}
	if lib.Stats.Warnings != 0 {
		t.Fatalf("expected no warnings for a well-formed catalog, got %d", lib.Stats.Warnings)
	}
}

func TestDecoderAcceptsPlaylistIDBeforeName(t *testing.T) {
	doc := testsupport.CatalogXML(
		[]testsupport.CatalogTrack{{ID: 7, Name: "Seven", Location: "file:///seven.mp3"}},
		[]testsupport.CatalogPlaylist{{ID: 30, Name: "Later Name", TrackIDs: []int{7}, IDFirst: true}},
	)
	lib, err := decodeString(t, doc, "Later Name")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	p, ok := lib.Playlists.Get(30)
	if !ok {
		t.Fatal("expected playlist 30")
	}
	if p.Name != "Later Name" || !p.Wanted {
		t.Fatalf("unexpected playlist: %+v", p)
	}
	if diff := deep.Equal(p.TrackIDs, []int{7}); diff != nil {
		t.Fatalf("unexpected track ids: %v", diff)
	}
}

func TestDecoderSelectionFilter(t *testing.T) {
	doc := testsupport.CatalogXML(
		[]testsupport.CatalogTrack{
			{ID: 1, Name: "A", Location: "file:///a.mp3"},
			{ID: 2, Name: "B", Location: "file:///b.mp3"},
		},
		[]testsupport.CatalogPlaylist{
			{ID: 10, Name: "Road Trip", TrackIDs: []int{1, 2}},
			{ID: 11, Name: "Chill", TrackIDs: []int{2, 1}},
		},
	)

	lib, err := decodeString(t, doc, "Road Trip")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	wanted := lib.Playlists.Wanted()
	if len(wanted) != 1 || wanted[0].Name != "Road Trip" {
		t.Fatalf("unexpected wanted playlists: %+v", wanted)
	}
	chill, ok := lib.Playlists.Get(11)
	if !ok {
		t.Fatal("expected Chill to be recorded")
	}
	if chill.Wanted {
		t.Fatal("expected Chill to be unwanted")
	}
	if len(chill.TrackIDs) != 0 {
		t.Fatalf("expected Chill's tracks to be dropped, got %v", chill.TrackIDs)
	}
	if missing := lib.Playlists.Missing(); len(missing) != 0 {
		t.Fatalf("unexpected missing names: %v", missing)
	}
}

func TestDecoderTrackIDMismatchIsFatal(t *testing.T) {
	doc := `<plist version="1.0"><dict>
	<key>Tracks</key>
	<dict>
		<key>5</key>
		<dict>
			<key>Track ID</key><integer>7</integer>
			<key>Name</key><string>Liar</string>
		</dict>
	</dict>
</dict></plist>`

	_, err := decodeString(t, doc)
	if !errors.Is(err, ErrTrackIDMismatch) {
		t.Fatalf("expected ErrTrackIDMismatch, got %v", err)
	}
	var mismatch *TrackIDMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *TrackIDMismatchError, got %T", err)
	}
	if mismatch.Envelope != "5" || mismatch.Nested != "7" {
		t.Fatalf("unexpected mismatch detail: got envelope %q nested %q", mismatch.Envelope, mismatch.Nested)
	}
}

func TestDecoderTrackIDWithoutEnvelopeIsFatal(t *testing.T) {
	doc := `<plist version="1.0"><dict>
	<key>Tracks</key>
	<dict>
		<key>Track ID</key><integer>9</integer>
	</dict>
</dict></plist>`

	_, err := decodeString(t, doc)
	var mismatch *TrackIDMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *TrackIDMismatchError, got %v", err)
	}
	if mismatch.Envelope != "" {
		t.Fatalf("expected no envelope, got %q", mismatch.Envelope)
	}
}

func TestDecoderUnpairedCloseWarnsAndContinues(t *testing.T) {
	tracks := NewTrackStore()
	dec := NewDecoder(tracks, NewPlaylistStore(nil), logging.NewNop())

	events := []plist.Event{
		{Depth: 0, Kind: plist.KindClose, Name: "dict"},
		{Depth: 0, Kind: plist.KindOpen, Name: "plist"},
		{Depth: 0, Kind: plist.KindClose, Name: "plist"},
		{Depth: 0, Kind: plist.KindClose, Name: "plist"},
	}
	for _, ev := range events {
		if err := dec.Handle(ev); err != nil {
			t.Fatalf("Handle(%v): %v", ev, err)
		}
	}
	if got := dec.Stats().Warnings; got != 2 {
		t.Fatalf("unexpected warning count: got %d want 2", got)
	}
	if got := dec.Stats().Events; got != len(events) {
		t.Fatalf("unexpected event count: got %d want %d", got, len(events))
	}
}

func TestDecoderHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := testsupport.CatalogXML(nil, nil)
	_, err := Read(ctx, strings.NewReader(doc), nil, logging.NewNop())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDecoderReportsMalformedXML(t *testing.T) {
	_, err := decodeString(t, `<plist><dict><key>Tracks</key></plist>`)
	if err == nil {
		t.Fatal("expected error for malformed document")
	}
	if errors.Is(err, ErrTrackIDMismatch) {
		t.Fatalf("unexpected mismatch error: %v", err)
	}
}
