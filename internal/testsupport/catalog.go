package testsupport

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// CatalogTrack describes one track entry of a generated catalog.
type CatalogTrack struct {
	ID          int
	Name        string
	Artist      string
	AlbumArtist string
	Album       string
	TotalTime   int
	Location    string
}

// CatalogPlaylist describes one playlist entry of a generated catalog.
// Name is written before the playlist id, as iTunes does, unless IDFirst is
// set.
type CatalogPlaylist struct {
	ID       int
	Name     string
	TrackIDs []int
	IDFirst  bool
}

// CatalogXML renders an iTunes-style library document.
func CatalogXML(tracks []CatalogTrack, playlists []CatalogPlaylist) string {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple Computer//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Major Version</key><integer>1</integer>
	<key>Minor Version</key><integer>1</integer>
	<key>Application Version</key><string>12.9.5.5</string>
	<key>Show Content Ratings</key><true/>
	<key>Music Folder</key><string>file://localhost/C:/Music/</string>
	<key>Tracks</key>
	<dict>
`)
	for _, t := range tracks {
		fmt.Fprintf(&b, "\t\t<key>%d</key>\n\t\t<dict>\n", t.ID)
		fmt.Fprintf(&b, "\t\t\t<key>Track ID</key><integer>%d</integer>\n", t.ID)
		writeString(&b, "Name", t.Name)
		writeString(&b, "Artist", t.Artist)
		writeString(&b, "Album Artist", t.AlbumArtist)
		writeString(&b, "Album", t.Album)
		b.WriteString("\t\t\t<key>Kind</key><string>MPEG audio file</string>\n")
		if t.TotalTime > 0 {
			fmt.Fprintf(&b, "\t\t\t<key>Total Time</key><integer>%d</integer>\n", t.TotalTime)
		}
		b.WriteString("\t\t\t<key>Compilation</key><true/>\n")
		writeString(&b, "Location", t.Location)
		b.WriteString("\t\t</dict>\n")
	}
	b.WriteString("\t</dict>\n\t<key>Playlists</key>\n\t<array>\n")
	for _, p := range playlists {
		b.WriteString("\t\t<dict>\n")
		if p.IDFirst {
			fmt.Fprintf(&b, "\t\t\t<key>Playlist ID</key><integer>%d</integer>\n", p.ID)
			writeString(&b, "Name", p.Name)
		} else {
			writeString(&b, "Name", p.Name)
			b.WriteString("\t\t\t<key>Description</key><string></string>\n")
			fmt.Fprintf(&b, "\t\t\t<key>Playlist ID</key><integer>%d</integer>\n", p.ID)
		}
		fmt.Fprintf(&b, "\t\t\t<key>Playlist Persistent ID</key><string>%016X</string>\n", p.ID)
		b.WriteString("\t\t\t<key>All Items</key><true/>\n")
		if len(p.TrackIDs) > 0 {
			b.WriteString("\t\t\t<key>Playlist Items</key>\n\t\t\t<array>\n")
			for _, id := range p.TrackIDs {
				fmt.Fprintf(&b, "\t\t\t\t<dict>\n\t\t\t\t\t<key>Track ID</key><integer>%d</integer>\n\t\t\t\t</dict>\n", id)
			}
			b.WriteString("\t\t\t</array>\n")
		}
		b.WriteString("\t\t</dict>\n")
	}
	b.WriteString("\t</array>\n</dict>\n</plist>\n")
	return b.String()
}

func writeString(b *bytes.Buffer, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "\t\t\t<key>%s</key><string>", key)
	_ = xml.EscapeText(b, []byte(value))
	b.WriteString("</string>\n")
}

// WriteCatalog writes a generated catalog into dir and returns its path.
func WriteCatalog(t testing.TB, dir string, tracks []CatalogTrack, playlists []CatalogPlaylist) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, "iTunes Music Library.xml")
	if err := os.WriteFile(path, []byte(CatalogXML(tracks, playlists)), 0o644); err != nil {
		t.Fatalf("write catalog %s: %v", path, err)
	}
	return path
}
