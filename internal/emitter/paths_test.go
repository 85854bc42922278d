package emitter

import "testing"

func TestRewriteLocation(t *testing.T) {
	tests := []struct {
		name     string
		location string
		library  string
		prefix   string
		want     string
	}{
		{"windows library", "file://localhost/C:/Music/Artist/Song.mp3", `C:\Music\`, "/mnt/music/", "/mnt/music/Artist/Song.mp3"},
		{"mac library", "file://localhost/Users/me/Music/iTunes/Artist/Song.mp3", "/Users/me/Music/iTunes/", "/srv/music/", "/srv/music/Artist/Song.mp3"},
		{"bare scheme", "file:///Volumes/Music/Song.mp3", "/Volumes/Music", "/data", "/data/Song.mp3"},
		{"no library match", "file://localhost/D:/Other/Song.mp3", `C:\Music\`, "/mnt/music", "/mnt/music/D:/Other/Song.mp3"},
		{"no prefix", "file://localhost/C:/Music/Song.mp3", "C:/Music/", "", "/Song.mp3"},
		{"first occurrence only", "file://localhost/m/a/m/b.mp3", "m/", "/x/", "/x/a/m/b.mp3"},
		{"not a url", "/already/local.mp3", "", "", "/already/local.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RewriteLocation(tt.location, tt.library, tt.prefix); got != tt.want {
				t.Fatalf("RewriteLocation(%q) = %q, want %q", tt.location, got, tt.want)
			}
		})
	}
}
