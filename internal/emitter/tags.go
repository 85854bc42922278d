package emitter

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
)

// Tags holds the audio file metadata used to complete #EXTINF lines.
type Tags struct {
	Artist string
	Title  string
}

// TagReader reads metadata embedded in an audio file.
type TagReader interface {
	ReadTags(path string) (Tags, error)
}

// FileTagReader reads ID3, MP4, FLAC and Ogg tags.
type FileTagReader struct{}

// ReadTags implements TagReader.
func (FileTagReader) ReadTags(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Tags{}, fmt.Errorf("read tags %s: %w", path, err)
	}
	artist := m.AlbumArtist()
	if artist == "" {
		artist = m.Artist()
	}
	return Tags{Artist: artist, Title: m.Title()}, nil
}
