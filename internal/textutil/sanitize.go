package textutil

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxPlaylistNameBytes bounds the playlist names accepted as filenames.
const MaxPlaylistNameBytes = 1024

var (
	// ErrNameEmpty reports a playlist name with no usable characters.
	ErrNameEmpty = errors.New("playlist name is empty")
	// ErrNameTooLong reports a playlist name of MaxPlaylistNameBytes or more.
	ErrNameTooLong = errors.New("playlist name is too long")
)

// SanitizePlaylistName turns a playlist name into a portable filename stem.
// Spaces become underscores and shell or filesystem metacharacters become
// dashes. Control characters and anything outside printable ASCII are dropped
// whole, including every byte of a multi-byte or invalid sequence.
func SanitizePlaylistName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); {
		r, size := utf8.DecodeRuneInString(name[i:])
		i += size
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r < 0x20 || r >= 0x7f:
			// also covers utf8.RuneError
		case strings.ContainsRune(unsafeFileChars, r):
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

const unsafeFileChars = "#$%!&'{\"}:\\@<+>`*|?=/"

// PlaylistFileName derives the output filename for a playlist. The extension
// gains a leading dot when it lacks one; an empty extension adds nothing.
func PlaylistFileName(name, ext string) (string, error) {
	if name == "" {
		return "", ErrNameEmpty
	}
	if len(name) >= MaxPlaylistNameBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(name))
	}
	stem := SanitizePlaylistName(name)
	if stem == "" {
		return "", fmt.Errorf("%w: %q has no portable characters", ErrNameEmpty, name)
	}
	if ext == "" {
		return stem, nil
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return stem + ext, nil
}
