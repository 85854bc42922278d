package emitter

import "strings"

// MaxPathBytes bounds the track paths written to a playlist.
const MaxPathBytes = 2048

// RewriteLocation turns a catalog Location into a local path. The file URL
// scheme is stripped, the first occurrence of libraryPath is removed, and
// prefix is prepended. Backslashes in libraryPath match forward slashes.
func RewriteLocation(location, libraryPath, prefix string) string {
	path := location
	switch {
	case strings.HasPrefix(path, "file://localhost"):
		path = strings.TrimPrefix(path, "file://localhost")
	case strings.HasPrefix(path, "file://"):
		path = strings.TrimPrefix(path, "file://")
	}
	if libraryPath != "" {
		path = strings.Replace(path, strings.ReplaceAll(libraryPath, `\`, "/"), "", 1)
	}
	if strings.HasSuffix(prefix, "/") && strings.HasPrefix(path, "/") {
		path = path[1:]
	}
	return prefix + path
}
