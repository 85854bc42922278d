// Package library decodes an iTunes-style catalog into track and playlist
// stores.
//
// The Decoder consumes the flat event stream produced by the plist package
// and rebuilds the <key>K</key><value>V</value> pairing of the document
// without a DOM. A DepthStack keeps one Slot per open nesting level; each
// completed key/value pair is classified as a track field or a playlist field
// and forwarded to the TrackStore or PlaylistStore.
//
// A catalog that assigns two different ids to the same track entry is
// rejected with a *TrackIDMismatchError. Unpaired close events are logged and
// counted but do not stop decoding.
package library
