// Package plist turns an XML property-list document into a flat stream of
// structural events.
//
// Each event carries the nesting depth, the node kind (open, text, close), the
// element name and any text value. Depths follow the libxml text-reader
// convention: an element sits at the number of its ancestors, its text one
// level deeper, and its close at the same depth as its open. Self-closing
// elements such as <true/> are reported as an empty open with no close.
//
// The reader performs no interpretation of the dictionary shape; see the
// library package for that.
package plist
