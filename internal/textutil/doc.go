// Package textutil derives portable playlist filenames and suggests playlist
// names when a requested name is not in the catalog.
package textutil
