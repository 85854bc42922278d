// Package fileutil resolves track paths on case-sensitive filesystems and
// writes playlist files atomically.
package fileutil
