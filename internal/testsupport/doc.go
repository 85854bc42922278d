// Package testsupport builds configs, catalogs, and track files for tests.
package testsupport
