// Package preflight checks that the catalog, output directory, and
// verification root are usable before a conversion run starts.
//
// The conversion run calls Run and aborts when Err reports a failure, so a
// misconfigured path fails fast instead of producing warnings for every
// playlist. The CLI "config validate" command prints the same results.
package preflight
