package preflight

import (
	"errors"
	"fmt"
	"path/filepath"

	"playlister/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Run executes the checks that apply to cfg. The verification root is only
// checked when verification is enabled and its prefix is an absolute path.
func Run(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckCatalog(cfg.Library.Catalog),
		CheckDirectoryAccess("Output directory", cfg.Output.Dir),
	}

	if cfg.Verify.Enabled {
		if root := cfg.VerifyPrefix(); filepath.IsAbs(root) {
			results = append(results, CheckDirectoryReadable("Verify root", root))
		}
	}

	return results
}

// Err joins the failed results into one error, or returns nil when every
// check passed.
func Err(results []Result) error {
	var errs []error
	for _, result := range results {
		if !result.Passed {
			errs = append(errs, fmt.Errorf("%s: %s", result.Name, result.Detail))
		}
	}
	return errors.Join(errs...)
}
