package history

import "time"

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusWarnings  = "completed_with_warnings"
	StatusFailed    = "failed"
)

// Run is one conversion run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Catalog    string
	Tracks     int
	Playlists  int
	Written    int
	Warnings   int
	Status     string
	Error      string
	Results    []PlaylistResult
}

// Duration reports how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// PlaylistResult is the outcome for one playlist within a run.
type PlaylistResult struct {
	PlaylistID int
	Name       string
	File       string
	Status     string
	Written    int
	Skipped    int
}
