package convert

import (
	"time"

	"playlister/internal/emitter"
	"playlister/internal/history"
	"playlister/internal/library"
)

// MissingPlaylist is a requested name absent from the catalog.
type MissingPlaylist struct {
	Name        string
	Suggestions []string
}

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Catalog    string
	StartedAt  time.Time
	FinishedAt time.Time
	Decode     library.Stats
	Missing    []MissingPlaylist
	Results    []emitter.Result
	Err        error
}

// Written counts playlists written to disk.
func (s *Summary) Written() int {
	count := 0
	for _, result := range s.Results {
		if result.Status == emitter.StatusWritten {
			count++
		}
	}
	return count
}

// Entries counts track entries written across all playlists.
func (s *Summary) Entries() int {
	total := 0
	for _, result := range s.Results {
		total += result.Written
	}
	return total
}

// Warnings counts every recoverable problem of the run: decode warnings,
// missing requested playlists, playlists not written and skipped entries.
func (s *Summary) Warnings() int {
	total := s.Decode.Warnings + len(s.Missing)
	for _, result := range s.Results {
		if result.Status != emitter.StatusWritten {
			total++
		}
		total += result.Skipped
	}
	return total
}

// Status classifies the run for the history ledger.
func (s *Summary) Status() string {
	switch {
	case s.Err != nil:
		return history.StatusFailed
	case s.Warnings() > 0:
		return history.StatusWarnings
	default:
		return history.StatusSucceeded
	}
}

func (s *Summary) historyRun() history.Run {
	run := history.Run{
		ID:         s.RunID,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Catalog:    s.Catalog,
		Tracks:     s.Decode.Tracks,
		Playlists:  s.Decode.Playlists,
		Written:    s.Written(),
		Warnings:   s.Warnings(),
		Status:     s.Status(),
	}
	if s.Err != nil {
		run.Error = s.Err.Error()
	}
	run.Results = make([]history.PlaylistResult, 0, len(s.Results))
	for _, result := range s.Results {
		run.Results = append(run.Results, history.PlaylistResult{
			PlaylistID: result.PlaylistID,
			Name:       result.Name,
			File:       result.File,
			Status:     string(result.Status),
			Written:    result.Written,
			Skipped:    result.Skipped,
		})
	}
	return run
}
