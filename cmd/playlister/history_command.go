package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"playlister/internal/history"
)

type runView struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	Status    string    `json:"status"`
	Catalog   string    `json:"catalog"`
	Tracks    int       `json:"tracks"`
	Playlists int       `json:"playlists"`
	Written   int       `json:"written"`
	Warnings  int       `json:"warnings"`
	Error     string    `json:"error,omitempty"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversion runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "Run history is disabled (history.enabled = false)")
				return nil
			}
			if _, err := os.Stat(cfg.History.Path); errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if prefix := strings.TrimSpace(runID); prefix != "" {
				for _, run := range runs {
					if strings.HasPrefix(run.ID, prefix) {
						return renderRunResults(cmd, run, asJSON)
					}
				}
				return fmt.Errorf("run %q not found in the last %d runs of %s", prefix, len(runs), store.Path())
			}

			views := make([]runView, 0, len(runs))
			for _, run := range runs {
				views = append(views, runView{
					ID:        run.ID,
					StartedAt: run.StartedAt,
					Duration:  run.Duration().Round(time.Millisecond).String(),
					Status:    run.Status,
					Catalog:   run.Catalog,
					Tracks:    run.Tracks,
					Playlists: run.Playlists,
					Written:   run.Written,
					Warnings:  run.Warnings,
					Error:     run.Error,
				})
			}
			if asJSON {
				return writeJSON(cmd, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(views))
			for _, view := range views {
				rows = append(rows, []string{
					view.StartedAt.Local().Format("2006-01-02 15:04:05"),
					shortID(view.ID),
					view.Status,
					strconv.Itoa(view.Written) + "/" + strconv.Itoa(view.Playlists),
					strconv.Itoa(view.Warnings),
					view.Duration,
				})
			}
			writeRows(out, []string{"Started", "Run", "Status", "Written", "Warnings", "Duration"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight})
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&runID, "run", "", "Show per-playlist results for the run with this id prefix")
	return cmd
}

type playlistResultView struct {
	PlaylistID int    `json:"playlist_id"`
	Name       string `json:"name"`
	File       string `json:"file,omitempty"`
	Status     string `json:"status"`
	Written    int    `json:"written"`
	Skipped    int    `json:"skipped"`
}

func renderRunResults(cmd *cobra.Command, run history.Run, asJSON bool) error {
	views := make([]playlistResultView, 0, len(run.Results))
	for _, result := range run.Results {
		views = append(views, playlistResultView(result))
	}
	if asJSON {
		return writeJSON(cmd, views)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s)\n", run.ID, run.Status)
	if run.Error != "" {
		fmt.Fprintf(out, "Error: %s\n", run.Error)
	}
	rows := make([][]string, 0, len(views))
	for _, view := range views {
		rows = append(rows, []string{
			view.Status,
			view.Name,
			strconv.Itoa(view.Written),
			strconv.Itoa(view.Skipped),
			view.File,
		})
	}
	writeRows(out, []string{"Status", "Playlist", "Entries", "Skipped", "File"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft})
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
