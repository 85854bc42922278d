package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"playlister/internal/library"
	"playlister/internal/textutil"
)

type playlistView struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Tracks   int    `json:"tracks"`
	Selected bool   `json:"selected"`
	File     string `json:"file,omitempty"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [catalog.xml]",
		Short: "List the playlists in the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.validConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			lib, err := library.Load(cmd.Context(), cfg.Library.Catalog, cfg.Playlists.Names, logger)
			if err != nil {
				return err
			}

			views := make([]playlistView, 0, lib.Playlists.Len())
			for _, playlist := range lib.Playlists.All() {
				view := playlistView{
					ID:       playlist.ID,
					Name:     playlist.Name,
					Tracks:   len(playlist.TrackIDs),
					Selected: playlist.Wanted,
				}
				if name, err := textutil.PlaylistFileName(playlist.Name, cfg.Output.Extension); err == nil {
					view.File = name
				}
				views = append(views, view)
			}

			if asJSON {
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No playlists found")
				return nil
			}
			rows := make([][]string, 0, len(views))
			for _, view := range views {
				rows = append(rows, []string{
					strconv.Itoa(view.ID),
					view.Name,
					strconv.Itoa(view.Tracks),
					yesNo(view.Selected),
					view.File,
				})
			}
			writeRows(out, []string{"ID", "Name", "Tracks", "Selected", "File"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft})
			for _, name := range lib.Playlists.Missing() {
				fmt.Fprintf(cmd.ErrOrStderr(), "requested playlist %q not found\n", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
