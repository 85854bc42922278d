package main

import (
	"fmt"
	"io"
	"strconv"

	"playlister/internal/convert"
)

func renderResults(w io.Writer, summary *convert.Summary) {
	rows := make([][]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		rows = append(rows, []string{
			string(result.Status),
			result.Name,
			strconv.Itoa(result.Written),
			strconv.Itoa(result.Skipped),
			result.File,
		})
	}
	writeRows(w, []string{"Status", "Playlist", "Entries", "Skipped", "File"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft})

	if isTerminal(w) {
		fmt.Fprintf(w, "%d of %d playlists written, %d entries, %d warnings (run %s)\n",
			summary.Written(), len(summary.Results), summary.Entries(), summary.Warnings(), summary.RunID)
	}
}
