package main

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/prometheus/common/version"
	"github.com/spf13/cobra"
)

const program = "playlister"

func init() {
	if version.Version != "" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version.Version = info.Main.Version
	} else {
		version.Version = "dev"
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.Print(program))
			return nil
		},
	}
}

func printAbout(w io.Writer) {
	fmt.Fprintln(w, version.Print(program))
	fmt.Fprintln(w, "Converts iTunes library playlists into M3U files.")
}
