package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"playlister/internal/convert"
)

type rootFlags struct {
	config     string
	catalog    string
	remove     string
	replace    string
	output     string
	extension  string
	format     string
	verify     bool
	verifyPath string
	randomize  bool
	lists      []string
	noList     bool
	verbose    int
	quiet      int
	logFormat  string
	about      bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:   "playlister [catalog.xml]",
		Short: "Convert iTunes library playlists into M3U files",
		Long: `playlister reads an iTunes or Music "Library.xml" export and writes one M3U
file per playlist, rewriting track locations so they resolve on this machine.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.about || shouldSkipConfig(cmd) {
				return nil
			}
			if len(args) == 1 && flags.catalog == "" {
				flags.catalog = args[0]
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.about {
				printAbout(cmd.OutOrStdout())
				return nil
			}
			return runConvert(cmd, ctx)
		},
	}

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	persistent.StringVarP(&flags.catalog, "xml", "x", "", "Library XML export to read")
	persistent.StringArrayVarP(&flags.lists, "list", "l", nil, "Only process the named playlist (repeatable)")
	persistent.BoolVar(&flags.noList, "nolist", false, "Ignore playlist names from the configuration file")
	persistent.CountVarP(&flags.verbose, "verbose", "v", "Increase log verbosity (repeatable)")
	persistent.CountVarP(&flags.quiet, "quiet", "q", "Decrease log verbosity (repeatable)")
	persistent.StringVar(&flags.logFormat, "log-format", "", "Log format: console or json")

	local := rootCmd.Flags()
	local.StringVarP(&flags.remove, "rempath", "r", "", "Prefix removed from every track location")
	local.StringVarP(&flags.replace, "newpath", "n", "", "Prefix prepended to every rewritten track path")
	local.StringVarP(&flags.output, "output", "o", "", "Directory that receives the playlist files")
	local.StringVarP(&flags.extension, "extension", "X", "", "Playlist file extension")
	local.StringVar(&flags.format, "format", "", "Playlist format: m3u or extm3u")
	local.BoolVar(&flags.verify, "verify", false, "Drop tracks missing on disk, correcting letter case when possible")
	local.StringVar(&flags.verifyPath, "verify-path", "", "Prefix used to probe track files (defaults to --newpath)")
	local.BoolVar(&flags.randomize, "randomize", false, "Shuffle the track order of every playlist")
	local.BoolVar(&flags.about, "about", false, "Print version information and exit")

	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func runConvert(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.validConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, runErr := convert.Run(runCtx, cfg, logger)
	if summary != nil && len(summary.Results) > 0 {
		renderResults(cmd.OutOrStdout(), summary)
	}
	if runErr != nil {
		return runErr
	}
	if summary.Warnings() > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "completed with %d warning(s); see log output\n", summary.Warnings())
	}
	return nil
}
