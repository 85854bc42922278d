// Package main hosts the playlister CLI entrypoint and command graph.
//
// The root command converts an iTunes or Music library export into M3U
// playlists. Subcommands list the playlists in a catalog, show the run
// history, scaffold and validate configuration, and print build details.
// Flags override the matching configuration keys for a single invocation.
//
// Keep this package lean: conversion logic belongs in internal/convert and
// the packages it drives; commands here only resolve configuration and
// render results.
package main
