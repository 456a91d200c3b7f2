// Package main hosts the voicegen CLI entrypoint and command graph.
//
// The root command runs a batch: it loads the manifest, resolves jobs, and
// hands them to the runner, printing one status line per job and a summary
// table. Subcommands list the vendor voice catalogue, show generation
// history from the ledger, and scaffold or validate configuration. The
// package centralizes configuration resolution, flag overrides and logger
// construction so commands stay declarative while the work lives in the
// internal packages.
package main
