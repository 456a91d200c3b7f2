package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"voicegen/internal/config"
	"voicegen/internal/ledger"
	"voicegen/internal/logging"
	"voicegen/internal/manifest"
	"voicegen/internal/runner"
	"voicegen/internal/synth"
	"voicegen/internal/textutil"
)

func runBatch(cmd *cobra.Command, ctx *commandContext, flags batchFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}

	manifestPath, err := resolvePath(flags.manifest, cfg.Generation.Manifest)
	if err != nil {
		return err
	}
	outDir, err := resolvePath(flags.outDir, cfg.Generation.OutDir)
	if err != nil {
		return err
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	jobs, err := m.Jobs(outDir, manifest.JobOptions{Only: flags.only})
	if err != nil {
		return err
	}
	if !flags.dryRun {
		if err := cfg.RequireCredentials(); err != nil {
			return err
		}
	}

	synthesizer, err := synth.New(cfg, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	opts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithReporter(func(res runner.Result) {
			fmt.Fprintln(out, renderJobLine(res, colorize))
		}),
	}
	if cfg.Ledger.Enabled && !flags.dryRun {
		store, err := ledger.Open(cmd.Context(), cfg.Ledger.Path)
		if err != nil {
			logging.WarnWithContext(logger, "generation ledger unavailable", "ledger_open_failed",
				logging.Error(err),
				logging.String(logging.FieldPath, cfg.Ledger.Path),
				logging.String(logging.FieldImpact, "this run will not appear in voicegen history"),
			)
		} else {
			defer store.Close()
			opts = append(opts, runner.WithRecorder(store))
		}
	}

	summary, runErr := runner.New(synthesizer, opts...).Run(cmd.Context(), jobs, runner.Options{
		OutDir:            outDir,
		Overwrite:         flags.overwrite,
		DryRun:            flags.dryRun,
		FailFast:          flags.failFast || cfg.Generation.FailFast,
		RequestsPerSecond: cfg.Generation.RequestsPerSecond,
	})
	if summary != nil && len(summary.Results) > 0 {
		printSummary(out, summary)
	}
	if runErr != nil {
		return runErr
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d of %d jobs failed", summary.Failed, summary.Planned)
	}
	return nil
}

func resolvePath(flagValue, fallback string) (string, error) {
	value := flagValue
	if value == "" {
		value = fallback
	}
	expanded, err := config.ExpandPath(value)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", value, err)
	}
	return expanded, nil
}

func printSummary(out io.Writer, summary *runner.Summary) {
	fmt.Fprintln(out)
	headers := []string{"Planned", "Generated", "Skipped", "Failed"}
	row := []string{
		strconv.Itoa(summary.Planned),
		strconv.Itoa(summary.Generated),
		strconv.Itoa(summary.Skipped),
		strconv.Itoa(summary.Failed),
	}
	aligns := []columnAlignment{alignRight, alignRight, alignRight, alignRight}
	fmt.Fprintln(out, renderTable(headers, [][]string{row}, aligns))
	fmt.Fprintf(out, "%s %s\n", textutil.Ternary(summary.DryRun, "dry run", "run"), summary.RunID)
}
