package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type batchFlags struct {
	manifest   string
	outDir     string
	overwrite  bool
	dryRun     bool
	failFast   bool
	only       []string
	listVoices bool
	model      string
	jsonOutput bool
}

func newRootCommand() *cobra.Command {
	var configFlag, providerFlag, apiKeyFlag string
	var flags batchFlags

	ctx := newCommandContext(&configFlag, &providerFlag, &apiKeyFlag)

	rootCmd := &cobra.Command{
		Use:   "voicegen",
		Short: "Batch-generate voice lines with a text-to-speech vendor",
		Long: "voicegen reads a YAML manifest of voice lines and writes one audio file per line,\n" +
			"skipping files that already exist unless --overwrite is given.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.listVoices {
				return runVoices(cmd, ctx, flags.model, flags.jsonOutput)
			}
			for _, name := range []string{"model", "json"} {
				if cmd.Flags().Changed(name) {
					return fmt.Errorf("--%s only applies with --list-voices", name)
				}
			}
			return runBatch(cmd, ctx, flags)
		},
	}

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	persistent.StringVar(&providerFlag, "provider", "", "Synthesis provider (typecast or elevenlabs)")
	persistent.StringVar(&apiKeyFlag, "api-key", "", "API key for the selected provider (overrides config and environment)")

	local := rootCmd.Flags()
	local.StringVar(&flags.manifest, "manifest", "", "Path to the YAML manifest (default from config: voice_sets.yaml)")
	local.StringVar(&flags.outDir, "out", "", "Output directory (default from config: out_audio)")
	local.BoolVar(&flags.overwrite, "overwrite", false, "Regenerate files that already exist")
	local.BoolVar(&flags.dryRun, "dry-run", false, "Print planned outputs without calling the API")
	local.BoolVar(&flags.failFast, "fail-fast", false, "Stop at the first failed job")
	local.StringArrayVar(&flags.only, "only", nil, "Only process the named set (repeatable)")
	local.BoolVar(&flags.listVoices, "list-voices", false, "List available voices instead of generating")
	local.StringVar(&flags.model, "model", "", "Filter voices by model (with --list-voices)")
	local.BoolVar(&flags.jsonOutput, "json", false, "Print the voice list as JSON (with --list-voices)")

	rootCmd.AddCommand(newVoicesCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
