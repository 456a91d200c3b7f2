package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"voicegen/internal/runner"
	"voicegen/internal/synth"
)

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	var model string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List the provider's voice catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVoices(cmd, ctx, model, jsonOutput)
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Only list voices for this model")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func runVoices(cmd *cobra.Command, ctx *commandContext, model string, jsonOutput bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireCredentials(); err != nil {
		return err
	}
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}
	synthesizer, err := synth.New(cfg, logger)
	if err != nil {
		return err
	}

	voices, err := runner.ListVoices(cmd.Context(), synthesizer, model)
	if err != nil {
		return err
	}
	if jsonOutput {
		if voices == nil {
			voices = []synth.Voice{}
		}
		return writeJSON(cmd, voices)
	}

	out := cmd.OutOrStdout()
	if len(voices) == 0 {
		fmt.Fprintln(out, "No voices found")
		return nil
	}
	rows := make([][]string, 0, len(voices))
	for _, v := range voices {
		rows = append(rows, []string{v.ID, v.Name, v.Model, v.Language, strings.Join(v.Emotions, ", ")})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Voice ID", "Name", "Model", "Language", "Emotions"},
		rows,
		nil,
	))
	fmt.Fprintf(out, "%d voices\n", len(voices))
	return nil
}
