package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"voicegen/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent generation outcomes from the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Ledger.Enabled {
				return errors.New("the generation ledger is disabled (ledger.enabled = false)")
			}
			if _, err := os.Stat(cfg.Ledger.Path); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(cmd.OutOrStdout(), "No history recorded yet")
				return nil
			}

			store, err := ledger.Open(cmd.Context(), cfg.Ledger.Path)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			var entries []ledger.Entry
			if runID != "" {
				entries, err = store.ForRun(cmd.Context(), runID)
			} else {
				entries, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, historyJSON(entries))
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No history recorded yet")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.CreatedAt.Local().Format(time.DateTime),
					shortRunID(e.RunID),
					e.Label(),
					e.Status,
					strconv.FormatInt(e.Bytes, 10),
					e.Path,
					e.Error,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Time", "Run", "Job", "Status", "Bytes", "Path", "Error"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show every entry of one run")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type historyEntry struct {
	RunID      string  `json:"run_id"`
	Job        string  `json:"job"`
	Status     string  `json:"status"`
	Path       string  `json:"path"`
	Model      string  `json:"model,omitempty"`
	VoiceID    string  `json:"voice_id,omitempty"`
	Bytes      int64   `json:"bytes"`
	DurationS  float64 `json:"duration_seconds,omitempty"`
	Error      string  `json:"error,omitempty"`
	RecordedAt string  `json:"recorded_at"`
}

func historyJSON(entries []ledger.Entry) []historyEntry {
	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry{
			RunID:      e.RunID,
			Job:        e.Label(),
			Status:     e.Status,
			Path:       e.Path,
			Model:      e.Model,
			VoiceID:    e.VoiceID,
			Bytes:      e.Bytes,
			DurationS:  e.Duration.Seconds(),
			Error:      e.Error,
			RecordedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
