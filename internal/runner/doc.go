// Package runner executes resolved manifest jobs strictly in order.
//
// For every job the runner checks whether the output already exists (skip
// unless overwriting), reports a plan entry in dry-run mode, or calls the
// configured synth.Synthesizer and writes the returned audio atomically.
// Failures are recorded per job; the batch continues unless fail-fast is
// requested, and context cancellation always aborts. Real runs hold an
// exclusive lock on the output directory, throttle vendor calls with a token
// bucket, stamp every log line with a run ID and, when a Recorder is
// attached, persist each outcome to the generation ledger.
package runner
