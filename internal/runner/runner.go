package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"voicegen/internal/audio"
	"voicegen/internal/fileutil"
	"voicegen/internal/ledger"
	"voicegen/internal/logging"
	"voicegen/internal/manifest"
	"voicegen/internal/services"
	"voicegen/internal/synth"
	"voicegen/internal/textutil"
)

// Recorder persists job outcomes.
type Recorder interface {
	Record(ctx context.Context, entry ledger.Entry) error
}

// Runner processes jobs sequentially against a Synthesizer.
type Runner struct {
	synth    synth.Synthesizer
	logger   *slog.Logger
	recorder Recorder
	report   func(Result)
	newRunID func() string
}

// Option customizes the runner.
type Option func(*Runner)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRecorder attaches a ledger.
func WithRecorder(recorder Recorder) Option {
	return func(r *Runner) {
		r.recorder = recorder
	}
}

// WithReporter registers a callback invoked after every job.
func WithReporter(report func(Result)) Option {
	return func(r *Runner) {
		r.report = report
	}
}

// WithRunIDGenerator overrides run ID generation (useful for tests).
func WithRunIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newRunID = fn
		}
	}
}

// New constructs a runner.
func New(s synth.Synthesizer, opts ...Option) *Runner {
	r := &Runner{
		synth:    s,
		logger:   logging.NewNop(),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "runner")
	return r
}

// Run processes jobs in order. The returned error is non-nil only when the
// batch was aborted: lock contention, cancellation, or the first failure
// under FailFast. Individual failures otherwise live in the Summary.
func (r *Runner) Run(ctx context.Context, jobs []manifest.Job, opts Options) (*Summary, error) {
	summary := &Summary{RunID: r.newRunID(), DryRun: opts.DryRun}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)

	if strings.TrimSpace(opts.OutDir) == "" {
		return summary, services.Wrap(services.ErrConfiguration, "runner", "run", "output directory is required", nil)
	}

	if !opts.DryRun {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return summary, services.Wrap(services.ErrIO, "runner", "run", "create output directory", err)
		}
		lock, err := acquireLock(opts.OutDir)
		if err != nil {
			return summary, err
		}
		defer func() { _ = lock.Unlock() }()
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 && !opts.DryRun {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	logger.Info("batch started",
		logging.Int("jobs", len(jobs)),
		logging.String("out_dir", opts.OutDir),
		logging.Bool("dry_run", opts.DryRun),
		logging.Bool("overwrite", opts.Overwrite),
	)
	started := time.Now()

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			logger.Warn("batch cancelled", logging.Int("remaining", len(jobs)-summary.Planned))
			return summary, err
		}

		jobCtx := services.WithRequestID(services.WithJob(ctx, job.Label()), uuid.NewString())
		result := r.runJob(jobCtx, job, opts, limiter)
		summary.add(result)
		r.record(jobCtx, result)
		if r.report != nil {
			r.report(result)
		}

		if result.Status == StatusFailed {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(result.Err, ctxErr) {
				return summary, ctxErr
			}
			if opts.FailFast {
				logger.Warn("stopping at first failure", logging.String("job", job.Label()))
				return summary, fmt.Errorf("%s: %w", job.Label(), result.Err)
			}
		}
	}

	logger.Info("batch finished",
		logging.Int("planned", summary.Planned),
		logging.Int("generated", summary.Generated),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", time.Since(started)),
	)
	return summary, nil
}

func (r *Runner) runJob(ctx context.Context, job manifest.Job, opts Options, limiter *rate.Limiter) Result {
	logger := logging.WithContext(ctx, r.logger)
	result := Result{Job: job, Path: job.Path}

	exists, err := fileutil.Exists(job.Path)
	if err != nil {
		return r.fail(logger, result, services.Wrap(services.ErrIO, "runner", "stat", job.Path, err))
	}
	if exists && !opts.Overwrite {
		result.Status = StatusSkipped
		logger.Debug("output exists; skipping", logging.String(logging.FieldPath, job.Path))
		return result
	}
	if opts.DryRun {
		result.Status = StatusPlanned
		return result
	}

	if err := os.MkdirAll(filepath.Dir(job.Path), 0o755); err != nil {
		return r.fail(logger, result, services.Wrap(services.ErrIO, "runner", "mkdir", filepath.Dir(job.Path), err))
	}
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return r.fail(logger, result, err)
		}
	}

	callStarted := time.Now()
	res, err := r.synth.Synthesize(ctx, requestFor(job))
	if err != nil {
		return r.fail(logger, result, err)
	}
	if err := fileutil.WriteFileAtomic(job.Path, res.Audio, 0o644); err != nil {
		return r.fail(logger, result, services.Wrap(services.ErrIO, "runner", "write", job.Path, err))
	}

	result.Status = StatusGenerated
	result.Bytes = int64(len(res.Audio))
	if d, err := audio.Duration(job.OutputFormat, res.Audio); err == nil {
		result.Duration = d
	} else if !errors.Is(err, audio.ErrUnsupported) {
		logger.Debug("audio duration probe failed", logging.Error(err))
	}

	logger.Info("audio generated",
		logging.String(logging.FieldPath, job.Path),
		logging.Int64("bytes", result.Bytes),
		logging.Duration("request_time", time.Since(callStarted)),
	)
	return result
}

func (r *Runner) fail(logger *slog.Logger, result Result, err error) Result {
	result.Status = StatusFailed
	result.Err = err
	attrs := []logging.Attr{
		logging.String(logging.FieldPath, result.Path),
		logging.String("error_kind", services.Kind(err)),
		logging.String(logging.FieldErrorHint, hintFor(err)),
		logging.Error(err),
	}
	if status := services.HTTPStatus(err); status > 0 {
		attrs = append(attrs, logging.Int("http_status", status))
	}
	logging.ErrorWithContext(logger, "job failed", "job_failed", attrs...)
	return result
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, services.ErrTransient):
		return "the vendor is rate limiting or unavailable; rerun later and finished files will be skipped"
	case errors.Is(err, services.ErrConfiguration):
		return "check the manifest and configuration values"
	case errors.Is(err, services.ErrExternalService):
		return "check the API key, voice id and vendor status"
	case errors.Is(err, services.ErrIO):
		return "check output directory permissions and free space"
	default:
		return "check logs for details"
	}
}

func (r *Runner) record(ctx context.Context, result Result) {
	if r.recorder == nil {
		return
	}
	runID, _ := services.RunIDFromContext(ctx)
	entry := ledger.Entry{
		RunID:    runID,
		Set:      result.Job.Set,
		Key:      result.Job.Key,
		Path:     result.Path,
		Model:    result.Job.Model,
		VoiceID:  result.Job.VoiceID,
		TextSHA1: textutil.ShortHash(result.Job.Text, 0),
		Status:   string(result.Status),
		Bytes:    result.Bytes,
		Duration: result.Duration,
	}
	if result.Err != nil {
		entry.Error = result.Err.Error()
	}
	if err := r.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "ledger write failed", "ledger_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "generation history is incomplete for this run"),
		)
	}
}

func requestFor(job manifest.Job) synth.Request {
	req := synth.Request{
		Text:     job.Text,
		Model:    job.Model,
		VoiceID:  job.VoiceID,
		Language: job.Language,
		Format:   job.OutputFormat,
		Seed:     job.Seed,
		Prompt: synth.Prompt{
			EmotionIntensity: job.Prompt.EmotionIntensity,
		},
		Output: synth.Output{
			Volume:     job.Output.Volume,
			AudioPitch: job.Output.AudioPitch,
			AudioTempo: job.Output.AudioTempo,
		},
	}
	if job.Prompt.EmotionPreset != nil {
		req.Prompt.EmotionPreset = *job.Prompt.EmotionPreset
	}
	return req
}
