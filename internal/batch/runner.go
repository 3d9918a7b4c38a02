package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"curator/internal/classify"
	"curator/internal/logging"
	"curator/internal/metadata"
	"curator/internal/services"
)

// ErrRunLocked is returned when another run holds the state directory lock.
var ErrRunLocked = errors.New("another curator run is already in progress")

// Manifest is the complete output of one run.
type Manifest struct {
	RunID          string                `json:"run_id"`
	StartedAt      time.Time             `json:"started_at"`
	FinishedAt     time.Time             `json:"finished_at"`
	Rules          string                `json:"rules"`
	Results        []classify.Result     `json:"results"`
	Stats          classify.Snapshot     `json:"stats"`
	Sources        []metadata.CacheStats `json:"sources,omitempty"`
	CategoryCounts map[string]int        `json:"category_counts,omitempty"`
}

// Runner classifies inputs with an Environment.
type Runner struct {
	env      *Environment
	logger   *slog.Logger
	now      func() time.Time
	newRunID func() string
	classify func(context.Context, metadata.Record) classify.Result
}

// NewRunner creates a runner over env.
func NewRunner(env *Environment, logger *slog.Logger) *Runner {
	return &Runner{
		env:      env,
		logger:   logging.NewComponentLogger(logger, "batch"),
		now:      time.Now,
		newRunID: uuid.NewString,
		classify: env.Engine.Classify,
	}
}

// Run classifies every input in order under the run lock. When ctx is
// cancelled the remaining inputs are recorded as skipped and the partial
// manifest is returned together with the context error.
func (r *Runner) Run(ctx context.Context, inputs []Input) (*Manifest, error) {
	lockPath := r.env.Config.LockPath()
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrRunLocked, lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	runID := r.newRunID()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)
	manifest := &Manifest{
		RunID:     runID,
		StartedAt: r.now().UTC(),
		Rules:     r.env.Rules.Source,
		Results:   make([]classify.Result, 0, len(inputs)),
	}
	logger.Info("classification run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("files", len(inputs)),
		logging.Int("sources", len(r.env.Sources)),
	)

	for _, input := range inputs {
		if err := ctx.Err(); err != nil && input.Err == nil {
			input.Err = err
		}
		manifest.Results = append(manifest.Results, r.classifyOne(ctx, input))
	}

	manifest.FinishedAt = r.now().UTC()
	manifest.Stats = r.env.Engine.Stats().Snapshot()
	manifest.Sources = r.env.SourceStats()
	manifest.CategoryCounts = r.env.Engine.Caps().Snapshot().Map()

	logger.Info("classification run finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("files", manifest.Stats.Total),
		logging.Int("errors", manifest.Stats.Errors),
		logging.Duration("elapsed", manifest.FinishedAt.Sub(manifest.StartedAt)),
	)
	return manifest, ctx.Err()
}

func (r *Runner) classifyOne(ctx context.Context, input Input) (result classify.Result) {
	rec := input.Record
	if input.Err != nil {
		return r.env.Engine.RecordError(ctx, rec, input.Err)
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			err := fmt.Errorf("panic during classification: %v", recovered)
			logging.ErrorWithContext(logging.WithContext(ctx, r.logger), "classification panicked", "classification_panic",
				logging.String(logging.FieldFile, rec.Filename),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "report the file and rules that triggered the panic"),
			)
			result = r.env.Engine.RecordError(ctx, rec, err)
		}
	}()
	return r.classify(ctx, rec)
}
