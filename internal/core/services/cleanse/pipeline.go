package cleanse

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

var (
	// ErrDiffTrackingDisabled is returned when diffs are requested from a pipeline built without WithDiffTracking.
	ErrDiffTrackingDisabled = apperrors.Usage("diff tracking was not enabled")

	// ErrNoRunRecorded is returned when diffs are requested before any Process call.
	ErrNoRunRecorded = apperrors.Usage("no run recorded yet, call Process first")
)

// Diff is the before/after state of one step during one Process call.
type Diff struct {
	Step   string   `json:"step" yaml:"step"`
	Before []string `json:"before" yaml:"before"`
	After  []string `json:"after" yaml:"after"`
}

// Run is the set of diffs recorded by one Process call, one per step in step order.
type Run struct {
	ID    uuid.UUID `json:"id" yaml:"id"`
	Diffs []Diff    `json:"diffs" yaml:"diffs"`
}

func (r Run) clone() Run {
	diffs := make([]Diff, len(r.Diffs))
	for i, d := range r.Diffs {
		diffs[i] = Diff{Step: d.Step, Before: cloneTokens(d.Before), After: cloneTokens(d.After)}
	}
	return Run{ID: r.ID, Diffs: diffs}
}

// PipelineOption configures a Pipeline at construction.
type PipelineOption func(p *Pipeline)

// WithDiffTracking makes every Process call append a Run to the pipeline history.
func WithDiffTracking() PipelineOption {
	return func(p *Pipeline) {
		p.trackDiffs = true
	}
}

// WithLogger sets the logger used for per-step debug logging.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline applies an ordered, fixed list of steps to token sequences.
// A Pipeline is not safe for concurrent use when diff tracking is enabled.
type Pipeline struct {
	steps      []Step
	trackDiffs bool
	history    []Run
	logger     *slog.Logger
}

// NewPipeline creates a pipeline. The step order given here is the execution order
// and cannot be changed afterwards.
func NewPipeline(steps []Step, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		steps:  append([]Step(nil), steps...),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process applies every step once, in order, and returns the final tokens.
func (p *Pipeline) Process(tokens []string) []string {
	var run Run
	if p.trackDiffs {
		run = Run{ID: uuid.New(), Diffs: make([]Diff, 0, len(p.steps))}
	}

	current := cloneTokens(tokens)
	for i, step := range p.steps {
		out := step.Process(current)

		p.logger.Debug("step applied",
			slog.Int("step", i+1),
			slog.String("name", step.Name()),
			slog.Int("tokens_in", len(current)),
			slog.Int("tokens_out", len(out)))

		if p.trackDiffs {
			run.Diffs = append(run.Diffs, Diff{
				Step:   step.Name(),
				Before: cloneTokens(current),
				After:  cloneTokens(out),
			})
		}
		current = out
	}

	if p.trackDiffs {
		p.history = append(p.history, run)
	}

	return current
}

// CleanBatch processes each token sequence independently.
// With diff tracking enabled every item appends its own run.
func (p *Pipeline) CleanBatch(batch [][]string) [][]string {
	results := make([][]string, len(batch))
	for i, tokens := range batch {
		results[i] = p.Process(tokens)
	}
	return results
}

// Explain writes "Step <n>: <explain>" for each step. With showDiffs it also writes
// "Diff: <before> -> <after>" from the most recent run.
func (p *Pipeline) Explain(w io.Writer, showDiffs bool) error {
	var run Run
	if showDiffs {
		last, err := p.lastRun()
		if err != nil {
			return err
		}
		run = last
	}

	for i, step := range p.steps {
		if _, err := fmt.Fprintf(w, "Step %d: %s\n", i+1, step.Explain()); err != nil {
			return fmt.Errorf("failed to write explanation: %w", err)
		}
		if showDiffs {
			d := run.Diffs[i]
			if _, err := fmt.Fprintf(w, "Diff: %s -> %s\n", FormatTokens(d.Before), FormatTokens(d.After)); err != nil {
				return fmt.Errorf("failed to write explanation: %w", err)
			}
		}
	}

	return nil
}

// ExplainString is Explain into a string.
func (p *Pipeline) ExplainString(showDiffs bool) (string, error) {
	var b strings.Builder
	if err := p.Explain(&b, showDiffs); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Steps returns the pipeline steps in execution order.
func (p *Pipeline) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// GetPipelineSteps returns the step names in execution order.
func (p *Pipeline) GetPipelineSteps() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// TracksDiffs reports whether the pipeline records a run per Process call.
func (p *Pipeline) TracksDiffs() bool {
	return p.trackDiffs
}

// History returns a copy of every recorded run, oldest first.
func (p *Pipeline) History() []Run {
	runs := make([]Run, len(p.history))
	for i, r := range p.history {
		runs[i] = r.clone()
	}
	return runs
}

// LastRun returns a copy of the most recent run.
func (p *Pipeline) LastRun() (Run, error) {
	run, err := p.lastRun()
	if err != nil {
		return Run{}, err
	}
	return run.clone(), nil
}

func (p *Pipeline) lastRun() (Run, error) {
	if !p.trackDiffs {
		return Run{}, ErrDiffTrackingDisabled
	}
	if len(p.history) == 0 {
		return Run{}, ErrNoRunRecorded
	}
	return p.history[len(p.history)-1], nil
}
