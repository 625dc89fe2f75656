package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alejandroruanova/cleansetext/internal/core/services/cleanse"
	"github.com/alejandroruanova/cleansetext/internal/core/services/deduplication"
	"github.com/alejandroruanova/cleansetext/internal/core/services/tokenize"
	"github.com/alejandroruanova/cleansetext/internal/infrastructure/parsers"
	"github.com/alejandroruanova/cleansetext/internal/pkg/config"
	"github.com/alejandroruanova/cleansetext/internal/pkg/logger"
	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

// documentResult is the cleaned form of one input document.
type documentResult struct {
	Index   int          `json:"index" yaml:"index"`
	Text    string       `json:"text" yaml:"text"`
	Tokens  []string     `json:"tokens" yaml:"tokens"`
	Cleaned []string     `json:"cleaned" yaml:"cleaned"`
	Trace   *cleanse.Run `json:"trace,omitempty" yaml:"trace,omitempty"`

	// explained is the step-by-step trace of this document's run, text output only
	explained string
}

type cleanOutput struct {
	Pipeline    []string         `json:"pipeline" yaml:"pipeline"`
	Documents   []documentResult `json:"documents" yaml:"documents"`
	DuplicateOf map[int]int      `json:"duplicate_of,omitempty" yaml:"duplicate_of,omitempty"`
}

func newCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [text...]",
		Short: "Tokenize and clean text",
		Long: `Clean each argument as a separate document. With --file, every record of
the file is a document (one line for .txt, one row for .csv/.xlsx, one object
for .json/.jsonl). Without either, lines are read from stdin.

The pipeline comes from --steps, then pipeline.steps in the config file,
then the named preset.`,
		RunE: runClean,
	}

	flags := cmd.Flags()
	flags.StringP("file", "f", "", "corpus file: .txt, .csv, .json, .jsonl, .ndjson, .xlsx")
	flags.String("field", "", "record field holding the text (default from config: text)")
	flags.StringP("preset", "p", "", "preset name (see 'cleansetext presets')")
	flags.StringSlice("steps", nil, "comma separated step names, overrides preset and config")
	flags.Bool("diffs", false, "record and print the before/after of every step")
	flags.Bool("explain", false, "print the pipeline explanation")
	flags.Bool("lowercase", false, "lowercase tokens before cleaning")
	flags.String("language", "", "default language for stopword and stemming steps")
	flags.String("lexicon-dir", "", "directory of stopword lists, one file per language")
	flags.String("dedupe", "", "drop documents whose cleaned tokens repeat: exact or normalized")
	flags.Lookup("dedupe").NoOptDefVal = string(deduplication.StrategyExact)

	return cmd
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyCleanFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	pipeline, err := buildPipeline(cmd, cfg, logger.NewServiceLogger("cleanse"))
	if err != nil {
		return err
	}

	texts, err := readDocuments(cmd, cfg, args)
	if err != nil {
		return err
	}
	log.Debug("documents loaded", slog.Int("count", len(texts)))

	var tokOpts []tokenize.Option
	if lower, _ := cmd.Flags().GetBool("lowercase"); lower {
		tokOpts = append(tokOpts, tokenize.WithLowercase())
	}
	tokenizer := tokenize.New(tokOpts...)

	explain, _ := cmd.Flags().GetBool("explain")
	traceText := explain && pipeline.TracksDiffs() && cfg.OutputFormat == config.FormatText

	results := make([]documentResult, len(texts))
	for i, text := range texts {
		tokens := tokenizer.Tokenize(text)
		results[i] = documentResult{
			Index:   i + 1,
			Text:    text,
			Tokens:  tokens,
			Cleaned: pipeline.Process(tokens),
		}
		if pipeline.TracksDiffs() {
			run, err := pipeline.LastRun()
			if err != nil {
				return err
			}
			results[i].Trace = &run
		}
		if traceText {
			// Explain only sees the latest run, so render it before the next document
			if results[i].explained, err = pipeline.ExplainString(true); err != nil {
				return err
			}
		}
	}

	var duplicateOf map[int]int
	if cmd.Flags().Changed("dedupe") {
		results, duplicateOf, err = dedupeResults(cmd, results, logger.NewServiceLogger("deduplication"))
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()

	if cfg.OutputFormat != config.FormatText {
		output := cleanOutput{Pipeline: pipeline.GetPipelineSteps(), Documents: results, DuplicateOf: duplicateOf}
		if explain {
			output.Pipeline = explainLines(pipeline)
		}
		return writeStructured(out, cfg.OutputFormat, output)
	}

	return writeCleanText(out, pipeline, results, explain)
}

func applyCleanFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("preset") {
		cfg.Preset, _ = flags.GetString("preset")
		// an explicit preset beats the config file pipeline
		cfg.Steps = nil
	}
	if flags.Changed("steps") {
		names, _ := flags.GetStringSlice("steps")
		cfg.Steps = make([]config.StepConfig, len(names))
		for i, name := range names {
			cfg.Steps[i] = config.StepConfig{Name: strings.TrimSpace(name)}
		}
	}
	if flags.Changed("diffs") {
		cfg.TrackDiffs, _ = flags.GetBool("diffs")
	}
	if flags.Changed("field") {
		cfg.TextField, _ = flags.GetString("field")
	}
	if flags.Changed("language") {
		cfg.Language, _ = flags.GetString("language")
	}
	if flags.Changed("lexicon-dir") {
		cfg.LexiconDir, _ = flags.GetString("lexicon-dir")
	}
}

func buildPipeline(cmd *cobra.Command, cfg *config.Config, log *slog.Logger) (*cleanse.Pipeline, error) {
	opts, err := stepOptions(cfg)
	if err != nil {
		return nil, err
	}

	var steps []cleanse.Step
	if cfg.HasCustomSteps() {
		specs := make([]cleanse.StepSpec, len(cfg.Steps))
		for i, s := range cfg.Steps {
			specs[i] = cleanse.StepSpec{Name: s.Name, Config: s.Config}
		}
		steps, err = cleanse.BuildSteps(specs, opts)
	} else {
		steps, err = cleanse.BuildPreset(cfg.Preset, opts)
	}
	if err != nil {
		return nil, err
	}

	pipelineOpts := []cleanse.PipelineOption{cleanse.WithLogger(log)}
	if cfg.TrackDiffs {
		pipelineOpts = append(pipelineOpts, cleanse.WithDiffTracking())
	}
	return cleanse.NewPipeline(steps, pipelineOpts...), nil
}

func readDocuments(cmd *cobra.Command, cfg *config.Config, args []string) ([]string, error) {
	file, _ := cmd.Flags().GetString("file")
	if file != "" && len(args) > 0 {
		return nil, apperrors.Usage("pass either text arguments or --file, not both")
	}
	if len(args) > 0 {
		return args, nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	parserConfig := parsers.DefaultParserConfig()
	parserConfig.MaxFileSize = cfg.MaxFileSizeBytes()

	var result *parsers.ParseResult
	var err error
	if file != "" {
		result, err = parsers.NewParserFactory(parserConfig).ParseFile(ctx, file)
	} else {
		result, err = parsers.NewTextParser(parserConfig).ParseStream(ctx, cmd.InOrStdin())
	}
	if err != nil {
		return nil, err
	}

	field := cfg.TextField
	if result.Format == "TXT" {
		field = parsers.DefaultTextField
	}
	return result.Texts(field)
}

// dedupeResults keeps the first document of every group with equal cleaned tokens.
func dedupeResults(cmd *cobra.Command, results []documentResult, log *slog.Logger) ([]documentResult, map[int]int, error) {
	name, _ := cmd.Flags().GetString("dedupe")
	strategy, err := deduplication.ParseStrategy(name)
	if err != nil {
		return nil, nil, apperrors.InvalidConfigWrap(err, "invalid --dedupe value")
	}

	docs := make([]deduplication.Document, len(results))
	for i, r := range results {
		docs[i] = deduplication.Document{Index: r.Index, Tokens: r.Cleaned}
	}

	service := deduplication.NewService(deduplication.Config{Strategy: strategy}, log)
	dedup, err := service.Deduplicate(docs)
	if err != nil {
		return nil, nil, err
	}

	// Index is 1-based and matches the position in results
	kept := make([]documentResult, 0, len(dedup.Documents))
	for _, d := range dedup.Documents {
		kept = append(kept, results[d.Index-1])
	}
	log.Info("duplicates removed", slog.Int("removed", dedup.RemovedCount))
	return kept, dedup.DuplicateOf, nil
}

func explainLines(pipeline *cleanse.Pipeline) []string {
	steps := pipeline.Steps()
	lines := make([]string, len(steps))
	for i, step := range steps {
		lines[i] = fmt.Sprintf("Step %d: %s", i+1, step.Explain())
	}
	return lines
}

// writeCleanText prints one line per document. With --explain and --diffs each line is
// followed by its "Step <n>" / "Diff:" trace; --explain alone prints the steps once up front.
func writeCleanText(w io.Writer, pipeline *cleanse.Pipeline, results []documentResult, explain bool) error {
	if explain && !pipeline.TracksDiffs() {
		if err := pipeline.Explain(w, false); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	for _, r := range results {
		fmt.Fprintln(w, strings.Join(r.Cleaned, " "))
		if explain && r.explained != "" {
			fmt.Fprint(w, r.explained)
			continue
		}
		if r.Trace == nil {
			continue
		}
		for i, d := range r.Trace.Diffs {
			fmt.Fprintf(w, "  %d. %s: %s -> %s\n", i+1, d.Step,
				cleanse.FormatTokens(d.Before), cleanse.FormatTokens(d.After))
		}
	}
	return nil
}
