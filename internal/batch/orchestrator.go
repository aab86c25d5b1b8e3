package batch

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"subsync/internal/ass"
	"subsync/internal/config"
	"subsync/internal/episode"
	"subsync/internal/history"
	"subsync/internal/logging"
	"subsync/internal/matcher"
	"subsync/internal/merge"
	"subsync/internal/services"
	"subsync/internal/textenc"
	"subsync/internal/transfer"
	"subsync/internal/transform"
)

// Journal records pair outcomes.
type Journal interface {
	Record(ctx context.Context, entry history.Entry) (int64, error)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithJournal records every pair outcome in journal.
func WithJournal(journal Journal) Option {
	return func(o *Orchestrator) { o.journal = journal }
}

// WithTransform toggles the document transform. Disabled, subtitle files
// are copied verbatim.
func WithTransform(enabled bool) Option {
	return func(o *Orchestrator) { o.transform = enabled }
}

// WithDryRun matches and reports without writing or uploading.
func WithDryRun(enabled bool) Option {
	return func(o *Orchestrator) { o.dryRun = enabled }
}

// WithDetector replaces the statistical encoding detector.
func WithDetector(detector textenc.Detector) Option {
	return func(o *Orchestrator) { o.resolver = textenc.NewResolver(detector) }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(o *Orchestrator) { o.runID = id }
}

// Orchestrator runs batch operations. It processes one pair at a time.
type Orchestrator struct {
	cfg         *config.Config
	client      transfer.Client
	journal     Journal
	logger      *slog.Logger
	ident       *episode.Identifier
	resolver    *textenc.Resolver
	transformer *transform.Transformer
	merger      *merge.Merger
	transform   bool
	dryRun      bool
	runID       string
}

// New builds an orchestrator. client may be nil for merge-only work.
func New(cfg *config.Config, client transfer.Client, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "batch", "init", "config is required", nil)
	}
	ident, err := episode.New(cfg.Files.TVEpisodePattern)
	if err != nil {
		return nil, err
	}
	template, err := ass.LoadTemplate(cfg.Subtitles.DefaultStylePath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "batch", "load style template", cfg.Subtitles.DefaultStylePath, err)
	}

	o := &Orchestrator{
		cfg:       cfg,
		client:    client,
		ident:     ident,
		resolver:  textenc.NewResolver(nil),
		transform: true,
		transformer: transform.New(transform.Options{
			OtherFontSize:      cfg.Subtitles.OtherFontSize,
			BottomFontSize:     cfg.Subtitles.BottomFontSize,
			Template:           template,
			KeepExistingStyles: !cfg.Subtitles.TemplateOverwrite,
		}),
		merger: merge.New(merge.Options{
			PrimaryStyle:       cfg.Merge.PrimaryStyle,
			SecondaryStyle:     cfg.Merge.SecondaryStyle,
			Template:           template,
			KeepExistingStyles: !cfg.Subtitles.TemplateOverwrite,
		}),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	o.logger = logging.NewComponentLogger(o.logger, "batch")
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	return o, nil
}

// RunID returns the identifier used for logs and journal entries.
func (o *Orchestrator) RunID() string { return o.runID }

// ProcessPair processes one subtitle for the media file at the remote path
// mediaPath.
func (o *Orchestrator) ProcessPair(ctx context.Context, mediaPath, subPath string) (*Report, error) {
	release, err := o.begin()
	if err != nil {
		return nil, err
	}
	defer release()

	ctx = o.runContext(ctx)
	report := o.newReport("pair")
	key, _ := o.ident.Key(path.Base(mediaPath))
	result := o.processPair(ctx, report.Operation, key, path.Dir(mediaPath), path.Base(mediaPath), subPath, o.transform)
	report.Pairs = append(report.Pairs, result)
	o.finish(ctx, report)
	return report, nil
}

// ProcessDirectory pairs media in remoteMediaDir with subtitles in subDir
// and processes every pair.
func (o *Orchestrator) ProcessDirectory(ctx context.Context, remoteMediaDir, subDir string) (*Report, error) {
	release, err := o.begin()
	if err != nil {
		return nil, err
	}
	defer release()

	ctx = o.runContext(ctx)
	report, err := o.processDirectory(ctx, "batch", remoteMediaDir, subDir, nil, o.transform)
	if err != nil {
		return nil, err
	}
	o.finish(ctx, report)
	return report, nil
}

// MergeDirectories merges every zh/en pair into outDir as
// <zh stem><merge.output_extension>.
func (o *Orchestrator) MergeDirectories(ctx context.Context, zhDir, enDir, outDir string) (*Report, error) {
	release, err := o.begin()
	if err != nil {
		return nil, err
	}
	defer release()

	ctx = o.runContext(ctx)
	report, err := o.mergeDirectories(ctx, "merge", zhDir, enDir, outDir)
	if err != nil {
		return nil, err
	}
	o.finish(ctx, report)
	return report, nil
}

// MergeAndTransfer merges zhDir with enDir into the staging directory and
// uploads the merged files next to their media without transforming them.
func (o *Orchestrator) MergeAndTransfer(ctx context.Context, zhDir, enDir, remoteMediaDir string) (*Report, error) {
	release, err := o.begin()
	if err != nil {
		return nil, err
	}
	defer release()

	ctx = o.runContext(ctx)
	staging := o.cfg.MergeStagingDir(zhDir)
	report, err := o.mergeDirectories(ctx, "merge-transfer", zhDir, enDir, staging)
	if err != nil {
		return nil, err
	}
	if !o.dryRun {
		merged := []string{}
		for _, p := range report.Pairs {
			if p.Outcome == OutcomeWritten {
				merged = append(merged, filepath.Base(p.Output))
			}
		}
		transferred, err := o.processDirectory(ctx, "merge-transfer", remoteMediaDir, staging, merged, false)
		if err != nil {
			return nil, err
		}
		report.merge(transferred)
	}
	o.finish(ctx, report)
	return report, nil
}

func (o *Orchestrator) begin() (func(), error) {
	if o.cfg.Paths.StateDir == "" {
		return func() {}, nil
	}
	return acquireLock(o.cfg.LockPath())
}

func (o *Orchestrator) runContext(ctx context.Context) context.Context {
	return services.WithRunID(ctx, o.runID)
}

func (o *Orchestrator) loggerFor(ctx context.Context, stage string) *slog.Logger {
	return logging.WithContext(services.WithStage(ctx, stage), o.logger)
}

func (o *Orchestrator) newReport(operation string) *Report {
	return &Report{RunID: o.runID, Operation: operation, DryRun: o.dryRun, Started: time.Now()}
}

// processDirectory pairs remote media with subtitles in subDir. A non-nil
// subNames restricts the subtitles to those names.
func (o *Orchestrator) processDirectory(ctx context.Context, operation, remoteMediaDir, subDir string, subNames []string, transformEnabled bool) (*Report, error) {
	report := o.newReport(operation)
	logger := o.loggerFor(ctx, "match")

	if o.client == nil {
		return nil, services.Wrap(services.ErrConfiguration, "batch", "list media", "no transfer client configured", nil)
	}
	remoteNames, err := o.client.List(ctx, remoteMediaDir)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, "batch", "list media", remoteMediaDir, err)
	}
	if subNames == nil {
		subNames, err = listLocal(subDir)
		if err != nil {
			return nil, services.Wrap(services.ErrExternal, "batch", "list subtitles", subDir, err)
		}
	}
	media := filterByExtension(remoteNames, o.cfg.Files.MediaExtensions)
	subs := filterByExtension(subNames, o.cfg.Files.SubtitleExtensions)

	index := matcher.BuildIndex(subs, o.ident.Key)
	pairs, unmatched := matcher.Match(media, index)
	report.Unmatched = unmatched
	report.Shadowed = index.Shadowed()
	o.logMatch(logger, remoteMediaDir, subDir, len(media), len(subs), pairs, unmatched, report.Shadowed)

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result := o.processPair(ctx, operation, pair.Key, remoteMediaDir, pair.Driving, filepath.Join(subDir, pair.Counterpart), transformEnabled)
		report.Pairs = append(report.Pairs, result)
	}
	return report, nil
}

func (o *Orchestrator) processPair(ctx context.Context, operation, key, remoteDir, mediaName, subPath string, transformEnabled bool) PairResult {
	ctx = services.WithEpisode(ctx, key)
	subName := filepath.Base(subPath)
	outName := OutputName(o.ident, mediaName, subName, o.cfg.Files.NewSubExtension)
	src := sourceFor(subPath, transformEnabled)
	result := PairResult{
		Operation: operation,
		Key:       key,
		Media:     mediaName,
		Subtitle:  subPath,
		Language:  Language(subName),
		Source:    src.Kind,
		Output:    filepath.Join(filepath.Dir(subPath), outName),
		Remote:    path.Join(remoteDir, outName),
	}
	logger := o.loggerFor(ctx, "process")

	if o.dryRun {
		result.Outcome = OutcomePlanned
		logger.Info("pair planned",
			logging.String("media", mediaName),
			logging.String("subtitle", subPath),
			logging.String("output", result.Output),
			logging.String("remote", result.Remote),
		)
		return result
	}

	encoding, err := o.produce(src, result.Output)
	result.Encoding = encoding
	if err != nil {
		return o.fail(ctx, result, err)
	}

	if o.client == nil {
		result.Outcome = OutcomeWritten
	} else {
		uploadCtx := services.WithStage(ctx, "upload")
		if err := o.client.Upload(uploadCtx, result.Output, result.Remote); err != nil {
			return o.fail(ctx, result, services.Wrap(services.ErrExternal, "batch", "upload", result.Remote, err))
		}
		result.Outcome = OutcomeUploaded
	}

	logger.Info("pair processed",
		logging.String("media", mediaName),
		logging.String("subtitle", subPath),
		logging.String("output", result.Output),
		logging.String("remote", result.Remote),
		logging.String("encoding", encoding),
		logging.String("language", result.Language),
		logging.String("source", result.Source.String()),
	)
	o.record(ctx, result)
	return result
}

// produce writes the output for src and returns the detected encoding.
func (o *Orchestrator) produce(src Source, outPath string) (string, error) {
	raw, err := os.ReadFile(src.Path)
	if err != nil {
		return "", services.Wrap(services.ErrExternal, "batch", "read subtitle", src.Path, err)
	}

	switch src.Kind {
	case RawSource:
		if sameFile(src.Path, outPath) {
			return "", nil
		}
		if err := writeFile(outPath, raw); err != nil {
			return "", err
		}
		return "", nil
	default:
		doc, encoding, err := o.load(src.Path, raw)
		if err != nil {
			return encoding, err
		}
		if err := o.transformer.Transform(doc); err != nil {
			return encoding, err
		}
		return encoding, writeFile(outPath, doc.Marshal())
	}
}

func (o *Orchestrator) load(name string, raw []byte) (*ass.Document, string, error) {
	text, encoding, err := o.resolver.DecodeDetected(raw)
	if err != nil {
		return nil, encoding, services.Wrap(services.ErrExternal, "batch", "decode subtitle", name, err)
	}
	doc, err := ass.ParseNamed(name, text)
	if err != nil {
		return nil, encoding, services.Wrap(services.ErrExternal, "batch", "parse subtitle", name, err)
	}
	return doc, encoding, nil
}

func (o *Orchestrator) fail(ctx context.Context, result PairResult, err error) PairResult {
	result.Outcome = OutcomeFailed
	result.Err = err
	logger := o.loggerFor(ctx, "process")
	attrs := []logging.Attr{
		logging.String("media", result.Media),
		logging.String("subtitle", result.Subtitle),
		logging.Error(err),
	}
	if services.IsCollaboratorFailure(err) {
		logging.ErrorWithContext(logger, "pair failed", "pair_failed",
			append(attrs, logging.String(logging.FieldErrorHint, "check the subtitle file and remote connection"))...)
	} else {
		logging.WarnWithContext(logger, "pair skipped", "pair_invalid",
			append(attrs,
				logging.String(logging.FieldErrorHint, "fix the subtitle events and re-run"),
				logging.String(logging.FieldImpact, "subtitle not uploaded"),
			)...)
	}
	o.record(ctx, result)
	return result
}

func (o *Orchestrator) record(ctx context.Context, result PairResult) {
	if o.journal == nil || o.dryRun {
		return
	}
	entry := history.Entry{
		RunID:       o.runID,
		Operation:   result.Operation,
		EpisodeKey:  result.Key,
		SourcePath:  result.Subtitle,
		OutputPath:  result.Output,
		RemotePath:  result.Remote,
		Encoding:    result.Encoding,
		Outcome:     history.Outcome(result.Outcome),
		FailureKind: result.FailureKind(),
	}
	if result.Outcome == OutcomeWritten {
		entry.RemotePath = ""
	}
	if result.Err != nil {
		entry.ErrorMessage = result.Err.Error()
	}
	if _, err := o.journal.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, o.logger), "journal write failed", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "outcome missing from history"),
		)
	}
}

func (o *Orchestrator) finish(ctx context.Context, report *Report) {
	logger := logging.WithContext(ctx, o.logger)
	logger.Info("batch complete",
		logging.String("operation", report.Operation),
		logging.Bool("dry_run", report.DryRun),
		logging.Duration("elapsed", time.Since(report.Started)),
		logging.Int("uploaded", report.Count(OutcomeUploaded)),
		logging.Int("written", report.Count(OutcomeWritten)),
		logging.Int("planned", report.Count(OutcomePlanned)),
		logging.Int("failed", report.Count(OutcomeFailed)),
		logging.Int("unmatched", len(report.Unmatched)),
		logging.Int("shadowed", len(report.Shadowed)),
	)
}

func (o *Orchestrator) logMatch(logger *slog.Logger, drivingDir, indexedDir string, driving, indexed int, pairs []matcher.Pair, unmatched []matcher.Unmatched, shadowed []matcher.Shadowed) {
	logger.Info("directories matched",
		logging.String("driving_dir", drivingDir),
		logging.String("indexed_dir", indexedDir),
		logging.Int("driving", driving),
		logging.Int("indexed", indexed),
		logging.Int("pairs", len(pairs)),
	)
	for _, miss := range unmatched {
		logging.WarnWithContext(logger, "no counterpart for file", "unmatched",
			logging.String("file", miss.Name),
			logging.String("reason", miss.Reason),
			logging.String(logging.FieldErrorHint, "check the episode token in the file name"),
		)
	}
	for _, dup := range shadowed {
		logging.WarnWithContext(logger, "duplicate episode key ignored", "shadowed",
			logging.String("file", dup.Name),
			logging.String("kept", dup.Winner),
			logging.String(logging.FieldEpisodeKey, dup.Key),
			logging.String(logging.FieldErrorHint, "remove or rename the duplicate"),
		)
	}
}

func listLocal(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrExternal, "batch", "create output directory", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrExternal, "batch", "write output", path, err)
	}
	return nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
