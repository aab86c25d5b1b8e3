package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"subsync/internal/ass"
	"subsync/internal/logging"
	"subsync/internal/matcher"
	"subsync/internal/services"
)

func (o *Orchestrator) mergeDirectories(ctx context.Context, operation, zhDir, enDir, outDir string) (*Report, error) {
	report := o.newReport(operation)
	logger := o.loggerFor(ctx, "match")

	zhNames, err := listLocal(zhDir)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, "batch", "list primary subtitles", zhDir, err)
	}
	enNames, err := listLocal(enDir)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, "batch", "list secondary subtitles", enDir, err)
	}
	zh := filterByExtension(zhNames, o.cfg.Files.SubtitleExtensions)
	en := filterByExtension(enNames, o.cfg.Files.SubtitleExtensions)

	index := matcher.BuildIndex(en, o.ident.Key)
	pairs, unmatched := matcher.Match(zh, index)
	report.Unmatched = unmatched
	report.Shadowed = index.Shadowed()
	o.logMatch(logger, zhDir, enDir, len(zh), len(en), pairs, unmatched, report.Shadowed)

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Pairs = append(report.Pairs, o.mergePair(ctx, operation, pair, zhDir, enDir, outDir))
	}
	return report, nil
}

func (o *Orchestrator) mergePair(ctx context.Context, operation string, pair matcher.Pair, zhDir, enDir, outDir string) PairResult {
	ctx = services.WithEpisode(ctx, pair.Key)
	stem := strings.TrimSuffix(pair.Driving, filepath.Ext(pair.Driving))
	result := PairResult{
		Operation: operation,
		Key:       pair.Key,
		Media:     pair.Driving,
		Subtitle:  filepath.Join(enDir, pair.Counterpart),
		Language:  Language(pair.Driving),
		Source:    ParsedSource,
		Output:    filepath.Join(outDir, stem+o.cfg.Merge.OutputExtension),
	}
	logger := o.loggerFor(ctx, "merge")

	if o.dryRun {
		result.Outcome = OutcomePlanned
		logger.Info("merge planned",
			logging.String("primary", pair.Driving),
			logging.String("secondary", pair.Counterpart),
			logging.String("output", result.Output),
		)
		return result
	}

	left, encoding, err := o.loadFile(filepath.Join(zhDir, pair.Driving))
	if err != nil {
		return o.fail(ctx, result, err)
	}
	result.Encoding = encoding
	right, _, err := o.loadFile(result.Subtitle)
	if err != nil {
		return o.fail(ctx, result, err)
	}
	merged, dropped, err := o.merger.Merge(left, right)
	if err != nil {
		return o.fail(ctx, result, err)
	}
	for _, style := range dropped {
		logging.WarnWithContext(logger, "secondary style dropped", "merge_style_collision",
			logging.String("style", style),
			logging.String("secondary", pair.Counterpart),
			logging.String(logging.FieldErrorHint, "rename the style in the secondary subtitle"),
			logging.String(logging.FieldImpact, "secondary events use the primary style definition"),
			logging.Alert("style_collision"),
		)
	}
	if err := writeFile(result.Output, merged.Marshal()); err != nil {
		return o.fail(ctx, result, err)
	}

	result.Outcome = OutcomeWritten
	logger.Info("pair merged",
		logging.String("primary", pair.Driving),
		logging.String("secondary", pair.Counterpart),
		logging.String("output", result.Output),
		logging.String("encoding", encoding),
		logging.Int("events", len(merged.Events)),
	)
	o.record(ctx, result)
	return result
}

func (o *Orchestrator) loadFile(path string) (*ass.Document, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", services.Wrap(services.ErrExternal, "batch", "read subtitle", path, err)
	}
	return o.load(path, raw)
}
