package main

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subsync/internal/fsutil"
	"subsync/internal/textenc"
)

func newRenameSeqCommand(ctx *commandContext) *cobra.Command {
	var season int
	var start int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rename-seq <dir>",
		Short: "Rename the files of a directory to S<season>E<n>.ass in sorted order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := fsutil.PlanSequential(args[0], season, start)
			if err != nil {
				return err
			}
			return applyPlan(cmd.OutOrStdout(), args[0], plan, dryRun)
		},
	}

	cmd.Flags().IntVar(&season, "season", 1, "Season number")
	cmd.Flags().IntVar(&start, "start", 1, "First episode number")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without renaming")
	return cmd
}

func newRenameListCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rename-list <dir> <names-file>",
		Short: "Rename the sorted files of a directory after the lines of a names file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read names file: %w", err)
			}
			lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
			plan, err := fsutil.PlanFromList(args[0], lines)
			if err != nil {
				return err
			}
			return applyPlan(cmd.OutOrStdout(), args[0], plan, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without renaming")
	return cmd
}

func applyPlan(out io.Writer, dir string, plan []fsutil.Rename, dryRun bool) error {
	rows := make([][]string, 0, len(plan))
	for _, r := range plan {
		rows = append(rows, []string{r.From, r.To})
	}
	fmt.Fprintln(out, renderTable(textColumns("From", "To"), rows))
	if dryRun {
		fmt.Fprintf(out, "%d file(s) would be renamed\n", len(plan))
		return nil
	}
	if err := fsutil.ApplyRenames(dir, plan); err != nil {
		return err
	}
	fmt.Fprintf(out, "Renamed %d file(s)\n", len(plan))
	return nil
}

func newShiftCommand(ctx *commandContext) *cobra.Command {
	var shiftMS int64

	cmd := &cobra.Command{
		Use:   "shift <files...>",
		Short: "Shift every event of each subtitle file and rewrite it as UTF-8",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := fsutil.ShiftFiles(textenc.NewResolver(nil), args, time.Duration(shiftMS)*time.Millisecond)
			return writeRewrites(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().Int64Var(&shiftMS, "ms", 0, "Milliseconds to add to every event (negative moves earlier)")
	_ = cmd.MarkFlagRequired("ms")
	return cmd
}

func newRecodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recode <files...>",
		Short: "Rewrite subtitle files as UTF-8 using their detected encoding",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := fsutil.RecodeFiles(textenc.NewResolver(nil), args)
			return writeRewrites(cmd.OutOrStdout(), results)
		},
	}
}

func writeRewrites(out io.Writer, results []fsutil.Rewrite) error {
	rows := make([][]string, 0, len(results))
	failed := 0
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
			failed++
		}
		rows = append(rows, []string{r.Path, encodingLabel(r.Encoding), strconv.Itoa(r.Events), status})
	}
	fmt.Fprintln(out, renderTable([]column{
		{title: "File"},
		{title: "Encoding"},
		{title: "Events", numeric: true},
		{title: "Status", maxWidth: messageWidth},
	}, rows))
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(results))
	}
	return nil
}

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "extract <input-dir> <output-dir>",
		Short: "Copy matching subtitle files out of per-episode subdirectories",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			expr := pattern
			if expr == "" {
				expr = cfg.Files.ExtractPattern
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				return fmt.Errorf("compile --pattern: %w", err)
			}
			copied, err := fsutil.Extract(args[0], args[1], re)
			out := cmd.OutOrStdout()
			for _, path := range copied {
				fmt.Fprintln(out, path)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Copied %d file(s) to %s\n", len(copied), args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "File name regular expression (default: files.extract_pattern)")
	return cmd
}
