package main

import (
	"github.com/spf13/cobra"

	"subsync/internal/batch"
)

func newPairCommand(ctx *commandContext) *cobra.Command {
	var noUpdate bool

	cmd := &cobra.Command{
		Use:   "pair <remote-media-path> <subtitle-path>",
		Short: "Transform one subtitle and upload it next to one media file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			orch, err := ctx.orchestrator(cmd.Context(), true, batch.WithTransform(!noUpdate))
			if err != nil {
				return err
			}
			report, err := orch.ProcessPair(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().BoolVar(&noUpdate, "no-update", false, "Upload the subtitle unchanged")
	return cmd
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var noUpdate bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "batch <remote-media-dir> <subtitle-dir>",
		Short: "Pair subtitles with remote media by episode and upload them",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			orch, err := ctx.orchestrator(cmd.Context(), true,
				batch.WithTransform(!noUpdate),
				batch.WithDryRun(dryRun),
			)
			if err != nil {
				return err
			}
			report, err := orch.ProcessDirectory(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().BoolVar(&noUpdate, "no-update", false, "Upload subtitles unchanged")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Match and report without writing or uploading")
	return cmd
}

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "merge <zh-dir> <en-dir>",
		Short: "Merge Chinese and English subtitles into bilingual files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			orch, err := ctx.orchestrator(cmd.Context(), false)
			if err != nil {
				return err
			}
			out := outputDir
			if out == "" {
				out = cfg.MergeStagingDir(args[0])
			}
			report, err := orch.MergeDirectories(cmd.Context(), args[0], args[1], out)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for merged files (default: merge staging directory)")
	return cmd
}

func newMergeTransferCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "merge-transfer <zh-dir> <en-dir> <remote-media-dir>",
		Short: "Merge bilingual subtitles and upload them next to their media",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			orch, err := ctx.orchestrator(cmd.Context(), true, batch.WithDryRun(dryRun))
			if err != nil {
				return err
			}
			report, err := orch.MergeAndTransfer(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report merge pairs without writing or uploading")
	return cmd
}
