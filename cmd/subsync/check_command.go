package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"subsync/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check directories, the style template, and the remote host",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}
			source := ctx.configPath
			if !ctx.configSeen {
				source += " (not found, defaults used)"
			}
			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, source, colorize))
			fmt.Fprintln(out, renderStatusLine("Remote backend", statusInfo, cfg.Remote.Backend, colorize))
			fmt.Fprintln(out, renderStatusLine("History", statusInfo, yesNo(cfg.History.Enabled), colorize))
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, line := range preflightLines(results, colorize) {
				fmt.Fprintln(out, line)
			}
			if preflight.Failed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
