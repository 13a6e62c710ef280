package main

import (
	"context"
	"fmt"

	"github.com/nijaru/ytsum/utils"
	"github.com/nijaru/ytsum/validation"
	"github.com/spf13/cobra"
)

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	var translate bool
	var lines bool

	cmd := &cobra.Command{
		Use:   "summarize <video-url>",
		Short: "Summarize one video and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := validation.VideoReference(args[0])
			if err != nil {
				return err
			}

			pipe, closePipeline, err := ctx.buildPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer closePipeline()

			runCtx := ctx.logContext(cmd.Context(), "summarize")
			runCtx, cancel := context.WithTimeout(runCtx, ctx.cfg.RequestTimeout)
			defer cancel()

			summary, err := pipe.GetSummary(runCtx, ref)
			if err != nil {
				return err
			}
			if summary == "" {
				return fmt.Errorf("no summary for %s", ref)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, render(summary, lines))

			if translate {
				translated, err := pipe.Translate(runCtx, summary)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n[%s]\n", pipe.TranslateTarget())
				fmt.Fprintln(out, render(translated, lines))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&translate, "translate", false, "Also print the translation into TRANSLATE_TARGET")
	cmd.Flags().BoolVar(&lines, "lines", false, "Print one sentence per line")
	return cmd
}

func render(text string, lines bool) string {
	if lines {
		return utils.FormatText(text)
	}
	return text
}
