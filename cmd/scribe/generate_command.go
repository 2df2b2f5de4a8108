package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/pipeline"
	"scribe/internal/stage"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <stage> <id>",
		Short: "Generate one stage for a content item",
		Long: `Generate runs a single pipeline stage for the given item. Stages must be
generated in order: blog needs research, podcast_script and the visual
stages need the blog, and audio needs the podcast script.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, ok := stage.Parse(args[0])
			if !ok || target == stage.Complete {
				return fmt.Errorf("unknown stage %q (one of: research, blog, podcast_script, audio, images, social)", args[0])
			}
			itemID := args[1]

			cfg, store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			gen := buildGenerator(cfg, store, logger)

			return withLock(cfg, func() error {
				result, err := runStage(cmd.Context(), gen, target, itemID)
				if err != nil {
					return err
				}

				encoded, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generated %s for %s:\n%s\n", target, itemID, encoded)
				return nil
			})
		},
	}
	return cmd
}

func runStage(ctx context.Context, gen *pipeline.Generator, target stage.Stage, itemID string) (any, error) {
	switch target {
	case stage.Research:
		return gen.GenerateResearch(ctx, itemID)
	case stage.Blog:
		return gen.GenerateBlog(ctx, itemID)
	case stage.PodcastScript:
		return gen.GeneratePodcastScript(ctx, itemID)
	case stage.Audio:
		return gen.GenerateAudio(ctx, itemID)
	case stage.Images:
		return gen.GenerateImages(ctx, itemID)
	case stage.Social:
		return gen.GenerateSocial(ctx, itemID)
	default:
		return nil, fmt.Errorf("stage %s cannot be generated", target)
	}
}

func newCompleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a content item finished",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			gen := buildGenerator(cfg, store, logger)
			if err := gen.Complete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s complete\n", args[0])
			return nil
		},
	}
}
