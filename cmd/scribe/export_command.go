package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/artifact"
	"scribe/internal/export"
	"scribe/internal/stage"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id>",
		Short: "Export a generated blog post as markdown and HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			item, err := store.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !item.StageData.Has(stage.Blog) {
				return fmt.Errorf("blog has not been generated for %s", item.ID)
			}

			var blog artifact.Blog
			if err := json.Unmarshal(item.StageData[stage.Blog], &blog); err != nil {
				return fmt.Errorf("decode stored blog artifact: %w", err)
			}

			mdPath, htmlPath, err := export.WriteBlog(cfg.Paths.ExportDir, item.ID, &blog)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported:\n  %s\n  %s\n", mdPath, htmlPath)
			return nil
		},
	}
}
