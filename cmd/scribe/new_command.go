package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newNewCommand(ctx *commandContext) *cobra.Command {
	var projectFlag string
	var nameFlag string
	var websiteFlag string

	cmd := &cobra.Command{
		Use:   "new <keyword>",
		Short: "Create a content item for a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			keyword := strings.TrimSpace(args[0])
			item, err := store.NewItem(cmd.Context(), projectFlag, nameFlag, keyword, websiteFlag)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s) at stage %s\n", item.ID, item.Keyword, item.CurrentStage)
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectFlag, "project", "p", "default", "Project the item belongs to")
	cmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Display name (defaults to the keyword)")
	cmd.Flags().StringVarP(&websiteFlag, "website", "w", "", "Website URL used to ground research")
	return cmd
}
