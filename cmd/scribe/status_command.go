package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/content"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var projectFlag string
	var searchFlag string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "List content items and their pipeline progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var items []*content.Item
			switch {
			case searchFlag != "":
				items, err = store.Search(cmd.Context(), searchFlag)
			case projectFlag != "":
				items, err = store.ListByProject(cmd.Context(), projectFlag)
			default:
				items, err = store.List(cmd.Context())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No content items.")
				return nil
			}

			if !isTerminal(out) {
				for _, item := range items {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", item.ID, item.Keyword, item.CurrentStage, item.LatestStage())
				}
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					item.ID,
					truncate(item.Name, 28),
					truncate(item.Keyword, 28),
					item.CurrentStage.Label(),
					item.LatestStage().Label(),
					item.UpdatedAt.Format(time.RFC3339),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Keyword", "Stage", "Latest", "Updated"},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectFlag, "project", "p", "", "Limit to one project")
	cmd.Flags().StringVarP(&searchFlag, "search", "q", "", "Filter by name or keyword")
	return cmd
}
