package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/stage"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var stageFlag string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a content item and its generated stages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			item, err := store.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if stageFlag != "" {
				target, ok := stage.Parse(stageFlag)
				if !ok {
					return fmt.Errorf("unknown stage %q", stageFlag)
				}
				raw, present := item.StageData[target]
				if !present || !item.StageData.Has(target) {
					return fmt.Errorf("%s has not been generated for %s", target, item.ID)
				}
				var pretty json.RawMessage = raw
				if encoded, err := json.MarshalIndent(json.RawMessage(raw), "", "  "); err == nil {
					pretty = encoded
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
				return nil
			}

			if jsonFlag {
				encoded, err := json.MarshalIndent(map[string]any{
					"id":           item.ID,
					"projectId":    item.ProjectID,
					"name":         item.Name,
					"keyword":      item.Keyword,
					"website":      item.Website,
					"currentStage": item.CurrentStage,
					"latestStage":  item.LatestStage(),
					"stages":       stagePresence(item.StageData),
					"createdAt":    item.CreatedAt.Format(time.RFC3339),
					"updatedAt":    item.UpdatedAt.Format(time.RFC3339),
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %s\n", item.ID)
			fmt.Fprintf(out, "Name:     %s\n", item.Name)
			fmt.Fprintf(out, "Keyword:  %s\n", item.Keyword)
			if item.Website != "" {
				fmt.Fprintf(out, "Website:  %s\n", item.Website)
			}
			fmt.Fprintf(out, "Stage:    %s (latest generated: %s)\n", item.CurrentStage.Label(), item.LatestStage().Label())
			fmt.Fprintf(out, "Updated:  %s\n\n", item.UpdatedAt.Format(time.RFC3339))

			rows := make([][]string, 0, len(stage.All()))
			for _, st := range stage.All() {
				if st == stage.Complete {
					continue
				}
				status := "-"
				if item.StageData.Has(st) {
					status = "generated"
				}
				rows = append(rows, []string{st.Label(), status})
			}
			fmt.Fprintln(out, renderTable([]string{"Stage", "Status"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&stageFlag, "stage", "s", "", "Print one stage's stored artifact as JSON")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the item summary as JSON")
	return cmd
}

func stagePresence(data stage.Data) map[string]bool {
	presence := make(map[string]bool, len(stage.All()))
	for _, st := range stage.All() {
		if st == stage.Complete {
			continue
		}
		presence[string(st)] = data.Has(st)
	}
	return presence
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the save history for a content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saves recorded.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				size := fmt.Sprintf("%d B", len(rec.Data))
				rows = append(rows, []string{
					fmt.Sprintf("%d", rec.ID),
					string(rec.Stage),
					size,
					rec.SavedAt.Format(time.RFC3339),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Stage", "Size", "Saved"}, rows))
			return nil
		},
	}
}

func truncate(value string, limit int) string {
	trimmed := strings.TrimSpace(value)
	runes := []rune(trimmed)
	if len(runes) <= limit {
		return trimmed
	}
	return string(runes[:limit]) + "..."
}
