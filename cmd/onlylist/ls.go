package main

import (
	"context"
	"encoding/json"

	"github.com/aretw0/onlylist/internal/presentation/tui"
	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/tasklist"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "Print the task list",
	RunE: func(cmd *cobra.Command, args []string) error {
		pretty, _ := cmd.Flags().GetBool("pretty")
		asJSON, _ := cmd.Flags().GetBool("json")

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		var tasks domain.TaskList
		err = app.Sessions.Do(cmd.Context(), func(_ context.Context, s *tasklist.Store) error {
			tasks = s.Tasks()
			return nil
		})
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tasks)
		}
		return tui.PrintTasks(cmd.OutOrStdout(), tasks, pretty)
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().Bool("pretty", false, "Render the list as styled Markdown")
	lsCmd.Flags().Bool("json", false, "Print the list in its stored JSON layout")
}
