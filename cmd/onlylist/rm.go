package main

import (
	"context"
	"fmt"

	"github.com/aretw0/onlylist/pkg/tasklist"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <position>",
	Aliases: []string{"delete"},
	Short:   "Delete a task; later tasks move up",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[0])
		if err != nil {
			return err
		}

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		var text string
		err = app.Sessions.Do(cmd.Context(), func(ctx context.Context, s *tasklist.Store) error {
			task, err := s.Task(index)
			if err != nil {
				return err
			}
			text = task.Text
			return s.DeleteTask(ctx, index)
		})
		if err := explain(cmd, err, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
