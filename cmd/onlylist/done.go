package main

import (
	"context"
	"fmt"

	"github.com/aretw0/onlylist/pkg/tasklist"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:     "done <position>",
	Aliases: []string{"toggle"},
	Short:   "Toggle a task between done and not done",
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

		var completed bool
		err = app.Sessions.Do(cmd.Context(), func(ctx context.Context, s *tasklist.Store) error {
			if err := s.ToggleComplete(ctx, index); err != nil {
				return err
			}
			task, err := s.Task(index)
			completed = task.Completed
			return err
		})
		if err := explain(cmd, err, args[0]); err != nil {
			return err
		}

		state := "not done"
		if completed {
			state = "done"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %s marked %s\n", args[0], state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
