package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/onlylist/pkg/tasklist"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Append a task",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		text := strings.Join(args, " ")
		var position int
		err = app.Sessions.Do(cmd.Context(), func(ctx context.Context, s *tasklist.Store) error {
			if err := s.AddTask(ctx, text); err != nil {
				return err
			}
			position = s.Len()
			return nil
		})
		if err := explain(cmd, err, ""); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added task %d\n", position)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
