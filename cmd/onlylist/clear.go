package main

import (
	"context"
	"fmt"

	"github.com/aretw0/onlylist/pkg/tasklist"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every task",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		var removed int
		err = app.Sessions.Do(cmd.Context(), func(ctx context.Context, s *tasklist.Store) error {
			removed = s.Len()
			return s.Clear(ctx)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d tasks\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
