package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/onlylist/pkg/tasklist"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <position> <text...>",
	Short: "Replace the text of a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parsePosition(args[0])
		if err != nil {
			return err
		}
		text := strings.Join(args[1:], " ")

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		err = app.Sessions.Do(cmd.Context(), func(ctx context.Context, s *tasklist.Store) error {
			if err := s.BeginEdit(index); err != nil {
				return err
			}
			s.UpdateDraft(text)
			return s.UpdateTask(ctx, index, text)
		})
		if err := explain(cmd, err, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %s updated\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
