package main

import (
	"github.com/aretw0/onlylist/internal/cli"
	"github.com/aretw0/onlylist/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive task list (default)",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	sigCtx := cli.NewSignalContext(cmd.Context())
	defer sigCtx.Cancel()

	bridge := &tui.Bridge{}
	app, err := openApp(cmd, bridge.Hooks())
	if err != nil {
		return err
	}
	defer app.Close()

	return tui.Run(sigCtx, app.List.Store, bridge, "Only List")
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
