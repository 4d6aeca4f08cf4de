package main

import (
	"fmt"

	"github.com/aretw0/onlylist"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of onlylist",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "onlylist version %s\n", onlylist.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
