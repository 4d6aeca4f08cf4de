package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/onlylist/internal/cli"
	"github.com/aretw0/onlylist/internal/config"
	"github.com/aretw0/onlylist/internal/presentation/tui"
	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/spf13/cobra"
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:   "onlylist",
	Short: "Only List is a small, locally persisted task list",
	Long: `Only List keeps one ordered list of tasks and saves it after every change.

Run without arguments for the interactive list, or use the subcommands to script it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("dir", ".onlylist", "Directory holding the task list and onlylist.yaml")
	flags.String("config", "", "Path to a config file (default <dir>/onlylist.yaml)")
	flags.String("storage", "", "Storage backend: file, memory, redis or loam")
	flags.String("key", "", "Name of the storage slot")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
}

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"storage":    "storage",
	"key":        "key",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// loadConfig resolves the configuration, letting only explicitly set flags override it.
func loadConfig(cmd *cobra.Command, extra map[string]string) (config.Config, error) {
	opts := config.LoadOptions{Overrides: map[string]any{}}
	if cmd.Flags().Changed("dir") {
		opts.Dir, _ = cmd.Flags().GetString("dir")
	}
	opts.Path, _ = cmd.Flags().GetString("config")

	for flag, key := range flagKeys {
		if cmd.Flags().Changed(flag) {
			opts.Overrides[key], _ = cmd.Flags().GetString(flag)
		}
	}
	for flag, key := range extra {
		if cmd.Flags().Changed(flag) {
			opts.Overrides[key] = cmd.Flags().Lookup(flag).Value.String()
		}
	}
	return config.Load(opts)
}

// openApp loads the configuration and builds the task list.
func openApp(cmd *cobra.Command, hooks ...domain.LifecycleHooks) (*cli.App, error) {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return nil, err
	}
	return cli.Build(cmd.Context(), cfg, hooks...)
}

// parsePosition converts a 1-based position argument into a list index.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q: expected a number starting at 1", arg)
	}
	return n - 1, nil
}

// explain turns store errors into messages for the terminal.
func explain(cmd *cobra.Command, err error, position string) error {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ve):
		tui.PrintNotice(cmd.ErrOrStderr(), ve.Kind.Message())
		return errReported
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return fmt.Errorf("no task at position %s", position)
	default:
		return err
	}
}
