// Command matrixterm is a terminal session with a falling-glyph backdrop.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"matrixterm/internal/config"
	"matrixterm/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	workspace  string

	// Loaded in PersistentPreRunE
	cfg *config.Config
)

// logger is looked up on every call so a config reload that reinitializes
// logging takes effect here too.
func logger() *zap.Logger {
	return logging.Get(logging.CategoryBoot).Zap()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "matrixterm",
	Short: "A terminal session with digital rain",
	Long: `matrixterm is a small interactive shell. Builtins (ls, cd, pwd, clear,
help, history, exit) run in-process; anything else is started as an
external program. A falling-glyph animation runs behind the text.

Run without arguments to start the interactive session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		if verbose {
			cfg.Logging.DebugMode = true
			cfg.Logging.Level = "debug"
		}
		opts := cfg.Logging.Options()
		// The interactive screen owns the terminal; send logs to a file.
		if cmd == cmd.Root() && opts.DebugMode {
			opts.OutputPaths = fileSinks(opts.OutputPaths, logFilePath())
		}
		if err := logging.Initialize(opts); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger().Debug("Configuration loaded", zap.String("path", configPath))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
	RunE: runInteractive,
}

// logFilePath is where the interactive session logs, next to the config.
func logFilePath() string {
	return filepath.Join(filepath.Dir(configPath), "matrixterm.log")
}

// fileSinks replaces terminal sinks with fallback.
func fileSinks(paths []string, fallback string) []string {
	var out []string
	for _, p := range paths {
		if p == "stdout" || p == "stderr" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		out = []string{fallback}
	}
	return out
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath(), "Config file")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Starting directory (default: current)")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(configCmd)
}

// exitError carries a command's exit status out of Execute.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
