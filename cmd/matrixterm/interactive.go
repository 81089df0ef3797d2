package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"matrixterm/cmd/matrixterm/tui"
	"matrixterm/internal/config"
	"matrixterm/internal/effects"
	"matrixterm/internal/logging"
)

// runInteractive runs the full-screen session. The rain scheduler and the
// bubbletea program share one errgroup; leaving either stops both.
func runInteractive(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, engine, err := buildSession(cfg, true)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	rain := effects.ConfigFrom(cfg)
	if engine != nil {
		g.Go(func() error { return engine.Run(runCtx) })
	}

	if w, err := config.NewWatcher(configPath, reloadLogging); err != nil {
		logger().Warn("Config watcher unavailable", zap.Error(err))
	} else {
		g.Go(func() error {
			if err := w.Run(runCtx); err != nil {
				logger().Warn("Config watcher stopped", zap.Error(err))
			}
			return nil
		})
	}

	model := tui.New(runCtx, tui.Options{
		Session:       sess,
		Rain:          rain,
		FrameInterval: rain.TickInterval,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(runCtx))

	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && runCtx.Err() != nil {
			return nil
		}
		return err
	})

	err = g.Wait()
	if engine != nil {
		logger().Debug("Rain stopped",
			zap.Uint64("frames", engine.Frames()),
			zap.Uint64("skipped", engine.Skipped()),
		)
	}

	out := cmd.OutOrStdout()
	for _, line := range sess.Farewell() {
		fmt.Fprintln(out, line)
	}
	return err
}

// reloadLogging applies the logging section of a reloaded config.
func reloadLogging(c *config.Config) {
	opts := c.Logging.Options()
	if verbose {
		opts.DebugMode = true
		opts.Level = "debug"
	}
	if opts.DebugMode {
		opts.OutputPaths = fileSinks(opts.OutputPaths, logFilePath())
	}
	if err := logging.Initialize(opts); err != nil {
		logger().Warn("Failed to apply reloaded logging config", zap.Error(err))
		return
	}
	logger().Debug("Logging reconfigured", zap.String("level", opts.Level))
}
