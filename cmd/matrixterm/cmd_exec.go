package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// execCmd runs one line through the session pipeline
var execCmd = &cobra.Command{
	Use:   "exec -- [command line]",
	Short: "Run a single command line and exit with its status",
	Long: `Runs one line through the same pipeline as the interactive session:
builtins run in-process, anything else is spawned. Output is printed and the
process exits with the command's exit code.

Example:
  matrixterm exec -- ls -la /tmp`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func runExec(cmd *cobra.Command, args []string) error {
	sess, _, err := buildSession(cfg, false)
	if err != nil {
		return err
	}

	line := strings.Join(args, " ")
	sess.InsertString(line)
	res, runErr := sess.Submit(cmd.Context())

	out := cmd.OutOrStdout()
	for _, l := range res.Lines {
		fmt.Fprintln(out, l)
	}

	logger().Info("exec finished",
		zap.String("line", line),
		zap.Int("exit_code", res.Command.ExitCode),
		zap.Duration("duration", res.Duration),
		zap.Error(runErr),
	)

	if code := res.Command.ExitCode; code != 0 {
		if code < 0 {
			code = 1
		}
		return &exitError{code: code}
	}
	return nil
}
