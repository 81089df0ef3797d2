package main

import (
	"go.uber.org/zap"

	"matrixterm/internal/config"
	"matrixterm/internal/effects"
	"matrixterm/internal/session"
	"matrixterm/internal/tactile"
	"matrixterm/internal/world"
)

// startDir picks --workspace, then execution.working_directory, then the
// process working directory.
func startDir(c *config.Config) string {
	if workspace != "" {
		return workspace
	}
	return c.Execution.WorkingDirectory
}

// newExecutor builds the process executor and logs its audit events.
func newExecutor(c *config.Config, dir string) *tactile.DirectExecutor {
	exec := tactile.NewDirectExecutorWithConfig(tactile.ExecutorConfig{
		DefaultWorkingDir:   dir,
		DefaultTimeout:      c.GetCommandTimeout(),
		AllowedEnvironment:  c.Execution.AllowedEnvVars,
		MaxOutputBytes:      c.Execution.MaxOutputBytes,
		EnableResourceUsage: true,
	})
	exec.SetAuditCallback(func(ev tactile.AuditEvent) {
		fields := []zap.Field{
			zap.String("type", string(ev.Type)),
			zap.String("command", ev.Command.CommandString()),
			zap.String("session", ev.SessionID),
		}
		if ev.Result != nil {
			fields = append(fields,
				zap.Int("exit_code", ev.Result.ExitCode),
				zap.Duration("duration", ev.Result.Duration),
			)
		}
		logger().Debug("Process audit", fields...)
	})
	return exec
}

// buildSession wires the session. The effect engine is nil when withRain
// is false or effects are disabled.
func buildSession(c *config.Config, withRain bool) (*session.Session, *effects.Engine, error) {
	dir := startDir(c)
	fsys, err := world.NewOSFS(dir)
	if err != nil {
		return nil, nil, err
	}
	wd, err := fsys.Getwd()
	if err != nil {
		return nil, nil, err
	}

	var engine *effects.Engine
	if withRain && c.Effects.Enabled {
		engine = effects.NewEngine(effects.ConfigFrom(c))
	}

	sess, err := session.New(session.Options{
		Config:         c.Session,
		FS:             fsys,
		Executor:       newExecutor(c, wd),
		Effects:        engine,
		CommandTimeout: c.GetCommandTimeout(),
	})
	if err != nil {
		return nil, nil, err
	}
	logger().Info("Session ready",
		zap.String("session", sess.ID()),
		zap.String("dir", wd),
		zap.Bool("rain", engine != nil),
	)
	return sess, engine, nil
}
