package command

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/securenotes-go/internal/cli/config"
	"github.com/yndnr/securenotes-go/internal/cli/repl"
	"github.com/yndnr/securenotes-go/internal/infra/confloader"
	"github.com/yndnr/securenotes-go/internal/telemetry/logger"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Interactive mode; the session is shared by every line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history-file",
				Usage: "History file (empty keeps history in memory)",
				Value: repl.DefaultHistoryFile(),
			},
			&cli.BoolFlag{
				Name:  "watch-config",
				Usage: "Re-apply log.level when the config file changes",
				Value: true,
			},
		},
		Action: runShell,
	}
}

func runShell(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if rt.inShell {
		return errors.New("already in the shell")
	}
	rt.inShell = true
	defer func() { rt.inShell = false }()

	history := repl.NewHistory(c.String("history-file"))
	if err := history.Load(); err != nil {
		rt.Log.Warn("history not loaded", "error", err)
	}
	rt.Shutdown.OnShutdown(func(ctx context.Context) error {
		return history.Save()
	})

	if c.Bool("watch-config") && rt.ConfigPath != "" {
		watchConfig(rt)
	}

	fmt.Fprintf(c.App.Writer, "%s %s (%s). Type 'help' for commands, 'exit' to quit.\n",
		c.App.Name, c.App.Version, rt.HTTP.BaseURL())

	r := repl.New(repl.Options{
		Input:    c.App.Reader,
		Output:   c.App.Writer,
		Prompt:   repl.DefaultPrompt,
		Commands: commandPaths(c.App.Commands),
		History:  history,
		Exec:     shellExecutor(c.App),
	})
	return r.Run(c.Context)
}

// shellExecutor runs one shell line through app. The runtime stays
// attached, so setup reuses it instead of opening the store again.
func shellExecutor(app *cli.App) repl.Executor {
	return func(ctx context.Context, args []string) error {
		err := app.RunContext(ctx, append([]string{app.Name}, args...))
		if IsReported(err) {
			return nil
		}
		return err
	}
}

// watchConfig re-applies the log level whenever the config file changes.
// Other settings need a restart.
func watchConfig(rt *Runtime) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(rt.Log.Slog()))
	if err != nil {
		rt.Log.Debug("config watcher unavailable", "error", err)
		return
	}
	if err := w.Watch(rt.ConfigPath); err != nil {
		w.Stop()
		return
	}

	w.OnChange(func(path string) { reloadLogLevel(rt, path) })
	w.StartAsync()

	rt.Shutdown.OnShutdown(func(ctx context.Context) error {
		return w.Stop()
	})
}

// commandPaths lists "root" and "root sub" for every command and alias.
func commandPaths(cmds []*cli.Command) []string {
	var paths []string
	for _, cmd := range cmds {
		if cmd.Hidden {
			continue
		}
		for _, name := range cmd.Names() {
			paths = append(paths, name)
			for _, sub := range cmd.Subcommands {
				for _, subName := range sub.Names() {
					paths = append(paths, name+" "+subName)
				}
			}
		}
	}
	sort.Strings(paths)
	return paths
}

// reloadLogLevel reads path and switches to its log level if it differs
// from the current one.
func reloadLogLevel(rt *Runtime, path string) {
	cfg, err := config.Load(path, nil)
	if err != nil {
		rt.Log.Warn("config reload failed", "path", path, "error", err)
		return
	}
	if from := logger.GetLevel(); from != cfg.Log.Level {
		logger.SetLevel(cfg.Log.Level)
		rt.Log.Info("log level changed", "path", path, "from", from, "to", logger.GetLevel())
	}
}
