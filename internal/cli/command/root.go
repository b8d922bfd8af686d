package command

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/securenotes-go/internal/cli/api"
	"github.com/yndnr/securenotes-go/internal/cli/config"
	"github.com/yndnr/securenotes-go/internal/cli/connection"
	"github.com/yndnr/securenotes-go/internal/cli/output"
	"github.com/yndnr/securenotes-go/internal/cli/session"
	"github.com/yndnr/securenotes-go/internal/cli/tokenstore"
	"github.com/yndnr/securenotes-go/internal/core/domain"
	"github.com/yndnr/securenotes-go/internal/infra/buildinfo"
	"github.com/yndnr/securenotes-go/internal/infra/shutdown"
	"github.com/yndnr/securenotes-go/internal/infra/tlsroots"
	"github.com/yndnr/securenotes-go/internal/storage"
	"github.com/yndnr/securenotes-go/internal/telemetry/logger"
	"github.com/yndnr/securenotes-go/internal/telemetry/metric"
)

const runtimeKey = "runtime"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "securenotes-cli",
		Usage:   "Secure Notes command-line client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			SignupCommand(),
			LoginCommand(),
			LogoutCommand(),
			StatusCommand(),
			NotesCommand(),
			ConfigCommand(),
			DebugCommand(),
			VersionCommand(),
			ShellCommand(),
		},
		Metadata: map[string]any{},
		Before:   setup,
		After:    teardown,
		// Errors are reported by main or the shell; never os.Exit from
		// inside a command.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Notes API base URL (e.g., http://localhost:3001)",
			EnvVars: []string{config.EnvAPIBase},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Request timeout",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path",
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored notices",
		},
	}
}

// Runtime is everything a command needs. One Runtime is shared by every
// command run in a process, including each line of the shell.
type Runtime struct {
	Config     *config.CLIConfig
	ConfigPath string
	Log        logger.Logger

	Tokens  *tokenstore.Store
	Session *session.Manager
	HTTP    *connection.HTTPClient
	API     *api.Client
	Metrics *metric.Registry

	Formatter output.Formatter
	Notices   *output.Notices
	Out       io.Writer
	In        io.Reader

	Shutdown *shutdown.Handler

	depth int
	// restore undoes the flags of each nested run, innermost last.
	restore []func()
	inShell bool
	// authenticating suppresses the expiry notice: a 401 from login or
	// signup means bad credentials.
	authenticating bool
}

// overrides turns explicitly set global flags into config keys.
func overrides(c *cli.Context) map[string]any {
	m := map[string]any{}
	if c.IsSet("server") {
		m[config.KeyAPIBaseURL] = c.String("server")
	}
	if c.IsSet("timeout") {
		m[config.KeyAPITimeout] = c.Duration("timeout")
	}
	if c.IsSet("output") {
		m[config.KeyOutputFormat] = c.String("output")
	}
	if c.Bool("verbose") {
		m[config.KeyLogLevel] = "debug"
	}
	if c.Bool("no-color") {
		m[config.KeyOutputColor] = false
	}
	return m
}

// NewRuntime wires the credential store, dispatcher and session from cfg.
// kv may be nil, in which case the configured backend is opened. ctx
// bounds the token store's backend calls.
func NewRuntime(ctx context.Context, cfg *config.CLIConfig, kv storage.KV, out, errOut io.Writer, in io.Reader, wide bool) (*Runtime, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: errOut,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	if err := connection.CheckBaseURL(cfg.API.BaseURL); err != nil {
		return nil, err
	}

	tlsConfig, err := tlsroots.ClientConfig(cfg.API.CAFile, cfg.API.InsecureSkipVerify)
	if err != nil {
		return nil, err
	}

	if kv == nil {
		kv, err = storage.Open(cfg.StorageOptions(), log.Slog())
		if err != nil {
			log.Warn("credential storage unavailable, session will not persist",
				"backend", cfg.Storage.Backend, "error", err)
			kv = storage.NewMemoryKV()
		}
	}

	tokens := tokenstore.New(logger.WithLogger(ctx, log), kv, tokenstore.DefaultKey)
	metrics := metric.NewRegistry()
	notifier := &connection.Notifier{}

	httpClient := connection.NewHTTPClient(cfg.API.BaseURL, tokens, connection.Options{
		Timeout:   cfg.API.Timeout,
		TLSConfig: tlsConfig,
		UserAgent: buildinfo.UserAgent(),
		Notifier:  notifier,
		Metrics:   metrics,
		Logger:    log,
	})

	rt := &Runtime{
		Config:    cfg,
		Log:       log,
		Tokens:    tokens,
		Session:   session.NewManager(tokens),
		HTTP:      httpClient,
		API:       api.New(httpClient),
		Metrics:   metrics,
		Formatter: output.NewFormatter(format, wide),
		Notices:   output.NewNotices(errOut, cfg.Output.Color),
		Out:       out,
		In:        in,
		Shutdown:  shutdown.NewHandler(shutdown.DefaultTimeout),
	}

	// The store is already cleared by the dispatcher when this runs.
	notifier.Register(func() {
		rt.Session.End()
		if !rt.authenticating {
			rt.Notices.Error("Session expired", "Please log in again.")
		}
	})

	rt.Shutdown.OnShutdown(func(ctx context.Context) error {
		return tokens.Close()
	})

	return rt, nil
}

func setup(c *cli.Context) error {
	if rt := lookup(c.App); rt != nil {
		undo, err := rt.applyLineFlags(c)
		rt.depth++
		rt.restore = append(rt.restore, undo)
		c.Context = logger.WithLogger(c.Context, rt.Log)
		return err
	}

	path := c.String("config")
	cfg, err := config.Load(path, overrides(c))
	if err != nil {
		return err
	}

	rt, err := NewRuntime(c.Context, cfg, nil, c.App.Writer, c.App.ErrWriter, c.App.Reader, c.Bool("wide"))
	if err != nil {
		return err
	}
	rt.ConfigPath = path
	rt.depth = 1
	c.App.Metadata[runtimeKey] = rt
	c.Context = logger.WithLogger(c.Context, rt.Log)
	return nil
}

func teardown(c *cli.Context) error {
	rt := lookup(c.App)
	if rt == nil {
		return nil
	}
	rt.depth--
	if n := len(rt.restore); n > 0 {
		undo := rt.restore[n-1]
		rt.restore = rt.restore[:n-1]
		if undo != nil {
			undo()
		}
	}
	if rt.depth > 0 {
		return nil
	}
	delete(c.App.Metadata, runtimeKey)
	if err := rt.Shutdown.Run(); err != nil {
		rt.Log.Warn("cleanup failed", "error", err)
	}
	return nil
}

// applyLineFlags applies the global flags given to a run that reuses an
// attached runtime, such as a shell line. Rendering and verbosity change
// for that run only. The connection is fixed once the runtime exists, so a
// different server, timeout or config file is refused.
func (rt *Runtime) applyLineFlags(c *cli.Context) (func(), error) {
	if c.IsSet("server") && connection.NormalizeBaseURL(c.String("server")) != rt.HTTP.BaseURL() {
		return nil, errors.New("--server cannot change in a running session; restart with it")
	}
	if c.IsSet("timeout") && c.Duration("timeout") != rt.Config.API.Timeout {
		return nil, errors.New("--timeout cannot change in a running session; restart with it")
	}
	if c.IsSet("config") && c.String("config") != rt.ConfigPath {
		return nil, errors.New("--config cannot change in a running session; restart with it")
	}

	var undo []func()
	if c.IsSet("output") || c.Bool("wide") {
		name := rt.Config.Output.Format
		if c.IsSet("output") {
			name = c.String("output")
		}
		format, err := output.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		wide := c.Bool("wide")
		if tf, ok := rt.Formatter.(*output.TableFormatter); ok && tf.Wide {
			wide = true
		}
		prev := rt.Formatter
		rt.Formatter = output.NewFormatter(format, wide)
		undo = append(undo, func() { rt.Formatter = prev })
	}
	if c.Bool("no-color") {
		prev := rt.Notices
		rt.Notices = output.NewNotices(c.App.ErrWriter, false)
		undo = append(undo, func() { rt.Notices = prev })
	}
	if c.Bool("verbose") {
		prev := logger.GetLevel()
		logger.SetLevel("debug")
		undo = append(undo, func() { logger.SetLevel(prev) })
	}

	if len(undo) == 0 {
		return nil, nil
	}
	return func() {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}, nil
}

func lookup(app *cli.App) *Runtime {
	if app.Metadata == nil {
		app.Metadata = map[string]any{}
	}
	rt, _ := app.Metadata[runtimeKey].(*Runtime)
	return rt
}

// Attach installs rt as the runtime for app, for callers that build the
// runtime themselves.
func Attach(app *cli.App, rt *Runtime) {
	lookup(app)
	app.Metadata[runtimeKey] = rt
}

// runtimeFrom retrieves the runtime from context.
func runtimeFrom(c *cli.Context) (*Runtime, error) {
	if rt := lookup(c.App); rt != nil {
		return rt, nil
	}
	return nil, errors.New("command runtime not initialized")
}

// render writes data with the configured formatter.
func (rt *Runtime) render(data any) error {
	return rt.Formatter.Format(rt.Out, data)
}

// reportedError marks an error whose notice has already been printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	var re *reportedError
	return errors.As(err, &re)
}

// fail prints an error notice for err and returns it marked as reported.
// A 401 was already announced by the notifier, so it is not repeated.
func (rt *Runtime) fail(title string, err error, fallback string) error {
	if connection.IsUnauthorized(err) {
		return &reportedError{err: domain.ErrSessionExpired.WithCause(err)}
	}
	return rt.report(title, err, fallback)
}

// report always prints the notice. Login and signup use it.
func (rt *Runtime) report(title string, err error, fallback string) error {
	rt.Notices.Error(title, describe(err, fallback))
	return &reportedError{err: err}
}

// describe picks the text shown for err: the domain message for local
// validation failures, the API message for rejections, else fallback.
func describe(err error, fallback string) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return connection.MessageOr(err, fallback)
}
