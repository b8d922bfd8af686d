package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/securenotes-go/internal/infra/buildinfo"
)

// DebugCommand returns the debug subcommand group.
func DebugCommand() *cli.Command {
	return &cli.Command{
		Name:  "debug",
		Usage: "Diagnostics",
		Subcommands: []*cli.Command{
			{
				Name:   "metrics",
				Usage:  "Print client metrics for this process (Prometheus text format)",
				Action: debugMetrics,
			},
		},
	}
}

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show build information",
		Action: showVersion,
	}
}

func debugMetrics(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	return rt.Metrics.WriteText(rt.Out)
}

func showVersion(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	return rt.render(buildinfo.Get())
}
