package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yndnr/securenotes-go/internal/cli/command"
	"github.com/yndnr/securenotes-go/internal/infra/shutdown"
)

func main() {
	ctx, stop := shutdown.WithSignals(context.Background())
	defer stop()

	app := command.App()

	if err := app.RunContext(ctx, os.Args); err != nil {
		if !command.IsReported(err) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
