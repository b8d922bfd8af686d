package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// DefaultPrompt is shown before each line.
const DefaultPrompt = "notes> "

// Executor runs one parsed command line.
type Executor func(ctx context.Context, args []string) error

// Options configures a REPL.
type Options struct {
	Input  io.Reader
	Output io.Writer
	Prompt string
	// Commands are the known command paths, e.g. "notes list".
	Commands []string
	History  *History
	Exec     Executor
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	completer *Completer
	history   *History
	exec      Executor
}

// New creates a new REPL instance.
func New(opts Options) *REPL {
	r := &REPL{
		input:     opts.Input,
		output:    opts.Output,
		prompt:    opts.Prompt,
		completer: NewCompleter(opts.Commands),
		history:   opts.History,
		exec:      opts.Exec,
	}
	if r.input == nil {
		r.input = os.Stdin
	}
	if r.output == nil {
		r.output = os.Stdout
	}
	if r.prompt == "" {
		r.prompt = DefaultPrompt
	}
	if r.history == nil {
		r.history = NewHistory("")
	}
	return r
}

// Run starts the REPL loop. It returns nil on exit, quit or EOF.
func (r *REPL) Run(ctx context.Context) error {
	reader := bufio.NewReader(r.input)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.history.Add(line)

		if line == "exit" || line == "quit" {
			return nil
		}

		if err := r.execute(ctx, line); err != nil {
			fmt.Fprintf(r.output, "error: %v\n", err)
		}
	}
}

func (r *REPL) execute(ctx context.Context, line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse line: %w", err)
	}
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "history":
		return r.printHistory(args[1:])
	case "help", "-h", "--help":
		// handled by the CLI app
	default:
		// A leading flag is a global option; the executor validates it.
		if !strings.HasPrefix(args[0], "-") && !r.completer.Known(args[0]) {
			r.suggest(args[0])
			return nil
		}
	}

	if r.exec == nil {
		return nil
	}
	return r.exec(ctx, args)
}

func (r *REPL) printHistory(args []string) error {
	n := 20
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return fmt.Errorf("history: invalid count %q", args[0])
		}
		n = v
	}

	entries := r.history.Last(n)
	start := r.history.Len() - len(entries) + 1
	for i, e := range entries {
		fmt.Fprintf(r.output, "%5d  %s\n", start+i, e)
	}
	return nil
}

func (r *REPL) suggest(word string) {
	fmt.Fprintf(r.output, "unknown command %q\n", word)
	prefix := word
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	if s := r.completer.Complete(prefix); len(s) > 0 {
		fmt.Fprintf(r.output, "did you mean: %s\n", strings.Join(s, ", "))
	}
}
