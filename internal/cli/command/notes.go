package command

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/securenotes-go/internal/cli/api"
	"github.com/yndnr/securenotes-go/internal/cli/output"
	"github.com/yndnr/securenotes-go/internal/core/domain"
)

// NotesCommand returns the notes subcommand group.
func NotesCommand() *cli.Command {
	return &cli.Command{
		Name:    "notes",
		Aliases: []string{"note", "n"},
		Usage:   "Manage notes",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List notes",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Search text",
					},
				},
				Action: notesList,
			},
			{
				Name:      "get",
				Usage:     "Show one note",
				ArgsUsage: "NOTE_ID",
				Action:    notesGet,
			},
			{
				Name:  "create",
				Usage: "Create a note",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "Note title",
					},
					&cli.StringFlag{
						Name:    "content",
						Aliases: []string{"m"},
						Usage:   "Note content",
					},
				},
				Action: notesCreate,
			},
			{
				Name:      "update",
				Aliases:   []string{"edit"},
				Usage:     "Replace a note's title and content",
				ArgsUsage: "NOTE_ID [--title TITLE] [--content CONTENT]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "Note title",
					},
					&cli.StringFlag{
						Name:    "content",
						Aliases: []string{"m"},
						Usage:   "Note content",
					},
				},
				Action: notesUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a note",
				ArgsUsage: "NOTE_ID [--force]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: notesDelete,
			},
		},
	}
}

func noteID(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		return "", fmt.Errorf("%w (usage: %s)", domain.ErrNoteIDRequired, c.Command.ArgsUsage)
	}
	return c.Args().First(), nil
}

// trailingFlags parses the flags that follow NOTE_ID. urfave/cli stops
// at the first positional argument, so in `notes update 1 -t x` the title
// would otherwise be left unset. The result is keyed by primary flag name.
func trailingFlags(c *cli.Context) (map[string]string, error) {
	set := map[string]string{}
	if c.NArg() <= 1 {
		return set, nil
	}

	fs := flag.NewFlagSet(c.Command.Name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	primary := map[string]string{}
	for _, f := range c.Command.Flags {
		if err := f.Apply(fs); err != nil {
			return nil, err
		}
		names := f.Names()
		for _, name := range names {
			primary[name] = names[0]
		}
	}
	if err := fs.Parse(c.Args().Tail()); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Command.Name, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%s: unexpected argument %q", c.Command.Name, fs.Arg(0))
	}

	fs.Visit(func(f *flag.Flag) {
		set[primary[f.Name]] = f.Value.String()
	})
	return set, nil
}

func noteInput(c *cli.Context, trailing map[string]string) domain.NoteInput {
	in := domain.NoteInput{
		Title:   c.String("title"),
		Content: c.String("content"),
	}
	if v, ok := trailing["title"]; ok {
		in.Title = v
	}
	if v, ok := trailing["content"]; ok {
		in.Content = v
	}
	return in
}

func forced(c *cli.Context, trailing map[string]string) bool {
	if v, ok := trailing["force"]; ok {
		b, _ := strconv.ParseBool(v)
		return b
	}
	return c.Bool("force")
}

func notesList(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}

	notes, err := rt.API.ListNotes(c.Context, c.String("query"))
	if err != nil {
		return rt.fail("Error", err, api.MsgFetchFailed)
	}
	if _, table := rt.Formatter.(*output.TableFormatter); table && len(notes) == 0 {
		fmt.Fprintln(rt.Out, "No notes found.")
		return nil
	}
	return rt.render(output.NoteList(notes))
}

func notesGet(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	id, err := noteID(c)
	if err != nil {
		return err
	}

	note, err := rt.API.GetNote(c.Context, id)
	if err != nil {
		return rt.fail("Error", err, api.MsgFetchFailed)
	}
	return rt.render(output.NoteDetail(*note))
}

func notesCreate(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}

	note, err := rt.API.CreateNote(c.Context, noteInput(c, nil))
	if err != nil {
		return rt.fail("Save failed", err, api.MsgSaveFailed)
	}
	rt.Notices.Info("Saved", "New note created.")
	return rt.render(output.NoteDetail(*note))
}

func notesUpdate(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	id, err := noteID(c)
	if err != nil {
		return err
	}
	trailing, err := trailingFlags(c)
	if err != nil {
		return err
	}

	note, err := rt.API.UpdateNote(c.Context, id, noteInput(c, trailing))
	if err != nil {
		return rt.fail("Save failed", err, api.MsgSaveFailed)
	}
	rt.Notices.Info("Updated", "Note updated.")
	return rt.render(output.NoteDetail(*note))
}

func notesDelete(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	id, err := noteID(c)
	if err != nil {
		return err
	}

	trailing, err := trailingFlags(c)
	if err != nil {
		return err
	}

	if !forced(c, trailing) && !confirm(rt, c.App.ErrWriter, "Delete this note? This cannot be undone.") {
		fmt.Fprintln(c.App.ErrWriter, "Aborted.")
		return nil
	}

	if err := rt.API.DeleteNote(c.Context, id); err != nil {
		return rt.fail("Delete failed", err, api.MsgDeleteFailed)
	}
	rt.Notices.Info("Deleted", "Note removed.")
	return nil
}
