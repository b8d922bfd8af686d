package output

import (
	"strings"

	"github.com/yndnr/securenotes-go/internal/core/domain"
)

// NoteList renders a listing: id, title, last update and an excerpt.
type NoteList []domain.Note

// Table implements Tabular.
func (l NoteList) Table(wide bool) *Table {
	t := &Table{Headers: []string{"ID", "TITLE", "UPDATED", "EXCERPT"}}
	if wide {
		t.Headers = []string{"ID", "TITLE", "CREATED", "UPDATED", "EXCERPT"}
	}

	for i := range l {
		n := &l[i]
		excerpt := domain.Excerpt(n.Content)
		if excerpt == "" {
			excerpt = "-"
		}
		if wide {
			t.AddRow(n.ID.String(), n.DisplayTitle(), n.CreatedAt.Display(), n.DisplayUpdated(), excerpt)
			continue
		}
		t.AddRow(n.ID.String(), n.DisplayTitle(), n.DisplayUpdated(), excerpt)
	}
	return t
}

// NoteDetail renders one note with its full content.
type NoteDetail domain.Note

// Table implements Tabular. Content is printed verbatim after the
// metadata rows, each line indented under CONTENT.
func (d NoteDetail) Table(wide bool) *Table {
	n := domain.Note(d)
	t := &Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("id", n.ID.String())
	t.AddRow("title", n.DisplayTitle())
	if wide && !n.CreatedAt.IsZero() {
		t.AddRow("created", n.CreatedAt.Display())
	}
	t.AddRow("updated", n.DisplayUpdated())

	lines := strings.Split(strings.TrimRight(n.Content, "\n"), "\n")
	for i, line := range lines {
		label := ""
		if i == 0 {
			label = "content"
		}
		t.AddRow(label, line)
	}
	return t
}
