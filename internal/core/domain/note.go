package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const (
	// ExcerptLength is the maximum number of runes shown in a list excerpt.
	ExcerptLength = 90

	// UntitledLabel replaces an empty title in listings.
	UntitledLabel = "Untitled"

	// DisplayTimeLayout is the timestamp layout used in listings and details.
	DisplayTimeLayout = "Jan 2, 2006 3:04 PM"
)

// NoteID identifies a note. The remote API may encode it as a JSON string
// or a JSON number; both decode to the same textual form.
type NoteID string

// UnmarshalJSON accepts both "42" and 42.
func (id *NoteID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NoteID(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = NoteID(n.String())
	return nil
}

// String returns the textual id.
func (id NoteID) String() string {
	return string(id)
}

// Note is a note as returned by the remote API.
type Note struct {
	ID        NoteID    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt Timestamp `json:"created_at,omitzero" yaml:"created_at,omitempty"`
	UpdatedAt Timestamp `json:"updated_at,omitzero" yaml:"updated_at,omitempty"`
}

// DisplayTitle returns the title, or "Untitled" when it is blank.
func (n *Note) DisplayTitle() string {
	if strings.TrimSpace(n.Title) == "" {
		return UntitledLabel
	}
	return n.Title
}

// DisplayUpdated formats UpdatedAt for humans, or "-" if unknown.
func (n *Note) DisplayUpdated() string {
	return n.UpdatedAt.Display()
}

// Excerpt collapses whitespace and truncates content for list views.
func Excerpt(content string) string {
	s := strings.Join(strings.Fields(content), " ")
	if s == "" {
		return ""
	}
	if utf8.RuneCountInString(s) > ExcerptLength {
		runes := []rune(s)
		return string(runes[:ExcerptLength]) + "…"
	}
	return s
}

// FindNote returns the note with the given id from a listing.
func FindNote(notes []Note, id string) (*Note, error) {
	for i := range notes {
		if notes[i].ID.String() == id {
			return &notes[i], nil
		}
	}
	return nil, ErrNoteNotFound.WithDetails(id)
}

// NoteInput is the payload for POST /notes and PUT /notes/{id}.
type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Normalize trims the title. Content is sent as typed.
func (in NoteInput) Normalize() NoteInput {
	return NoteInput{
		Title:   strings.TrimSpace(in.Title),
		Content: in.Content,
	}
}

// Validate requires a non-blank title and non-blank content.
func (in NoteInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(in.Content) == "" {
		return ErrContentRequired
	}
	return nil
}
