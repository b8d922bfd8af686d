package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/yndnr/securenotes-go/internal/cli/connection"
	"github.com/yndnr/securenotes-go/internal/core/domain"
)

// Fallback messages shown when the API gives no usable error text.
const (
	MsgLoginFailed  = "Login failed. Check your credentials."
	MsgSignupFailed = "Signup failed. Try a different email."
	MsgFetchFailed  = "Failed to fetch notes."
	MsgSaveFailed   = "Failed to save note."
	MsgDeleteFailed = "Failed to delete note."
)

// Client calls the notes API endpoints.
type Client struct {
	http *connection.HTTPClient
}

// New creates an API client over the dispatcher.
func New(c *connection.HTTPClient) *Client {
	return &Client{http: c}
}

// Signup creates an account via POST /auth/signup. The response may or
// may not carry tokens depending on the server.
func (c *Client) Signup(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	creds = creds.Normalize()
	if err := creds.ValidateSignup(); err != nil {
		return nil, err
	}

	resp, err := c.http.Post(ctx, "/auth/signup", creds)
	if err != nil {
		return nil, err
	}
	var out domain.AuthResponse
	if err := connection.ParseResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for tokens via POST /auth/login.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	creds = creds.Normalize()
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.http.Post(ctx, "/auth/login", creds)
	if err != nil {
		return nil, err
	}
	var out domain.AuthResponse
	if err := connection.ParseResponse(resp, &out); err != nil {
		return nil, err
	}
	if !out.HasAccessToken() {
		return nil, domain.ErrNoAccessToken
	}
	return &out, nil
}

// ListNotes calls GET /notes. q is sent only when non-empty.
func (c *Client) ListNotes(ctx context.Context, q string) ([]domain.Note, error) {
	var query url.Values
	if q != "" {
		query = url.Values{"q": {q}}
	}

	resp, err := c.http.Get(ctx, "/notes", query)
	if err != nil {
		return nil, err
	}
	var notes []domain.Note
	if err := connection.ParseResponse(resp, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNote finds one note through the listing; the API has no
// single-note endpoint.
func (c *Client) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	if id == "" {
		return nil, domain.ErrNoteIDRequired
	}
	notes, err := c.ListNotes(ctx, "")
	if err != nil {
		return nil, err
	}
	return domain.FindNote(notes, id)
}

// CreateNote calls POST /notes.
func (c *Client) CreateNote(ctx context.Context, in domain.NoteInput) (*domain.Note, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.http.Post(ctx, "/notes", in)
	if err != nil {
		return nil, err
	}
	var note domain.Note
	if err := connection.ParseResponse(resp, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote calls PUT /notes/{id}.
func (c *Client) UpdateNote(ctx context.Context, id string, in domain.NoteInput) (*domain.Note, error) {
	if id == "" {
		return nil, domain.ErrNoteIDRequired
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.http.Put(ctx, notePath(id), in)
	if err != nil {
		return nil, err
	}
	var note domain.Note
	if err := connection.ParseResponse(resp, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote calls DELETE /notes/{id}.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrNoteIDRequired
	}
	resp, err := c.http.Delete(ctx, notePath(id))
	if err != nil {
		return err
	}
	return connection.ParseResponse(resp, nil)
}

func notePath(id string) string {
	return fmt.Sprintf("/notes/%s", url.PathEscape(id))
}
