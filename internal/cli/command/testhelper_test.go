package command

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/securenotes-go/internal/cli/config"
	"github.com/yndnr/securenotes-go/internal/core/domain"
	"github.com/yndnr/securenotes-go/internal/storage"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "correct-horse"
	testToken    = "tok-1"
)

// fakeAPI is an in-memory notes API.
type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	notes    []domain.Note
	nextID   int
	requests []string
	// signupToken is returned by /auth/signup when set.
	signupToken string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		nextID: 3,
		notes: []domain.Note{
			{ID: "1", Title: "Groceries", Content: "milk, eggs"},
			{ID: "2", Title: "Ideas", Content: "write a CLI"},
		},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	switch {
	case r.URL.Path == "/auth/login" && r.Method == http.MethodPost:
		var creds domain.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != testEmail || creds.Password != testPassword {
			jsonResponse(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
			return
		}
		jsonResponse(w, http.StatusOK, domain.AuthResponse{AccessToken: testToken, TokenType: "bearer"})
		return

	case r.URL.Path == "/auth/signup" && r.Method == http.MethodPost:
		var creds domain.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email == "taken@example.com" {
			jsonResponse(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
			return
		}
		jsonResponse(w, http.StatusCreated, domain.AuthResponse{AccessToken: f.signupToken})
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+testToken {
		jsonResponse(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
		return
	}

	switch {
	case r.URL.Path == "/notes" && r.Method == http.MethodGet:
		q := strings.ToLower(r.URL.Query().Get("q"))
		out := []domain.Note{}
		for _, n := range f.notes {
			if q == "" || strings.Contains(strings.ToLower(n.Title+" "+n.Content), q) {
				out = append(out, n)
			}
		}
		jsonResponse(w, http.StatusOK, out)

	case r.URL.Path == "/notes" && r.Method == http.MethodPost:
		var in domain.NoteInput
		json.NewDecoder(r.Body).Decode(&in)
		n := domain.Note{ID: domain.NoteID(strconv.Itoa(f.nextID)), Title: in.Title, Content: in.Content}
		f.nextID++
		f.notes = append(f.notes, n)
		jsonResponse(w, http.StatusCreated, n)

	case strings.HasPrefix(r.URL.Path, "/notes/"):
		id := strings.TrimPrefix(r.URL.Path, "/notes/")
		idx := -1
		for i, n := range f.notes {
			if n.ID.String() == id {
				idx = i
			}
		}
		if idx < 0 {
			jsonResponse(w, http.StatusNotFound, map[string]string{"detail": "Note not found"})
			return
		}
		switch r.Method {
		case http.MethodPut:
			var in domain.NoteInput
			json.NewDecoder(r.Body).Decode(&in)
			f.notes[idx].Title = in.Title
			f.notes[idx].Content = in.Content
			jsonResponse(w, http.StatusOK, f.notes[idx])
		case http.MethodDelete:
			f.notes = append(f.notes[:idx], f.notes[idx+1:]...)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAPI) requestLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeAPI) sent(req string) bool {
	for _, r := range f.requestLog() {
		if r == req {
			return true
		}
	}
	return false
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// harness runs the real app against a fakeAPI with an in-memory store.
type harness struct {
	t      *testing.T
	app    *cli.App
	rt     *Runtime
	kv     *storage.MemoryKV
	api    *fakeAPI
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	stdin  *bytes.Buffer
}

func newHarness(t *testing.T, format string) *harness {
	t.Helper()

	h := &harness{
		t:      t,
		api:    newFakeAPI(t),
		kv:     storage.NewMemoryKV(),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		stdin:  &bytes.Buffer{},
	}

	cfg := config.Default()
	cfg.API.BaseURL = h.api.URL
	cfg.Storage.Backend = storage.BackendMemory
	cfg.Output.Format = format
	cfg.Output.Color = false
	cfg.Log.Level = "error"

	rt, err := NewRuntime(t.Context(), cfg, h.kv, h.stdout, h.stderr, h.stdin, false)
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}
	rt.ConfigPath = t.TempDir() + "/cli.yaml"
	// Keep the runtime attached across runs; teardown never reaches zero.
	rt.depth = 1
	h.rt = rt

	h.app = App()
	h.app.Writer = h.stdout
	h.app.ErrWriter = h.stderr
	h.app.Reader = h.stdin
	Attach(h.app, rt)
	return h
}

// run executes one command line and returns its error.
func (h *harness) run(args ...string) error {
	h.t.Helper()
	return h.app.Run(append([]string{"securenotes-cli"}, args...))
}

func (h *harness) reset() {
	h.stdout.Reset()
	h.stderr.Reset()
}

func (h *harness) login() {
	h.t.Helper()
	h.rt.Session.Establish(testToken)
}
