package repl

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestHistory_Add(t *testing.T) {
	h := NewHistory("")
	h.Add("status")
	h.Add("status")
	h.Add("notes list")

	if h.Len() != 2 {
		t.Errorf("Len() = %d, immediate repeats should collapse", h.Len())
	}
	if h.Get(0) != "notes list" || h.Get(1) != "status" {
		t.Errorf("Get order wrong: %q, %q", h.Get(0), h.Get(1))
	}
	if h.Get(5) != "" || h.Get(-1) != "" {
		t.Error("out of range Get should return empty")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory("")
	for i := 0; i < DefaultHistorySize+10; i++ {
		h.Add(fmt.Sprintf("cmd %d", i))
	}

	if h.Len() != DefaultHistorySize {
		t.Errorf("Len() = %d, want %d", h.Len(), DefaultHistorySize)
	}
	if h.Last(1)[0] != fmt.Sprintf("cmd %d", DefaultHistorySize+9) {
		t.Errorf("newest entry = %q", h.Last(1)[0])
	}
	if h.Get(DefaultHistorySize-1) != "cmd 10" {
		t.Errorf("oldest entry = %q", h.Get(DefaultHistorySize-1))
	}
}

func TestHistory_Last(t *testing.T) {
	h := NewHistory("")
	h.Add("a")
	h.Add("b")

	if got := h.Last(10); len(got) != 2 || got[0] != "a" {
		t.Errorf("Last(10) = %v", got)
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "history")

	h := NewHistory(file)
	h.Add("login --email you@example.com")
	h.Add("notes list")
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(file)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %o", info.Mode().Perm())
	}

	loaded := NewHistory(file)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != 2 || loaded.Get(0) != "notes list" {
		t.Errorf("loaded = %v", loaded.Last(10))
	}
}

func TestHistory_Load_NonexistentFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "absent"))
	if err := h.Load(); err != nil {
		t.Errorf("Load() error = %v", err)
	}
}

func TestHistory_MemoryOnly(t *testing.T) {
	h := NewHistory("")
	h.Add("x")
	if err := h.Save(); err != nil {
		t.Error(err)
	}
	if err := h.Load(); err != nil {
		t.Error(err)
	}
}

func TestDefaultHistoryFile(t *testing.T) {
	if filepath.Base(DefaultHistoryFile()) != "history" {
		t.Errorf("DefaultHistoryFile() = %q", DefaultHistoryFile())
	}
}
