package session

import (
	"context"
	"errors"
	"testing"

	"github.com/yndnr/securenotes-go/internal/cli/tokenstore"
	"github.com/yndnr/securenotes-go/internal/core/domain"
	"github.com/yndnr/securenotes-go/internal/storage"
	"github.com/yndnr/securenotes-go/internal/telemetry/logger"
)

func newManager(kv storage.KV) (*Manager, *tokenstore.Store) {
	store := tokenstore.New(logger.WithLogger(context.Background(), logger.Discard()), kv, "")
	return NewManager(store), store
}

func TestNewManager(t *testing.T) {
	m, _ := newManager(storage.NewMemoryKV())
	if m.State() != StateAbsent {
		t.Error("new manager should report StateAbsent")
	}
	if m.IsAuthenticated() {
		t.Error("IsAuthenticated() should be false")
	}
}

func TestManager_Establish(t *testing.T) {
	m, store := newManager(storage.NewMemoryKV())

	if err := m.Establish("abc"); err != nil {
		t.Fatalf("Establish failed: %v", err)
	}
	if m.State() != StatePresent {
		t.Error("State() should be present after Establish")
	}
	if tok, _ := store.Get(); tok != "abc" {
		t.Errorf("store holds %q", tok)
	}
}

func TestManager_EstablishEmpty(t *testing.T) {
	m, _ := newManager(nil)

	err := m.Establish("")
	if !errors.Is(err, domain.ErrCredentialEmpty) {
		t.Errorf("expected ErrCredentialEmpty, got %v", err)
	}
	if m.IsAuthenticated() {
		t.Error("rejected credential must not establish a session")
	}
}

func TestManager_End(t *testing.T) {
	m, _ := newManager(storage.NewMemoryKV())

	_ = m.Establish("abc")
	m.End()
	if m.State() != StateAbsent {
		t.Error("State() should be absent after End")
	}

	m.End()
	if m.IsAuthenticated() {
		t.Error("End should be idempotent")
	}
}

func TestManager_StateIsNotCached(t *testing.T) {
	m, store := newManager(storage.NewMemoryKV())

	// Changes made directly on the store, e.g. by the dispatcher on 401,
	// are visible immediately.
	store.Set("abc")
	if !m.IsAuthenticated() {
		t.Error("expected present after direct Set")
	}
	store.Clear()
	if m.IsAuthenticated() {
		t.Error("expected absent after direct Clear")
	}
}

func TestManager_FailingBackend(t *testing.T) {
	kv := storage.NewMemoryKV()
	kv.SetFailing(true)
	m, _ := newManager(kv)

	if m.State() != StateAbsent {
		t.Error("unavailable storage reads as absent")
	}
	if err := m.Establish("abc"); err != nil {
		t.Fatal(err)
	}
	if !m.IsAuthenticated() {
		t.Error("session must hold in memory despite failing storage")
	}
}

func TestState_String(t *testing.T) {
	if StatePresent.String() != "present" || StateAbsent.String() != "absent" {
		t.Error("unexpected State strings")
	}
}
