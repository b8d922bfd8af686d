package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/yndnr/securenotes-go/pkg/crypto/adaptive"
)

func TestSealedKV_RoundTrip(t *testing.T) {
	inner := NewMemoryKV()
	kv, err := NewSealedKV(inner, []byte("passphrase"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := kv.Set(ctx, "token", []byte("secret-token")); err != nil {
		t.Fatal(err)
	}

	raw, err := inner.Get(ctx, "token")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte("secret-token")) {
		t.Error("plaintext visible in backend")
	}
	if !bytes.Equal(raw[:SaltLength], kv.salt) {
		t.Error("stored value should start with the store's salt")
	}
	if raw[SaltLength] != byte(adaptive.Preferred()) {
		t.Errorf("algorithm tag = %d, want %d", raw[SaltLength], adaptive.Preferred())
	}

	got, err := kv.Get(ctx, "token")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "secret-token" {
		t.Errorf("got %q", got)
	}
}

func TestSealedKV_NonceIsFresh(t *testing.T) {
	inner := NewMemoryKV()
	kv, _ := NewSealedKV(inner, []byte("passphrase"))
	ctx := context.Background()

	kv.Set(ctx, "a", []byte("same"))
	kv.Set(ctx, "b", []byte("same"))
	ra, _ := inner.Get(ctx, "a")
	rb, _ := inner.Get(ctx, "b")
	if bytes.Equal(ra, rb) {
		t.Error("identical plaintexts produced identical ciphertexts")
	}
}

func TestSealedKV_OpenFailures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(inner *MemoryKV)
	}{
		{
			name: "wrong secret",
			setup: func(inner *MemoryKV) {
				other, _ := NewSealedKV(inner, []byte("other"))
				other.Set(ctx, "token", []byte("v"))
			},
		},
		{
			name: "moved to another key",
			setup: func(inner *MemoryKV) {
				kv, _ := NewSealedKV(NewMemoryKV(), []byte("passphrase"))
				kv.Set(ctx, "elsewhere", []byte("v"))
				raw, _ := kv.inner.Get(ctx, "elsewhere")
				inner.Set(ctx, "token", raw)
			},
		},
		{
			name: "truncated",
			setup: func(inner *MemoryKV) {
				inner.Set(ctx, "token", []byte{byte(adaptive.ChaCha20Poly1305), 1, 2})
			},
		},
		{
			name: "truncated after salt",
			setup: func(inner *MemoryKV) {
				v := append(make([]byte, SaltLength), byte(adaptive.ChaCha20Poly1305), 1, 2)
				inner.Set(ctx, "token", v)
			},
		},
		{
			name: "plaintext from before encryption",
			setup: func(inner *MemoryKV) {
				inner.Set(ctx, "token", []byte("legacy-plaintext-token-value-here"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := NewMemoryKV()
			tt.setup(inner)
			kv, _ := NewSealedKV(inner, []byte("passphrase"))
			if _, err := kv.Get(ctx, "token"); !errors.Is(err, ErrOpenFailed) {
				t.Errorf("expected ErrOpenFailed, got %v", err)
			}
		})
	}
}

func TestNewSealedKV_EmptySecret(t *testing.T) {
	if _, err := NewSealedKV(NewMemoryKV(), nil); !errors.Is(err, ErrSecretEmpty) {
		t.Errorf("expected ErrSecretEmpty, got %v", err)
	}
}

func TestSealedKV_ReadsEitherAlgorithm(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryKV()

	chacha, err := newSealedKV(inner, []byte("passphrase"), adaptive.ChaCha20Poly1305)
	if err != nil {
		t.Fatal(err)
	}
	if err := chacha.Set(ctx, "token", []byte("v1")); err != nil {
		t.Fatal(err)
	}

	gcm, err := newSealedKV(inner, []byte("passphrase"), adaptive.AES256GCM)
	if err != nil {
		t.Fatal(err)
	}
	got, err := gcm.Get(ctx, "token")
	if err != nil || string(got) != "v1" {
		t.Errorf("Get() = %q, %v", got, err)
	}
}

func TestSealedKV_OpensAcrossInstances(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryKV()

	first, err := NewSealedKV(inner, []byte("passphrase"))
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Set(ctx, "token", []byte("tok-1")); err != nil {
		t.Fatal(err)
	}

	// A later process draws a new salt but must still read the old value.
	second, err := NewSealedKV(inner, []byte("passphrase"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(first.salt, second.salt) {
		t.Fatal("each store should draw its own salt")
	}
	got, err := second.Get(ctx, "token")
	if err != nil || string(got) != "tok-1" {
		t.Errorf("Get() = %q, %v; want tok-1", got, err)
	}
	if len(second.openers) != 2 {
		t.Errorf("openers = %d, want the foreign salt cached", len(second.openers))
	}
}
