package logger

import (
	"encoding/json"
	"testing"
)

const sampleJWT = "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig-value"

func TestRedact_SensitiveKeys(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"access_token", "opaque-credential"},
		{"password", "hunter2"},
		{"Authorization", "anything"},
		{"encryption_key", "passphrase"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			l, buf := newBufferLogger(t, "info", "json")
			l.Info("msg", tt.key, tt.value)

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("parse log: %v", err)
			}
			if entry[tt.key] != redactedValue {
				t.Errorf("%s = %v, want %q", tt.key, entry[tt.key], redactedValue)
			}
		})
	}
}

func TestRedact_JWTValueUnderNeutralKey(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")
	l.Info("msg", "value", sampleJWT)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse log: %v", err)
	}
	if entry["value"] != "eyJ...lue" {
		t.Errorf("value = %v, want %q", entry["value"], "eyJ...lue")
	}
}

func TestRedact_EmptyValueKept(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")
	l.Info("msg", "token", "")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse log: %v", err)
	}
	if entry["token"] != "" {
		t.Errorf("empty token should be logged as empty, got %v", entry["token"])
	}
}

func TestRedactString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bearer header", "Bearer abcdefghijkl", "Bearer abc...jkl"},
		{"short bearer", "Bearer abc", "Bearer ***"},
		{"jwt", sampleJWT, "eyJ...lue"},
		{"plain text untouched", "hello world", "hello world"},
		{"eyJ without dots untouched", "eyJnotatoken", "eyJnotatoken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactString(tt.input); got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsSensitiveKey(t *testing.T) {
	for _, key := range []string{"token", "X-Access-Token", "user_password", "SECRET"} {
		if !IsSensitiveKey(key) {
			t.Errorf("IsSensitiveKey(%q) = false, want true", key)
		}
	}
	for _, key := range []string{"method", "path", "status"} {
		if IsSensitiveKey(key) {
			t.Errorf("IsSensitiveKey(%q) = true, want false", key)
		}
	}
}
