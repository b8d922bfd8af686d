package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339", "2024-05-01T12:34:56Z", time.Date(2024, 5, 1, 12, 34, 56, 0, time.UTC), false},
		{"rfc3339 offset", "2024-05-01T12:34:56+02:00", time.Date(2024, 5, 1, 10, 34, 56, 0, time.UTC), false},
		{"naive", "2024-05-01T12:34:56", time.Date(2024, 5, 1, 12, 34, 56, 0, time.Local), false},
		{"naive micros", "2024-05-01T12:34:56.123456", time.Date(2024, 5, 1, 12, 34, 56, 123456000, time.Local), false},
		{"space separated", "2024-05-01 12:34:56", time.Date(2024, 5, 1, 12, 34, 56, 0, time.Local), false},
		{"date only", "2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local), false},
		{"empty", "", time.Time{}, false},
		{"garbage", "yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimestamp(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got.Time, tt.want)
			}
		})
	}
}

func TestTimestamp_JSON(t *testing.T) {
	var n Note
	body := `{"id":1,"title":"a","content":"b","created_at":null,"updated_at":"2024-05-01T12:34:56.5"}`
	if err := json.Unmarshal([]byte(body), &n); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !n.CreatedAt.IsZero() {
		t.Errorf("created_at = %v, want zero", n.CreatedAt.Time)
	}
	if n.UpdatedAt.Nanosecond() != 500000000 {
		t.Errorf("updated_at = %v", n.UpdatedAt.Time)
	}

	out, err := json.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "created_at") {
		t.Errorf("zero created_at should be omitted: %s", out)
	}
	if !strings.Contains(string(out), `"updated_at":"2024-05-01T12:34:56.5`) {
		t.Errorf("updated_at not RFC 3339: %s", out)
	}

	if err := json.Unmarshal([]byte(`{"updated_at":42}`), &n); err == nil {
		t.Error("a number is not a timestamp")
	}
}

func TestTimestamp_Display(t *testing.T) {
	if got := (Timestamp{}).Display(); got != "-" {
		t.Errorf("zero Display() = %q", got)
	}
	ts := NewTimestamp(time.Date(2024, time.March, 5, 14, 7, 0, 0, time.Local))
	if got := ts.Display(); got != "Mar 5, 2024 2:07 PM" {
		t.Errorf("Display() = %q", got)
	}
}
