package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: "", wantErr: false},
		{name: "Local returns local", timezone: "Local", wantErr: false},
		{name: "valid timezone UTC", timezone: "UTC", wantErr: false},
		{name: "valid timezone Europe/Berlin", timezone: "Europe/Berlin", wantErr: false},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestLocationFromSettings(t *testing.T) {
	loc, err := LocationFromSettings(models.Settings{Timezone: "UTC"})
	if err != nil {
		t.Fatalf("LocationFromSettings() error = %v", err)
	}
	if loc.String() != "UTC" {
		t.Errorf("LocationFromSettings() = %v, want UTC", loc)
	}
	if _, err := LocationFromSettings(models.Settings{Timezone: "Mars/Olympus"}); err == nil {
		t.Error("LocationFromSettings() should reject an unknown timezone")
	}
}

func TestNowInTimezone(t *testing.T) {
	now, err := NowInTimezone("UTC")
	if err != nil {
		t.Fatalf("NowInTimezone() error = %v", err)
	}
	if now.IsZero() || now.Location().String() != "UTC" {
		t.Errorf("NowInTimezone() = %v", now)
	}
	if _, err := NowInTimezone("Invalid/Timezone"); err == nil {
		t.Error("NowInTimezone() should fail for invalid timezone")
	}
}

func TestParseDateInLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	got, err := ParseDateInLocation("2025-03-09", loc)
	if err != nil {
		t.Fatalf("ParseDateInLocation() error = %v", err)
	}
	want := time.Date(2025, 3, 9, 0, 0, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Errorf("ParseDateInLocation() = %v, want %v", got, want)
	}
	if _, err := ParseDateInLocation("03/09/2025", loc); err == nil {
		t.Error("ParseDateInLocation() should reject non ISO dates")
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2025, 1, 1, 17, 45, 12, 99, time.UTC)
	if got := StartOfDay(in); !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfDay() = %v", got)
	}
}

func TestValidateTimezone(t *testing.T) {
	if !ValidateTimezone("Local") || !ValidateTimezone("Asia/Tokyo") {
		t.Error("ValidateTimezone() rejected a valid timezone")
	}
	if ValidateTimezone("Nowhere/Special") {
		t.Error("ValidateTimezone() accepted an invalid timezone")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/.config/habitual/habitual.db", filepath.Join(home, ".config/habitual/habitual.db")},
		{"~", home},
		{"/tmp/habitual.db", "/tmp/habitual.db"},
		{"relative.db", "relative.db"},
		{"~other/file.db", "~other/file.db"},
	}

	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Fatalf("ExpandPath(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
