package cmd

import (
	"errors"
	"testing"

	"voltrack/config"
	"voltrack/review"
	"voltrack/volunteer"
)

func TestResolveDBPath(t *testing.T) {
	tests := []struct {
		name   string
		flag   string
		config string
		want   string
	}{
		{name: "flag wins", flag: "./flag.db", config: "./config.db", want: "./flag.db"},
		{name: "config fallback", flag: "  ", config: "./config.db", want: "./config.db"},
		{name: "default", want: config.DefaultDBPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveDBPath(tt.flag, tt.config); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewSyncServiceDisabled(t *testing.T) {
	service, err := newSyncService(config.Config{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if service != nil {
		t.Fatalf("expected no sync service when remote is disabled")
	}
}

func TestNewSyncServiceRejectsBadURL(t *testing.T) {
	cfg := config.Config{Remote: config.RemoteConfig{Enabled: true, URL: "not a url"}}
	if _, err := newSyncService(cfg, nil); err == nil {
		t.Fatalf("expected error for invalid remote URL")
	}
}

func TestParseAttendee(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    review.Attendee
		wantErr bool
	}{
		{name: "id only", value: " v1 ", want: review.Attendee{VolunteerID: "v1"}},
		{name: "with times", value: "v1@09:00-11:30", want: review.Attendee{VolunteerID: "v1", CheckIn: "09:00", CheckOut: "11:30"}},
		{name: "12 hour times", value: "v2@9:00 AM-1:00 PM", want: review.Attendee{VolunteerID: "v2", CheckIn: "9:00 AM", CheckOut: "1:00 PM"}},
		{name: "empty id", value: "@09:00-10:00", wantErr: true},
		{name: "missing check-out", value: "v1@09:00", wantErr: true},
		{name: "empty check-in", value: "v1@-10:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAttendee(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestBuildHoursEntry(t *testing.T) {
	entry, err := buildHoursEntry("01/03/2026", "9:00 AM", "1:00 PM", "11:00", "11:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := volunteer.HoursEntry{Date: "2026-03-01", CheckIn: "09:00", CheckOut: "13:00", BreakStart: "11:00", BreakEnd: "11:30"}
	if entry != want {
		t.Fatalf("expected %+v, got %+v", want, entry)
	}

	entry, err = buildHoursEntry("2026-03-01", "22:00", "02:00", "", "")
	if err != nil {
		t.Fatalf("unexpected error for overnight session: %v", err)
	}
	if entry.BreakStart != "" || entry.BreakEnd != "" {
		t.Fatalf("expected no break, got %+v", entry)
	}

	for _, tc := range [][5]string{
		{"someday", "09:00", "10:00", "", ""},
		{"2026-03-01", "later", "10:00", "", ""},
		{"2026-03-01", "09:00", "24:00", "", ""},
		{"2026-03-01", "09:00", "12:00", "10:00", ""},
	} {
		_, err := buildHoursEntry(tc[0], tc[1], tc[2], tc[3], tc[4])
		if !errors.Is(err, volunteer.ErrInvalidHours) {
			t.Fatalf("expected ErrInvalidHours for %v, got %v", tc, err)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret(""); got != "" {
		t.Fatalf("expected empty mask, got %q", got)
	}
	if got := maskSecret("abc"); got != "****" {
		t.Fatalf("expected full mask, got %q", got)
	}
	if got := maskSecret("secret-key-1234"); got != "****1234" {
		t.Fatalf("expected suffix mask, got %q", got)
	}
}
