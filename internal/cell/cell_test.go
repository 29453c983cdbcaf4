package cell

import (
	"testing"
	"time"
)

func TestParseKinds(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		raw  any
		want Kind
	}{
		{name: "nil", raw: nil, want: KindEmpty},
		{name: "empty string", raw: "", want: KindEmpty},
		{name: "string", raw: "9:30", want: KindText},
		{name: "float", raw: 0.5, want: KindNumber},
		{name: "int", raw: 9, want: KindNumber},
		{name: "time", raw: stamp, want: KindTime},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Parse(tt.raw).Kind(); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestIsEmptyTreatsBlankTextAsEmpty(t *testing.T) {
	t.Parallel()

	if !Text("   ").IsEmpty() {
		t.Fatalf("expected blank text to be empty")
	}
	if Number(0).IsEmpty() {
		t.Fatalf("expected numeric zero to be non-empty")
	}
}

func TestNumberWithDisplayKeepsFormattedText(t *testing.T) {
	t.Parallel()

	value := NumberWithDisplay(0.375, " 9:00 AM ")
	if value.String() != "9:00 AM" {
		t.Fatalf("unexpected display %q", value.String())
	}
	if n, ok := value.Number(); !ok || n != 0.375 {
		t.Fatalf("expected numeric payload 0.375, got %v (%v)", n, ok)
	}
}

func TestAtOutOfRange(t *testing.T) {
	t.Parallel()

	row := Row("a", "b")
	if !At(row, 5).IsEmpty() || !At(row, -1).IsEmpty() {
		t.Fatalf("expected empty cell outside of row")
	}
	if At(row, 1).String() != "b" {
		t.Fatalf("unexpected cell %q", At(row, 1).String())
	}
}
