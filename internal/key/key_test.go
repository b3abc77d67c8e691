package key

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name          string
		in            string
		caseSensitive bool
		want          ID
	}{
		{"lowercases by default", "A", false, "a"},
		{"already lowercase", "j", false, "j"},
		{"special key passes through", "ArrowLeft", false, "arrowleft"},
		{"case sensitive preserves", "A", true, "A"},
		{"space unchanged", " ", false, " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in, tt.caseSensitive); got != tt.want {
				t.Errorf("Normalize(%q, %v) = %q, want %q", tt.in, tt.caseSensitive, got, tt.want)
			}
		})
	}
}

func TestComparer_Compare(t *testing.T) {
	tests := []struct {
		name          string
		caseSensitive bool
		a, b          any
		want          bool
		wantErr       bool
	}{
		{"equal case-insensitive", false, "A", "a", true, false},
		{"equal same case", false, "j", "j", true, false},
		{"not equal", false, "f", "j", false, false},
		{"case sensitive mismatch", true, "A", "a", false, false},
		{"case sensitive match", true, "A", "A", true, false},
		{"both nil", false, nil, nil, true, false},
		{"left nil", false, nil, "a", false, false},
		{"right nil", false, "a", nil, false, false},
		{"non-string argument", false, 5, "a", false, true},
		{"both non-string", false, 5, 7, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComparer(tt.caseSensitive)
			got, err := c.Compare(tt.a, tt.b)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Compare(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEvent_Consume(t *testing.T) {
	ev := NewDown("a")
	if ev.IsConsumed() {
		t.Error("new event should not be consumed")
	}
	ev.Consume()
	if !ev.IsConsumed() {
		t.Error("expected event to be consumed")
	}
}

func TestKind_String(t *testing.T) {
	if KindDown.String() != "down" || KindUp.String() != "up" {
		t.Errorf("unexpected kind strings: %q, %q", KindDown, KindUp)
	}
}
