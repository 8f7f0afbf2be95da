package log

import (
	"errors"
	"testing"
)

func TestLevel_String_ReturnsCanonicalName(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{Trace, "TRACE"},
		{Debug, "DEBUG"},
		{Info, "INFO"},
		{Warn, "WARN"},
		{Error, "ERROR"},
		{Fatal, "FATAL"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got := tt.level.String()
			if got != tt.expected {
				t.Errorf("Level.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseLevel_AcceptsAnyCase(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"trace", Trace},
		{"DEBUG", Debug},
		{"Info", Info},
		{"warn", Warn},
		{"warning", Warn},
		{"ERROR", Error},
		{"fatal", Fatal},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if err != nil {
				t.Fatalf("ParseLevel(%q) returned error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseLevel_UnknownString_ReturnsError(t *testing.T) {
	got, err := ParseLevel("verbose")

	if !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("ParseLevel error = %v, want ErrInvalidLevel", err)
	}
	if got != Info {
		t.Errorf("ParseLevel fallback = %v, want Info", got)
	}
}

func TestLevel_Enables_SelfAndAbove(t *testing.T) {
	if !Warn.Enables(Warn) {
		t.Error("Warn should enable Warn")
	}
	if !Warn.Enables(Error) {
		t.Error("Warn should enable Error")
	}
	if Warn.Enables(Info) {
		t.Error("Warn should not enable Info")
	}
}
