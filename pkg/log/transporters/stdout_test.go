package transporters

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"recipegram/pkg/log"
)

func TestStdout_WritesLineDelimitedJSON(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	transporter := NewStdoutWithWriter(&buf)
	entry := log.NewEntry(log.Info, "hello").With("k", "v")

	// Act
	if err := transporter.Write(*entry); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := transporter.Write(*entry); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// Assert
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if m["msg"] != "hello" || m["k"] != "v" {
		t.Errorf("unexpected payload: %v", m)
	}
}

func TestStdout_NameAndClose(t *testing.T) {
	transporter := NewStdout()
	if transporter.Name() != "stdout" {
		t.Errorf("name = %q", transporter.Name())
	}
	if err := transporter.Close(); err != nil {
		t.Errorf("close returned %v", err)
	}
}
