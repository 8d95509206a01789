package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExecuteSurfacesErrors(t *testing.T) {
	// Errors must reach the caller so main can print them; cobra's own
	// printing is silenced on the root command.
	missing := filepath.Join(t.TempDir(), "missing.md")
	rootCmd.SetArgs([]string{"score", missing, "--no-store"})

	err := Execute()
	if err == nil {
		t.Fatal("Expected an error for a missing report file")
	}
	if !strings.Contains(err.Error(), "read input") {
		t.Errorf("Expected the read failure surfaced, got %v", err)
	}
}

func TestExecuteRejectsShortInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.md")
	if err := os.WriteFile(path, []byte("### Page 1\ntoo short"), 0o644); err != nil {
		t.Fatal(err)
	}
	rootCmd.SetArgs([]string{"score", path, "--no-store"})

	err := Execute()
	if err == nil {
		t.Fatal("Expected an error for under-length input")
	}
	if !strings.Contains(err.Error(), "too short") {
		t.Errorf("Expected the length gate surfaced, got %v", err)
	}
}
