package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddress(t *testing.T) {
	if got := Address("", 8080); got != ":8080" {
		t.Errorf("expected :8080, got %q", got)
	}
	if got := Address("127.0.0.1", 80); got != "127.0.0.1:80" {
		t.Errorf("expected 127.0.0.1:80, got %q", got)
	}
}

func TestFileExists(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "file")

	exists, err := FileExists(filePath)
	if err != nil || exists {
		t.Fatalf("expected missing file, got %v %v", exists, err)
	}

	if err := os.WriteFile(filePath, nil, 0600); err != nil {
		t.Fatal(err)
	}
	exists, err = FileExists(filePath)
	if err != nil || !exists {
		t.Errorf("expected file to exist, got %v %v", exists, err)
	}
}
