package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveGeneratesFreshName(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	name, err := s.Save(strings.NewReader("png-bytes"), "../../etc/passwd.PNG")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if strings.Contains(name, "/") || strings.Contains(name, "..") {
		t.Fatalf("unsafe generated name %q", name)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("expected lowercased extension, got %q", name)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(), name))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestSaveUniqueNames(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	a, _ := s.Save(strings.NewReader("a"), "x.jpg")
	b, _ := s.Save(strings.NewReader("b"), "x.jpg")
	if a == b {
		t.Fatalf("expected unique names, got %q twice", a)
	}
}

func TestNewStorageRequiresDir(t *testing.T) {
	if _, err := NewStorage(""); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
