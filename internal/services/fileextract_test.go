package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestExtractService() *FileExtractService {
	return NewFileExtractService([]string{".pdf", ".docx", ".txt"})
}

func TestIsAllowed(t *testing.T) {
	s := newTestExtractService()

	tests := []struct {
		filename string
		want     bool
	}{
		{"notes.txt", true},
		{"notes.TXT", true},
		{"lecture.pdf", true},
		{"Lecture.PDF", true},
		{"essay.docx", true},
		{"photo.png", false},
		{"archive.zip", false},
		{"script.txt.exe", false},
		{"noextension", false},
	}

	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			if got := s.IsAllowed(tc.filename); got != tc.want {
				t.Errorf("IsAllowed(%q) = %v, want %v", tc.filename, got, tc.want)
			}
		})
	}
}

func TestExtractText_TXT(t *testing.T) {
	s := newTestExtractService()
	dir := t.TempDir()

	path := filepath.Join(dir, "notes.txt")
	content := "  \n\nGo routes around bad abstractions.\n\n  "
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	text, err := s.ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}

	want := strings.TrimSpace(content)
	if text != want {
		t.Errorf("Expected %q, got %q", want, text)
	}
}

func TestExtractText_EmptyTXT(t *testing.T) {
	s := newTestExtractService()
	dir := t.TempDir()

	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, []byte("   \n  "), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	text, err := s.ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != "" {
		t.Errorf("Expected empty string for whitespace-only file, got %q", text)
	}
}

func TestExtractText_RejectsDisallowedExtension(t *testing.T) {
	s := newTestExtractService()
	dir := t.TempDir()

	path := filepath.Join(dir, "image.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if _, err := s.ExtractText(path); err == nil {
		t.Errorf("expected error for disallowed extension")
	}
}

func TestStripDOCXML(t *testing.T) {
	src := `<w:document><w:body><w:p><w:r><w:t>First paragraph</w:t></w:r></w:p><w:p><w:r><w:t>Second &amp; third</w:t></w:r></w:p></w:body></w:document>`

	got := stripDOCXML([]byte(src))
	if !strings.Contains(got, "First paragraph") {
		t.Errorf("expected paragraph text, got %q", got)
	}
	if !strings.Contains(got, "Second & third") {
		t.Errorf("expected decoded entity, got %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Errorf("expected newline between paragraphs, got %q", got)
	}
}

func TestChunkText_ShortInput(t *testing.T) {
	chunks := ChunkText("hello", 100)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "hello" {
		t.Errorf("Expected 'hello', got %q", chunks[0])
	}
}

func TestChunkText_RoundTrip(t *testing.T) {
	text := strings.Repeat("abcdefghij", 537) // not a multiple of the chunk size

	chunks := ChunkText(text, 2000)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if len(c) > 2000 {
			t.Errorf("chunk %d exceeds size: %d bytes", i, len(c))
		}
	}

	if strings.Join(chunks, "") != text {
		t.Errorf("concatenated chunks do not reproduce the input")
	}
}

func TestChunkText_DefaultSize(t *testing.T) {
	text := strings.Repeat("x", DefaultChunkSize+1)

	chunks := ChunkText(text, 0)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks with default size, got %d", len(chunks))
	}
	if len(chunks[0]) != DefaultChunkSize {
		t.Errorf("Expected first chunk of %d bytes, got %d", DefaultChunkSize, len(chunks[0]))
	}
}
