package ocr

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/joseph-ayodele/docextract/internal/common"
)

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.pdf")
	content := []byte("%PDF-1.4\nBT (Hi) Tj ET")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	doc, err := LoadDocument(path, discardLogger())
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if doc.Path != path || string(doc.Bytes) != string(content) {
		t.Errorf("doc = %+v", doc)
	}
	if doc.Pages != 0 {
		t.Errorf("Pages = %d for a file with no page tree", doc.Pages)
	}
}

func TestLoadDocumentMissingFile(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "nope.pdf"), discardLogger())
	if err == nil {
		t.Fatal("expected an error")
	}
	var ae *common.AppError
	if !errors.As(err, &ae) || ae.Code != common.CodeInput {
		t.Errorf("error %v is not an input AppError", err)
	}
}

func TestCountPagesGarbage(t *testing.T) {
	if n, err := CountPages([]byte("not a pdf")); err == nil || n != 0 {
		t.Errorf("CountPages = %d, %v; want 0 and an error", n, err)
	}
}
