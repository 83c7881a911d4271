// Package testutil builds PDF fixtures for tests. Fixtures are real
// single-page documents, so the integrity checker exercises its actual
// parsing path instead of a stub.
package testutil

import (
	"bytes"
	"os"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// PDFBytes returns a minimal one-page PDF document.
func PDFBytes(t *testing.T) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(40, 10, "fixture")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("generating fixture PDF: %v", err)
	}
	return buf.Bytes()
}

// WritePDF writes a minimal one-page PDF to path.
func WritePDF(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, PDFBytes(t), 0o644); err != nil {
		t.Fatalf("writing fixture PDF: %v", err)
	}
}

// WriteCorrupt writes a file that merely claims to be a PDF.
func WriteCorrupt(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("%PDF-1.7\nnot a real document"), 0o644); err != nil {
		t.Fatalf("writing corrupt fixture: %v", err)
	}
}
