package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

type noopOCR struct{}

func (noopOCR) RecognizePage(ctx context.Context, pdfPath string, page int) (string, error) {
	return "", errors.New("ocr not expected in this test")
}

func TestExtract_UnreadableDocument(t *testing.T) {
	path := writeTemp(t, "not_a.pdf", []byte("this is plain text, not a pdf"))
	extractor := NewPDFExtractor(noopOCR{})

	_, err := extractor.Extract(context.Background(), path)
	if !errors.Is(err, ErrUnreadableDocument) {
		t.Errorf("error got %v, want ErrUnreadableDocument", err)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	extractor := NewPDFExtractor(noopOCR{})

	_, err := extractor.Extract(context.Background(), filepath.Join(t.TempDir(), "ghost.pdf"))
	if !errors.Is(err, ErrUnreadableDocument) {
		t.Errorf("error got %v, want ErrUnreadableDocument", err)
	}
}
