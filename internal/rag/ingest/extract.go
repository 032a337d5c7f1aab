package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/skandula/DocChatAPI/pkg/logger_i"
)

// TextExtractor turns a stored PDF into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// PDFExtractor walks the document page by page. Pages with a usable text
// layer are read directly, pages without one (scanned images) are handed to
// the OCR engine. A single broken page degrades to empty text, only a file
// that cannot be opened at all fails the extraction.
type PDFExtractor struct {
	ocr    OCREngine
	logger *logger_i.Logger
}

func NewPDFExtractor(ocr OCREngine) *PDFExtractor {
	return &PDFExtractor{
		ocr:    ocr,
		logger: logger_i.NewLogger("PDF Extractor"),
	}
}

func (e *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		e.logger.Error("failed opening pdf file", "path", path, "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	var text strings.Builder
	numPages := f.NumPage()
	e.logger.Debug("extracting", "path", path, "pages", numPages)

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		pageText := ""
		page := f.Page(i)
		if !page.V.IsNull() {
			content, err := protectExtract(page)
			if err != nil {
				e.logger.Warn("page text layer unreadable", "page", i, "error", err)
			} else {
				pageText = content
			}
		}

		if strings.TrimSpace(pageText) == "" {
			ocrText, ocrErr := e.ocr.RecognizePage(ctx, path, i)
			if ocrErr != nil {
				//degraded page, keep going with the rest of the document
				e.logger.Warn("ocr fallback failed, page degrades to empty", "page", i, "error", ocrErr)
				continue
			}
			pageText = ocrText
		}

		//pages are concatenated with no boundary marker
		text.WriteString(pageText)
	}
	return text.String(), nil
}

// protectExtract guards against the parser hanging on malformed pages.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		return "", errors.New("page extraction timeout")
	}
}
