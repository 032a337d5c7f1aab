package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/skandula/DocChatAPI/internal/config"
)

// OCREngine recognizes the text on a single rasterized PDF page.
type OCREngine interface {
	RecognizePage(ctx context.Context, pdfPath string, pageNum int) (string, error)
}

// CommandRunner executes an external command and returns its stdout.
// Kept as a seam so the OCR path is testable without poppler/tesseract.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// TesseractOCR rasterizes one page with pdftoppm at a fixed resolution and
// feeds the image to tesseract.
type TesseractOCR struct {
	runner CommandRunner
	dpi    int
}

func NewTesseractOCR() *TesseractOCR {
	return &TesseractOCR{runner: execRunner{}, dpi: config.OCRResolutionDPI}
}

// NewTesseractOCRWithRunner is for tests.
func NewTesseractOCRWithRunner(runner CommandRunner, dpi int) *TesseractOCR {
	return &TesseractOCR{runner: runner, dpi: dpi}
}

func (t *TesseractOCR) RecognizePage(ctx context.Context, pdfPath string, pageNum int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.OCRPageTimeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "docchat-ocr-")
	if err != nil {
		return "", fmt.Errorf("ocr temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	page := strconv.Itoa(pageNum)
	prefix := filepath.Join(tmpDir, "page")
	_, err = t.runner.Run(ctx, "pdftoppm",
		"-f", page, "-l", page,
		"-r", strconv.Itoa(t.dpi),
		"-png", pdfPath, prefix)
	if err != nil {
		return "", fmt.Errorf("rasterize page %d: %w", pageNum, err)
	}

	//pdftoppm pads the page number in the output name, glob instead of guessing
	images, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(images) == 0 {
		return "", errors.New("rasterizer produced no image")
	}

	out, err := t.runner.Run(ctx, "tesseract", images[0], "stdout")
	if err != nil {
		return "", fmt.Errorf("tesseract page %d: %w", pageNum, err)
	}
	return string(out), nil
}
