package ingest

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

// stubRunner fakes pdftoppm and tesseract. The pdftoppm branch drops a fake
// image next to the requested prefix so the glob in RecognizePage finds it.
type stubRunner struct {
	calls        [][]string
	rasterizeErr error
	ocrErr       error
	ocrOutput    string
}

func (s *stubRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))

	switch name {
	case "pdftoppm":
		if s.rasterizeErr != nil {
			return nil, s.rasterizeErr
		}
		prefix := args[len(args)-1]
		if err := os.WriteFile(prefix+"-1.png", []byte("png"), 0644); err != nil {
			return nil, err
		}
		return nil, nil
	case "tesseract":
		if s.ocrErr != nil {
			return nil, s.ocrErr
		}
		return []byte(s.ocrOutput), nil
	}
	return nil, errors.New("unexpected command " + name)
}

func TestRecognizePage_Success(t *testing.T) {
	runner := &stubRunner{ocrOutput: "recognized page text\n"}
	ocr := NewTesseractOCRWithRunner(runner, 300)

	text, err := ocr.RecognizePage(context.Background(), "/tmp/some.pdf", 3)
	if err != nil {
		t.Fatal(err)
	}
	if text != "recognized page text\n" {
		t.Errorf("text got %q", text)
	}

	if len(runner.calls) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(runner.calls))
	}
	raster := strings.Join(runner.calls[0], " ")
	if !strings.Contains(raster, "-f 3") || !strings.Contains(raster, "-l 3") {
		t.Errorf("pdftoppm must target exactly page 3, got %q", raster)
	}
	if !strings.Contains(raster, "-r 300") {
		t.Errorf("pdftoppm must use the configured resolution, got %q", raster)
	}
	if runner.calls[1][0] != "tesseract" {
		t.Errorf("second command got %q, want tesseract", runner.calls[1][0])
	}
}

func TestRecognizePage_RasterizeFailure(t *testing.T) {
	runner := &stubRunner{rasterizeErr: errors.New("pdftoppm: command not found")}
	ocr := NewTesseractOCRWithRunner(runner, 300)

	if _, err := ocr.RecognizePage(context.Background(), "/tmp/some.pdf", 1); err == nil {
		t.Error("expected an error when rasterization fails")
	}
	if len(runner.calls) != 1 {
		t.Errorf("tesseract must not run after a rasterize failure, got %d calls", len(runner.calls))
	}
}

func TestRecognizePage_OCRFailure(t *testing.T) {
	runner := &stubRunner{ocrErr: errors.New("tesseract crashed")}
	ocr := NewTesseractOCRWithRunner(runner, 300)

	if _, err := ocr.RecognizePage(context.Background(), "/tmp/some.pdf", 1); err == nil {
		t.Error("expected an error when tesseract fails")
	}
}
