package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitText_WindowShape(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks := SplitText(text, 1000, 200)

	// windows start at 0, 800, 1600, 2400 - the last one takes the tail
	if len(chunks) != 4 {
		t.Fatalf("chunk count got %d, want 4", len(chunks))
	}
	if len(chunks[0]) != 1000 {
		t.Errorf("first chunk length got %d, want 1000", len(chunks[0]))
	}
	if len(chunks[1]) != 1000 || len(chunks[2]) != 1000 {
		t.Errorf("middle chunks must be full windows, got %d and %d", len(chunks[1]), len(chunks[2]))
	}
	if len(chunks[3]) != 100 {
		t.Errorf("tail chunk length got %d, want 100", len(chunks[3]))
	}
}

func TestSplitText_OverlapRepeats(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 3000; i++ {
		sb.WriteByte(byte('a' + i%26))
	}
	text := sb.String()

	chunks := SplitText(text, 1000, 200)
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-200:]
		if len(chunks[i]) >= 200 && chunks[i][:200] != prevTail {
			t.Errorf("chunk %d does not start with the previous chunk's last 200 chars", i)
		}
	}
}

func TestSplitText_MultiByteRunes(t *testing.T) {
	// a three-byte rune sits exactly on the first window boundary
	text := strings.Repeat("a", 999) + "€" + strings.Repeat("б", 1500)
	chunks := SplitText(text, 1000, 200)

	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}
	if got := utf8.RuneCountInString(chunks[0]); got != 1000 {
		t.Errorf("first chunk rune count got %d, want 1000", got)
	}
	if !strings.HasSuffix(chunks[0], "€") {
		t.Error("the boundary rune must land whole in the first chunk")
	}
	if joined := strings.Join(chunks, ""); !strings.Contains(joined, "€") {
		t.Error("the boundary rune was lost")
	}
}

func TestSplitText_Deterministic(t *testing.T) {
	text := strings.Repeat("the quick brown fox ", 300)
	first := SplitText(text, 1000, 200)
	second := SplitText(text, 1000, 200)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between identical runs", i)
		}
	}
}

func TestSplitText_Edges(t *testing.T) {
	if chunks := SplitText("", 1000, 200); chunks != nil {
		t.Errorf("empty input must yield no chunks, got %d", len(chunks))
	}

	short := "shorter than one window"
	chunks := SplitText(short, 1000, 200)
	if len(chunks) != 1 || chunks[0] != short {
		t.Errorf("short input must yield itself as the only chunk, got %v", chunks)
	}

	// a degenerate overlap falls back to non-overlapping windows
	chunks = SplitText(strings.Repeat("x", 30), 10, 10)
	if len(chunks) != 3 {
		t.Errorf("degenerate overlap: chunk count got %d, want 3", len(chunks))
	}
}
