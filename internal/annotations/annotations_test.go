package annotations

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestList_MissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "annotations.json"))

	notes, err := store.List("report_3a7bd3e2.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 0 {
		t.Errorf("expected no notes before any Add, got %v", notes)
	}
}

func TestAddThenList(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "annotations.json"))

	if err := store.Add("report_3a7bd3e2.pdf", "first note"); err != nil {
		t.Fatal(err)
	}
	if err := store.Add("report_3a7bd3e2.pdf", "second note"); err != nil {
		t.Fatal(err)
	}
	if err := store.Add("other_deadbeef.pdf", "unrelated"); err != nil {
		t.Fatal(err)
	}

	notes, err := store.List("report_3a7bd3e2.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 || notes[0] != "first note" || notes[1] != "second note" {
		t.Errorf("notes got %v, want the two in insertion order", notes)
	}
}

func TestList_SurvivesProcessRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.json")

	if err := NewStore(path).Add("report_3a7bd3e2.pdf", "persisted"); err != nil {
		t.Fatal(err)
	}

	notes, err := NewStore(path).List("report_3a7bd3e2.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || notes[0] != "persisted" {
		t.Errorf("notes got %v after reopen", notes)
	}
}

func TestCorruptFile_TreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.json")
	if err := os.WriteFile(path, []byte("{not json"), 0640); err != nil {
		t.Fatal(err)
	}
	store := NewStore(path)

	notes, err := store.List("report_3a7bd3e2.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 0 {
		t.Errorf("corrupt file must read as empty, got %v", notes)
	}

	// listing alone must not replace the corrupt file
	data, _ := os.ReadFile(path)
	if string(data) != "{not json" {
		t.Error("List overwrote the corrupt file")
	}

	// the next Add starts fresh and persists
	if err := store.Add("report_3a7bd3e2.pdf", "recovered"); err != nil {
		t.Fatal(err)
	}
	notes, _ = store.List("report_3a7bd3e2.pdf")
	if len(notes) != 1 || notes[0] != "recovered" {
		t.Errorf("notes after recovery got %v", notes)
	}
}

func TestAdd_ConcurrentWritersLoseNothing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "annotations.json"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Add("report_3a7bd3e2.pdf", "note"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	notes, err := store.List("report_3a7bd3e2.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 20 {
		t.Errorf("note count got %d, want 20", len(notes))
	}
}
