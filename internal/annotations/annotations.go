package annotations

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/skandula/DocChatAPI/pkg/logger_i"
)

// Store maps a stored PDF filename to its ordered free-text notes, persisted
// as one JSON file. All writes go through a single mutex-guarded
// read-modify-write, so concurrent saves cannot lose updates.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *logger_i.Logger
	warned bool
}

func NewStore(path string) *Store {
	return &Store{
		path:   path,
		logger: logger_i.NewLogger("Annotations"),
	}
}

func (s *Store) List(pdfName string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	return all[pdfName], nil
}

func (s *Store) Add(pdfName string, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	all[pdfName] = append(all[pdfName], note)

	data, err := json.Marshal(all)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0640)
}

// load tolerates a corrupt annotations file: it warns once and behaves as an
// empty store. The file is only replaced by the next successful Add.
func (s *Store) load() (map[string][]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var all map[string][]string
	if err := json.Unmarshal(data, &all); err != nil {
		if !s.warned {
			s.logger.Warn("annotations file is malformed, treating as empty", "path", s.path, "error", err)
			s.warned = true
		}
		return map[string][]string{}, nil
	}
	if all == nil {
		all = map[string][]string{}
	}
	return all, nil
}
