package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/skandula/DocChatAPI/pkg/logger_i"
)

// PDFStore owns the content-addressed copies of uploaded PDFs. Files are
// stored as {base}_{hash8}{ext} so the name itself encodes identity, and a
// copy is written once only: a second upload of identical content finds the
// file already present and leaves it alone.
type PDFStore struct {
	dir    string
	cipher *Cipher //nil when at-rest encryption is off
	logger *logger_i.Logger
}

func NewPDFStore(dir string, cipher *Cipher) *PDFStore {
	return &PDFStore{
		dir:    dir,
		cipher: cipher,
		logger: logger_i.NewLogger("PDF Store"),
	}
}

// StoredName derives the content-addressed filename without touching disk.
func (s *PDFStore) StoredName(srcPath string, hash string) string {
	base := filepath.Base(srcPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	prefix := hash
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("%s_%s%s", name, prefix, ext)
}

func (s *PDFStore) Path(storedName string) string {
	return filepath.Join(s.dir, storedName)
}

func (s *PDFStore) Save(srcPath string, hash string) (string, error) {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return "", fmt.Errorf("creating storage dir: %w", err)
	}

	storedName := s.StoredName(srcPath, hash)
	dst := s.Path(storedName)
	if _, err := os.Stat(dst); err == nil {
		s.logger.Debug("stored copy already present", "storedName", storedName)
		return storedName, nil
	}

	if s.cipher != nil {
		if err := s.saveEncrypted(srcPath, dst); err != nil {
			return "", err
		}
		return storedName, nil
	}

	if err := copyFile(srcPath, dst); err != nil {
		return "", err
	}
	s.logger.Info("stored pdf copy", "storedName", storedName)
	return storedName, nil
}

// Read returns the original PDF bytes, reversing encryption when enabled.
func (s *PDFStore) Read(storedName string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(storedName))
	if err != nil {
		return nil, err
	}
	if s.cipher == nil {
		return data, nil
	}
	return s.cipher.Decrypt(data)
}

func (s *PDFStore) saveEncrypted(srcPath string, dst string) error {
	plain, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading upload: %w", err)
	}
	sealed, err := s.cipher.Encrypt(plain)
	if err != nil {
		return fmt.Errorf("encrypting pdf: %w", err)
	}
	if err := os.WriteFile(dst, sealed, 0640); err != nil {
		return fmt.Errorf("writing encrypted copy: %w", err)
	}
	return nil
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening upload: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating stored copy: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying pdf: %w", err)
	}
	return nil
}
