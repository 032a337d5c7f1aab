package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/skandula/DocChatAPI/internal/config"
)

// ComputeContentHash streams the file through SHA-256 in fixed-size blocks
// so arbitrarily large uploads never sit in memory at once. The digest only
// depends on the bytes, never on the filename.
func ComputeContentHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, config.HashBlockSize)
	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("read for hashing: %w", readErr)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
