package ingest

import "errors"

var (
	// ErrUnreadableDocument means the file could not be opened as a PDF at
	// all. Nothing is stored or indexed for it.
	ErrUnreadableDocument = errors.New("document is not a readable PDF")

	// ErrEmbeddingProvider wraps failures from the embedding capability.
	// Ingestion aborts before any index write, so the whole call can be
	// retried safely.
	ErrEmbeddingProvider = errors.New("embedding provider failure")
)
