package embedding

import "context"

// Embedder maps text to fixed-width vectors. GetEmbedding is the query-time
// single call, BatchEmbedding is the ingestion path.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
