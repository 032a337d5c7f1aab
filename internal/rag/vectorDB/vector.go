package vectorDB

import (
	"context"

	"github.com/skandula/DocChatAPI/internal/domain/docModel"
)

type DataProcessor interface {
	//read path
	Search(ctx context.Context, vector []float32, topK int, filter *docModel.SearchFilter) ([]docModel.DocChunk, error)
	SearchMMR(ctx context.Context, vector []float32, topK int, filter *docModel.SearchFilter) ([]docModel.DocChunk, error)
	GetCachedAnswer(ctx context.Context, cacheKey string) (string, bool, error)
	SaveToCache(ctx context.Context, cacheKey string, vector []float32, answer string) error

	//write path
	CreateCollection(ctx context.Context, collectionName string) error
	CountChunks(ctx context.Context, pdfHash string) (uint64, error)
	UpsertBatch(ctx context.Context, collectionName string, chunks []docModel.DocChunk, vectors [][]float32) error

	//corpus-wide reads
	ListDocuments(ctx context.Context) ([]docModel.Document, error)
	AllChunkTexts(ctx context.Context) ([]string, error)
}
