package rag_test

import (
	"context"

	"github.com/skandula/DocChatAPI/internal/domain/docModel"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnSearch           func(ctx context.Context, vector []float32, topK int, filter *docModel.SearchFilter) ([]docModel.DocChunk, error)
	OnSearchMMR        func(ctx context.Context, vector []float32, topK int, filter *docModel.SearchFilter) ([]docModel.DocChunk, error)
	OnGetCachedAnswer  func(ctx context.Context, cacheKey string) (string, bool, error)
	OnSaveToCache      func(ctx context.Context, cacheKey string, vector []float32, answer string) error
	OnCreateCollection func(ctx context.Context, name string) error
	OnCountChunks      func(ctx context.Context, pdfHash string) (uint64, error)
	OnUpsertBatch      func(ctx context.Context, name string, chunks []docModel.DocChunk, vectors [][]float32) error
	OnListDocuments    func(ctx context.Context) ([]docModel.Document, error)
	OnAllChunkTexts    func(ctx context.Context) ([]string, error)
}

func defaultChunks() []docModel.DocChunk {
	return []docModel.DocChunk{{
		ChunkId: "abc_0",
		Text:    "default context",
		Metadata: docModel.ChunkMetadata{
			PDFHash: "abc",
			PDFName: "default_abc12345.pdf",
		},
	}}
}

func (m *MockVectorDB) Search(ctx context.Context, v []float32, topK int, f *docModel.SearchFilter) ([]docModel.DocChunk, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, v, topK, f)
	}
	return defaultChunks(), nil
}

func (m *MockVectorDB) SearchMMR(ctx context.Context, v []float32, topK int, f *docModel.SearchFilter) ([]docModel.DocChunk, error) {
	if m.OnSearchMMR != nil {
		return m.OnSearchMMR(ctx, v, topK, f)
	}
	return defaultChunks(), nil
}

func (m *MockVectorDB) GetCachedAnswer(ctx context.Context, cacheKey string) (string, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, cacheKey)
	}
	return "", false, nil
}

func (m *MockVectorDB) SaveToCache(ctx context.Context, cacheKey string, v []float32, a string) error {
	if m.OnSaveToCache != nil {
		return m.OnSaveToCache(ctx, cacheKey, v, a)
	}
	return nil
}

func (m *MockVectorDB) CreateCollection(ctx context.Context, name string) error {
	if m.OnCreateCollection != nil {
		return m.OnCreateCollection(ctx, name)
	}
	return nil
}

func (m *MockVectorDB) CountChunks(ctx context.Context, pdfHash string) (uint64, error) {
	if m.OnCountChunks != nil {
		return m.OnCountChunks(ctx, pdfHash)
	}
	return 0, nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, name string, chunks []docModel.DocChunk, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, name, chunks, vectors)
	}
	return nil
}

func (m *MockVectorDB) ListDocuments(ctx context.Context) ([]docModel.Document, error) {
	if m.OnListDocuments != nil {
		return m.OnListDocuments(ctx)
	}
	return nil, nil
}

func (m *MockVectorDB) AllChunkTexts(ctx context.Context) ([]string, error) {
	if m.OnAllChunkTexts != nil {
		return m.OnAllChunkTexts(ctx)
	}
	return nil, nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	// Return dummy vectors matching chunk size
	vectors := make([][]float32, len(chunks))
	for i := range vectors {
		vectors[i] = []float32{0.1}
	}
	return vectors, nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate  func(ctx context.Context, query string, matches []string, history []docModel.ConversationTurn, style string, language string) (string, error)
	OnSummarize func(ctx context.Context, text string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, q string, mth []string, hist []docModel.ConversationTurn, style string, language string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, q, mth, hist, style, language)
	}
	return "mocked llm response", nil
}

func (m *MockLLM) Summarize(ctx context.Context, text string) (string, error) {
	if m.OnSummarize != nil {
		return m.OnSummarize(ctx, text)
	}
	return "mocked summary", nil
}

// MockFileStore implements ingest.FileStore without touching disk.
type MockFileStore struct {
	OnSave func(srcPath string, hash string) (string, error)
	Saved  []string
}

func (m *MockFileStore) Save(srcPath string, hash string) (string, error) {
	if m.OnSave != nil {
		return m.OnSave(srcPath, hash)
	}
	name := m.StoredName(srcPath, hash)
	m.Saved = append(m.Saved, name)
	return name, nil
}

func (m *MockFileStore) StoredName(srcPath string, hash string) string {
	prefix := hash
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "stored_" + prefix + ".pdf"
}

// MockExtractor implements ingest.TextExtractor
type MockExtractor struct {
	OnExtract func(ctx context.Context, path string) (string, error)
}

func (m *MockExtractor) Extract(ctx context.Context, path string) (string, error) {
	if m.OnExtract != nil {
		return m.OnExtract(ctx, path)
	}
	return "extracted text", nil
}
