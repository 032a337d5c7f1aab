package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/skandula/DocChatAPI/internal/config"
	"github.com/skandula/DocChatAPI/internal/domain/docModel"
	"github.com/skandula/DocChatAPI/internal/rag/embedding"
	"github.com/skandula/DocChatAPI/internal/rag/vectorDB"
	"github.com/skandula/DocChatAPI/pkg/logger_i"
)

// FileStore keeps the content-addressed PDF copies on disk.
type FileStore interface {
	// Save copies srcPath under its content-addressed name, first time only.
	// The returned name is stable for a given (basename, hash) pair.
	Save(srcPath string, hash string) (storedName string, err error)
	StoredName(srcPath string, hash string) string
}

// ProgressFunc observes monotonically increasing ingestion progress.
type ProgressFunc func(processed int, total int)

const embedBatchSize = 100

// Pipeline runs hash -> dedup check -> save -> extract -> chunk -> embed ->
// single batched index write. A document is either fully indexed or not
// indexed at all: every embedding is computed before the first index write.
type Pipeline struct {
	embedder  embedding.Embedder
	vectorDB  vectorDB.DataProcessor
	files     FileStore
	extractor TextExtractor
	locks     *hashLocks
	logger    *logger_i.Logger
}

func NewPipeline(e embedding.Embedder, db vectorDB.DataProcessor, files FileStore, extractor TextExtractor) *Pipeline {
	return &Pipeline{
		embedder:  e,
		vectorDB:  db,
		files:     files,
		extractor: extractor,
		locks:     newHashLocks(),
		logger:    logger_i.NewLogger("Document Ingestion"),
	}
}

func (p *Pipeline) Ingest(ctx context.Context, filePath string, tags []string, progress ProgressFunc) (docModel.IngestResult, error) {
	log := p.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	hash, err := ComputeContentHash(filePath)
	if err != nil {
		return docModel.IngestResult{}, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	log = log.With("pdfHash", hash[:8])

	//identical concurrent uploads queue here instead of double-embedding
	lock := p.locks.lock(hash)
	defer lock.Unlock()

	if err := p.vectorDB.CreateCollection(ctx, config.ChunkCollectionName); err != nil {
		return docModel.IngestResult{}, fmt.Errorf("creating collection: %w", err)
	}

	existing, err := p.vectorDB.CountChunks(ctx, hash)
	if err != nil {
		return docModel.IngestResult{}, fmt.Errorf("dedup lookup: %w", err)
	}
	if existing > 0 {
		//short-circuit before the disk copy: duplicates never cost a second
		//file or a second embedding pass
		log.Info("content already indexed, skipping", "chunks", existing)
		return docModel.IngestResult{
			Status: docModel.IngestStatusAlreadyIndexed,
			Document: docModel.Document{
				Hash:       hash,
				StoredName: p.files.StoredName(filePath, hash),
				Tags:       tags,
			},
			ChunkCount: int(existing),
		}, nil
	}

	storedName, err := p.files.Save(filePath, hash)
	if err != nil {
		return docModel.IngestResult{}, fmt.Errorf("storing pdf copy: %w", err)
	}

	text, err := p.extractor.Extract(ctx, filePath)
	if err != nil {
		return docModel.IngestResult{}, err
	}

	uploadDate := time.Now().Format("2006-01-02 15:04:05")
	doc := docModel.Document{
		Hash:       hash,
		StoredName: storedName,
		UploadDate: uploadDate,
		Tags:       tags,
	}

	chunks := p.buildChunks(text, doc)
	log.Debug("chunked document", "chunks", len(chunks))
	if len(chunks) == 0 {
		//an empty-content document is valid, just unsearchable
		log.Warn("document produced no text, stored without index entries")
		return docModel.IngestResult{Status: docModel.IngestStatusIndexed, Document: doc}, nil
	}

	vectors, err := p.embedAll(ctx, chunks, progress)
	if err != nil {
		return docModel.IngestResult{}, err
	}

	if err := p.vectorDB.UpsertBatch(ctx, config.ChunkCollectionName, chunks, vectors); err != nil {
		return docModel.IngestResult{}, fmt.Errorf("index write: %w", err)
	}

	log.Info("document indexed", "storedName", storedName, "chunks", len(chunks))
	return docModel.IngestResult{
		Status:     docModel.IngestStatusIndexed,
		Document:   doc,
		ChunkCount: len(chunks),
	}, nil
}

func (p *Pipeline) buildChunks(text string, doc docModel.Document) []docModel.DocChunk {
	texts := SplitText(text, config.ChunkSize, config.ChunkOverlap)

	meta := docModel.ChunkMetadata{
		PDFHash:    doc.Hash,
		PDFName:    doc.StoredName,
		UploadDate: doc.UploadDate,
		Tags:       docModel.JoinTags(doc.Tags),
		TagList:    doc.Tags,
		Version:    1,
	}

	chunks := make([]docModel.DocChunk, 0, len(texts))
	for i, t := range texts {
		chunks = append(chunks, docModel.DocChunk{
			ChunkId:  fmt.Sprintf("%s_%d", doc.Hash, i),
			Index:    i,
			Text:     t,
			Metadata: meta,
		})
	}
	return chunks
}

// embedAll computes every vector before the caller writes anything to the
// index. A provider failure mid-way therefore leaves the index untouched.
func (p *Pipeline) embedAll(ctx context.Context, chunks []docModel.DocChunk, progress ProgressFunc) ([][]float32, error) {
	total := len(chunks)
	vectors := make([][]float32, 0, total)

	for start := 0; start < total; start += embedBatchSize {
		end := start + embedBatchSize
		if end > total {
			end = total
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}

		batch, err := p.embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingProvider, err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("%w: got %d vectors for %d chunks", ErrEmbeddingProvider, len(batch), len(texts))
		}
		vectors = append(vectors, batch...)

		if progress != nil {
			progress(end, total)
		}
	}
	return vectors, nil
}
