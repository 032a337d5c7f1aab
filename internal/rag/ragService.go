package rag

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/skandula/DocChatAPI/internal/config"
	"github.com/skandula/DocChatAPI/internal/domain/docModel"
	"github.com/skandula/DocChatAPI/internal/domain/jobModel"
	"github.com/skandula/DocChatAPI/internal/metrics"
	"github.com/skandula/DocChatAPI/internal/rag/embedding"
	"github.com/skandula/DocChatAPI/internal/rag/ingest"
	"github.com/skandula/DocChatAPI/internal/rag/llm"
	"github.com/skandula/DocChatAPI/internal/rag/vectorDB"
	"github.com/skandula/DocChatAPI/pkg/logger_i"
)

// Service is all the worker sees. It hides the vector index, the embedding
// provider, the LLM and the ingestion pipeline behind one contract so the
// worker (and the tests) never touch the concrete clients.
type Service interface {
	ProcessRequest(ctx context.Context, job jobModel.Job, history []docModel.ConversationTurn) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job, progress ingest.ProgressFunc) jobModel.Job
	SummarizeCorpus(ctx context.Context, job jobModel.Job) jobModel.Job
	Recommend(ctx context.Context, query string) ([]string, error)
	ListDocuments(ctx context.Context) ([]docModel.Document, error)
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	pipeline    *ingest.Pipeline
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(vector vectorDB.DataProcessor, llm llm.Provider, em embedding.Embedder, pipeline *ingest.Pipeline) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llm,
		embedder:    em,
		pipeline:    pipeline,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) ProcessRequest(ctx context.Context, jobt jobModel.Job, history []docModel.ConversationTurn) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	jobt.CurrentStep = jobModel.RAGCall

	// Embedding
	queryVector, err := s.executeEmbeddingStep(processContext, inMethodLogger, &jobt)
	if err != nil {
		return s.jobError(jobt, err, "EMBEDDING_FAILURE", true)
	}

	// Cache Check - keyed on the exact request tuple
	cacheKey := cacheKeyFor(jobt.JobPayload, history)
	cachedAnswer, found := s.executeCacheCheckStep(ctx, inMethodLogger, &jobt, cacheKey)
	if found {
		return returnOutput(jobt, cachedAnswer, nil)
	}

	// Vector DB Search
	matches, err := s.executeVectorSearchStep(processContext, inMethodLogger, &jobt, queryVector)
	if err != nil {
		return s.jobError(jobt, err, "VECTOR_DB_FAILURE", true)
	}

	// Empty retrieval is not an error - the index may be empty or the
	// filter may match nothing
	if len(matches) == 0 {
		inMethodLogger.Info("retrieval matched no chunks, returning fallback answer")
		return returnOutput(jobt, config.InsufficientContextAnswer, nil)
	}

	// LLM Generation
	answer, err := s.executeLLMStep(processContext, inMethodLogger, &jobt, matches, history)
	if err != nil {
		return s.jobError(jobt, err, "LLM_GENERATION_FAILURE", true)
	}

	//Background Cache Save
	go func() {
		if err := s.vectorDB.SaveToCache(ctx, cacheKey, queryVector, answer); err != nil {
			s.logger.Error("Failed to save to cache")
		}
	}()

	return returnOutput(jobt, answer, matches)
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job, progress ingest.ProgressFunc) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	job.CurrentStep = jobModel.IngestHashing
	result, err := s.pipeline.Ingest(ctx, job.JobPayload.IngestURL, job.JobPayload.IngestTags, progress)
	if err != nil {
		retry := !errors.Is(err, ingest.ErrUnreadableDocument)
		return s.jobError(job, err, "INGESTION_FAILURE", retry)
	}

	if result.Status == docModel.IngestStatusIndexed {
		metrics.IncrementDocumentsIndexed()
	}
	job.JobPayload.IngestResult = &result
	job.CurrentStep = jobModel.Complete
	return job
}

func (s *service) SummarizeCorpus(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("summarize_corpus", time.Since(start)) }()

	job.CurrentStep = jobModel.SummarizeCall
	texts, err := s.vectorDB.AllChunkTexts(ctx)
	if err != nil {
		return s.jobError(job, err, "VECTOR_DB_FAILURE", true)
	}
	if len(texts) == 0 {
		return returnOutput(job, config.InsufficientContextAnswer, nil)
	}

	summary, err := s.llmProvider.Summarize(ctx, strings.Join(texts, " "))
	if err != nil {
		return s.jobError(job, err, "LLM_GENERATION_FAILURE", true)
	}
	return returnOutput(job, summary, nil)
}

// Recommend reuses the read path as a thin nearest-neighbour query and
// folds the hits down to distinct stored filenames.
func (s *service) Recommend(ctx context.Context, query string) ([]string, error) {
	vector, err := s.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	chunks, err := s.vectorDB.Search(ctx, vector, 5, nil)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, c := range chunks {
		if name := c.Metadata.PDFName; name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

func (s *service) ListDocuments(ctx context.Context) ([]docModel.Document, error) {
	return s.vectorDB.ListDocuments(ctx)
}
