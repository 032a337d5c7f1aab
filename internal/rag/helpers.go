package rag

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/skandula/DocChatAPI/internal/config"
	"github.com/skandula/DocChatAPI/internal/domain/docModel"
	"github.com/skandula/DocChatAPI/internal/domain/jobModel"
	"github.com/skandula/DocChatAPI/internal/metrics"
	"github.com/skandula/DocChatAPI/pkg/logger_i"
)

func returnOutput(job jobModel.Job, ans string, sources []docModel.DocChunk) jobModel.Job {
	job.JobPayload.Answer = ans
	job.JobPayload.Sources = sources
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessRequest", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

// cacheKeyFor canonicalizes the full request tuple. Identical tuples hash to
// identical keys, anything different - a new turn in the history, another
// filter - misses.
func cacheKeyFor(payload jobModel.JobPayload, history []docModel.ConversationTurn) string {
	key := struct {
		Question string                     `json:"q"`
		Style    string                     `json:"s,omitempty"`
		Language string                     `json:"l,omitempty"`
		Filter   *docModel.SearchFilter     `json:"f,omitempty"`
		History  []docModel.ConversationTurn `json:"h,omitempty"`
	}{
		Question: payload.Question,
		Style:    payload.Style,
		Language: payload.Language,
		Filter:   payload.Filter,
		History:  history,
	}
	data, err := json.Marshal(key)
	if err != nil {
		return payload.Question
	}
	return string(data)
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ([]float32, error) {
	*job = logOutput(*job, jobModel.EmbeddingAPICall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, job.JobPayload.Question)
}

func (s *service) executeCacheCheckStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, cacheKey string) (string, bool) {
	*job = logOutput(*job, jobModel.CacheCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	ans, found, _ := s.vectorDB.GetCachedAnswer(ctx, cacheKey)
	return ans, found
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, queryVector []float32) ([]docModel.DocChunk, error) {
	*job = logOutput(*job, jobModel.VectorDBCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	matches, err := s.vectorDB.SearchMMR(ctx, queryVector, config.RetrievalTopK, job.JobPayload.Filter)
	if err != nil {
		return nil, err
	}
	job.JobPayload.Sources = matches
	return matches, nil
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, matches []docModel.DocChunk, history []docModel.ConversationTurn) (string, error) {
	*job = logOutput(*job, jobModel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Text)
	}
	return s.llmProvider.Generate(ctx, job.JobPayload.Question, texts, history, job.JobPayload.Style, job.JobPayload.Language)
}
