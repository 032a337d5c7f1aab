package jobModel

import (
	"context"
	"time"

	"github.com/skandula/DocChatAPI/internal/domain/docModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	UserQueryInit    InternalStatus = "Init"
	CacheCall        InternalStatus = "CacheCall"
	RAGCall          InternalStatus = "RAG"
	LLMCall          InternalStatus = "LLM"
	VectorDBCall     InternalStatus = "VectorDB"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	RedisCall        InternalStatus = "Redis"

	IngestInit       InternalStatus = "IngestInit"
	IngestHashing    InternalStatus = "IngestHashing"
	IngestExtracting InternalStatus = "IngestExtracting"
	IngestEmbedding  InternalStatus = "IngestEmbedding"
	IngestIndexing   InternalStatus = "IngestIndexing"
	SummarizeCall    InternalStatus = "Summarize"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeQuery     JobType = "Query"
	JobTypeIngest    JobType = "Ingest"
	JobTypeSummarize JobType = "Summarize"
)

type Job struct {
	Id          string         `json:"id"`
	ChatId      string         `json:"chat_id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Question string                  `json:"question,omitempty"`
	Style    string                  `json:"style,omitempty"`
	Language string                  `json:"language,omitempty"`
	Filter   *docModel.SearchFilter  `json:"filter,omitempty"`
	Answer   string                  `json:"answer,omitempty"`
	Sources  []docModel.DocChunk     `json:"sources,omitempty"`

	IngestFileName string                  `json:"ingest_file_name,omitempty"`
	IngestURL      string                  `json:"ingest_url,omitempty"`
	IngestTags     []string                `json:"ingest_tags,omitempty"`
	IngestResult   *docModel.IngestResult  `json:"ingest_result,omitempty"`

	//monotonic ingestion progress for status polling
	ChunksProcessed int `json:"chunks_processed,omitempty"`
	ChunksTotal     int `json:"chunks_total,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

type MessageStore interface {
	ValidateChatId(ctx context.Context, id string) bool
	TrySaveTurn(ctx context.Context, id string, turn docModel.ConversationTurn) error
	InitNewChat(ctx context.Context, id string) error
	GetHistory(ctx context.Context, chatId string) ([]docModel.ConversationTurn, error)
}
