package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	ChatId    string            `json:"chat_id,omitempty" example:"chat_550"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type RAGResponse struct {
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Sources  []ChunkRef   `json:"sources,omitempty"`
}

// ChunkRef identifies a retrieved chunk without echoing its full text.
type ChunkRef struct {
	ChunkId string `json:"chunk_id" example:"3a7bd3e2_4"`
	PDFName string `json:"pdf_name" example:"report_3a7bd3e2.pdf"`
}

type IngestResponse struct {
	Status     string   `json:"status" example:"INDEXED"`
	PDFName    string   `json:"pdf_name" example:"report_3a7bd3e2.pdf"`
	PDFHash    string   `json:"pdf_hash" example:"3a7bd3e2c1..."`
	ChunkCount int      `json:"chunk_count" example:"12"`
	Tags       []string `json:"tags,omitempty"`
}

type Result struct {
	Status              string          `json:"status"`
	RAGExternalResponse *RAGResponse    `json:"rag_response,omitempty"`
	IngestResponse      *IngestResponse `json:"ingest_response,omitempty"`
	Progress            *Progress       `json:"progress,omitempty"`
}

type Progress struct {
	ChunksProcessed int `json:"chunks_processed"`
	ChunksTotal     int `json:"chunks_total"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type DocumentInfo struct {
	PDFName    string   `json:"pdf_name" example:"report_3a7bd3e2.pdf"`
	PDFHash    string   `json:"pdf_hash,omitempty"`
	UploadDate string   `json:"upload_date,omitempty" example:"2026-09-01 10:30:00"`
	Tags       []string `json:"tags,omitempty"`
}

type DocumentListResponse struct {
	Documents []DocumentInfo `json:"documents"`
}

type RecommendationsResponse struct {
	Recommendations []string `json:"recommendations"`
}

type AnnotationsResponse struct {
	PDFName     string   `json:"pdf_name"`
	Annotations []string `json:"annotations"`
}

// requests---------------------

type ChatRequest struct {
	Message  string   `json:"message" validate:"required"`
	ChatID   string   `json:"chatID,omitempty"`
	Style    string   `json:"style,omitempty" example:"concise"`
	Language string   `json:"language,omitempty" example:"english"`
	PDFName  string   `json:"pdf_name,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

type RecommendationsRequest struct {
	Query string `json:"query" validate:"required"`
}

type AnnotationRequest struct {
	Note string `json:"note" validate:"required"`
}
