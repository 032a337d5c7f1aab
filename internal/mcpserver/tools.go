package mcpserver

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skandula/DocChatAPI/internal/adapter/utils"
	"github.com/skandula/DocChatAPI/internal/config"
	"github.com/skandula/DocChatAPI/internal/domain/docModel"
	"github.com/skandula/DocChatAPI/internal/domain/jobModel"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string   `json:"question" jsonschema:"the question to answer from the indexed documents"`
	PDFName  string   `json:"pdf_name,omitempty" jsonschema:"restrict retrieval to this stored document name"`
	Tags     []string `json:"tags,omitempty" jsonschema:"restrict retrieval to documents carrying all of these tags"`
	Style    string   `json:"style,omitempty" jsonschema:"answer style directive, e.g. concise"`
	Language string   `json:"language,omitempty" jsonschema:"answer language, defaults to the question's language"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

type DocumentOutput struct {
	PDFName    string   `json:"pdf_name"`
	UploadDate string   `json:"upload_date,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the indexed PDF corpus, optionally filtered by document name or tags",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List every document currently present in the index",
	}, s.handleListDocuments)
}

// handleAsk runs one retrieval round trip without chat history.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.Question == "" {
		return nil, AskOutput{}, errors.New("question is required")
	}

	var filter *docModel.SearchFilter
	if input.PDFName != "" || len(input.Tags) > 0 {
		filter = &docModel.SearchFilter{PDFName: input.PDFName, Tags: input.Tags}
	}

	job := jobModel.Job{
		Id:          utils.GetNewUUID(),
		TraceId:     utils.GetNewUUID(),
		JobType:     jobModel.JobTypeQuery,
		CreatedTime: time.Now(),
		JobPayload: jobModel.JobPayload{
			Question: input.Question,
			Style:    input.Style,
			Language: input.Language,
			Filter:   filter,
		},
	}
	ctx = context.WithValue(ctx, config.TRACE_ID_KEY, job.TraceId)

	result := s.ragService.ProcessRequest(ctx, job, nil)
	if result.Status == jobModel.JobStatusError {
		return nil, AskOutput{}, errors.New(result.Error.Message)
	}

	seen := make(map[string]bool)
	var sources []string
	for _, chunk := range result.JobPayload.Sources {
		if name := chunk.Metadata.PDFName; name != "" && !seen[name] {
			seen[name] = true
			sources = append(sources, name)
		}
	}

	return nil, AskOutput{
		Answer:  result.JobPayload.Answer,
		Sources: sources,
	}, nil
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ragService.ListDocuments(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = DocumentOutput{
			PDFName:    docs[i].StoredName,
			UploadDate: docs[i].UploadDate,
			Tags:       docs[i].Tags,
		}
	}
	return nil, output, nil
}
