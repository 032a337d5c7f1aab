package adapter

import (
	"fmt"
	"time"

	"github.com/skandula/DocChatAPI/internal/api"
	"github.com/skandula/DocChatAPI/internal/domain/docModel"
	"github.com/skandula/DocChatAPI/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:              string(job.Status),
		RAGExternalResponse: ToRAGExternalStatus(job.JobPayload),
		IngestResponse:      toIngestResponse(job.JobPayload),
		Progress:            toProgress(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		ChatId:    job.ChatId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToRAGExternalStatus(ragData jobModel.JobPayload) *api.RAGResponse {
	if ragData.Answer == "" && len(ragData.Sources) == 0 {
		return nil
	}

	refs := make([]api.ChunkRef, 0, len(ragData.Sources))
	for _, chunk := range ragData.Sources {
		refs = append(refs, api.ChunkRef{
			ChunkId: chunk.ChunkId,
			PDFName: chunk.Metadata.PDFName,
		})
	}

	return &api.RAGResponse{
		Question: ragData.Question,
		Answer:   ragData.Answer,
		Sources:  refs,
	}
}

func toIngestResponse(payload jobModel.JobPayload) *api.IngestResponse {
	if payload.IngestResult == nil {
		return nil
	}
	return &api.IngestResponse{
		Status:     string(payload.IngestResult.Status),
		PDFName:    payload.IngestResult.Document.StoredName,
		PDFHash:    payload.IngestResult.Document.Hash,
		ChunkCount: payload.IngestResult.ChunkCount,
		Tags:       payload.IngestResult.Document.Tags,
	}
}

func toProgress(payload jobModel.JobPayload) *api.Progress {
	if payload.ChunksTotal == 0 {
		return nil
	}
	return &api.Progress{
		ChunksProcessed: payload.ChunksProcessed,
		ChunksTotal:     payload.ChunksTotal,
	}
}

func ToDocumentList(docs []docModel.Document) api.DocumentListResponse {
	infos := make([]api.DocumentInfo, 0, len(docs))
	for _, d := range docs {
		infos = append(infos, api.DocumentInfo{
			PDFName:    d.StoredName,
			PDFHash:    d.Hash,
			UploadDate: d.UploadDate,
			Tags:       d.Tags,
		})
	}
	return api.DocumentListResponse{Documents: infos}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		ChatId:    "",
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
