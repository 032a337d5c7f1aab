package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/skandula/DocChatAPI/internal/config"
	"github.com/skandula/DocChatAPI/internal/domain/docModel"
	jobmodel "github.com/skandula/DocChatAPI/internal/domain/jobModel"
	"github.com/skandula/DocChatAPI/internal/metrics"
)

const (
	queryTimeout  = 60 * time.Second
	ingestTimeout = 10 * time.Minute
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.JobType), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)

	timeout := queryTimeout
	if job.JobType == jobmodel.JobTypeIngest {
		//ingestion embeds the whole document, give it room
		timeout = ingestTimeout
	}
	ctx, cancel := context.WithTimeout(ctxTrace, timeout)
	defer cancel()
	logger.With("trace Id ", job.TraceId)
	logger.Debug("Processing job:", "job Id:", job.Id)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	switch job.JobType {
	case jobmodel.JobTypeIngest:
		job = ingestDocument(ctx, job)

	case jobmodel.JobTypeSummarize:
		job = _ragService.SummarizeCorpus(ctx, job)

	default:
		job.CurrentStep = jobmodel.RedisCall
		job = processQuery(ctx, job)
		if job.Status != jobmodel.JobStatusError {
			turn := docModel.ConversationTurn{
				Question: job.JobPayload.Question,
				Answer:   job.JobPayload.Answer,
				Sources:  sourceNames(job.JobPayload.Sources),
			}
			if err := _jobService.MessageStore.TrySaveTurn(ctx, job.ChatId, turn); err != nil {
				logger.Error("Failed to save chat history", "err", err)
			}
		}
	}

	job.EndTime = time.Now()
	finalStatus := jobmodel.JobStatusComplete
	if job.Status == jobmodel.JobStatusError {
		finalStatus = jobmodel.JobStatusError
	}
	saveJobState(ctx, job, finalStatus)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

// retireIdleWorker releases one pool slot unless the pool is already at its
// floor. The decrement is a CAS so concurrent timeouts cannot shrink the pool
// below minWorkerCount.
func retireIdleWorker() bool {
	for {
		count := atomic.LoadInt64(&currentWorkerCount)
		if count <= atomic.LoadInt64(&minWorkerCount) {
			return false
		}
		if atomic.CompareAndSwapInt64(&currentWorkerCount, count, count-1) {
			workerWaitGroup.Done()
			metrics.DecrementActiveWorkerCount()
			logger.Info("Removed worker ", "reason", "idle timeout", "workerCount", atomic.LoadInt64(&currentWorkerCount))
			return true
		}
	}
}

func ingestDocument(ctx context.Context, job jobmodel.Job) jobmodel.Job {
	defer metrics.ClearIngestionProgress(job.Id)

	//progress lands in the job store so status polls see it mid-flight
	progress := func(processed int, total int) {
		job.JobPayload.ChunksProcessed = processed
		job.JobPayload.ChunksTotal = total
		metrics.SetIngestionProgress(job.Id, processed)
		saveJobState(ctx, job, jobmodel.JobStatusRunning)
	}

	return _ragService.IngestDocument(ctx, job, progress)
}

func processQuery(ctx context.Context, job jobmodel.Job) jobmodel.Job {
	messageHistory, err := _jobService.MessageStore.GetHistory(ctx, job.ChatId)
	if err != nil {
		logger.Error("Failed to get message history", "err", err)
	}
	return _ragService.ProcessRequest(ctx, job, messageHistory)
}

func sourceNames(chunks []docModel.DocChunk) []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range chunks {
		if name := c.Metadata.PDFName; name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}
