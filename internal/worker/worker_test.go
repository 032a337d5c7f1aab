package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/skandula/DocChatAPI/internal/config"
	"github.com/skandula/DocChatAPI/internal/domain/docModel"
	"github.com/skandula/DocChatAPI/internal/domain/jobModel"
	"github.com/skandula/DocChatAPI/internal/job"
	"github.com/skandula/DocChatAPI/internal/rag/ingest"
	"github.com/skandula/DocChatAPI/pkg/logger_i"
)

// MockRagService to track if jobs are executed
type MockRagService struct {
	ProcessedCount   int32
	OnProcessRequest func(ctx context.Context, j jobModel.Job, hist []docModel.ConversationTurn) jobModel.Job
}

func (m *MockRagService) ProcessRequest(ctx context.Context, j jobModel.Job, hist []docModel.ConversationTurn) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	if m.OnProcessRequest != nil {
		return m.OnProcessRequest(ctx, j, hist)
	}
	return j
}

func (m *MockRagService) IngestDocument(ctx context.Context, j jobModel.Job, progress ingest.ProgressFunc) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return j
}

func (m *MockRagService) SummarizeCorpus(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return j
}

func (m *MockRagService) Recommend(ctx context.Context, query string) ([]string, error) {
	return nil, nil
}

func (m *MockRagService) ListDocuments(ctx context.Context) ([]docModel.Document, error) {
	return nil, nil
}

type MockJobStore struct {
	OnSaveJob func(ctx context.Context, job jobModel.Job) error
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	return jobModel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {
}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	if m.OnSaveJob != nil {
		return m.OnSaveJob(ctx, j)
	}
	return nil
}

// MockMessageStore handles chat history
type MockMessageStore struct {
	OnGetHistory func(ctx context.Context, chatId string) ([]docModel.ConversationTurn, error)
	OnSaveTurn   func(ctx context.Context, chatId string, turn docModel.ConversationTurn) error
}

func (m *MockMessageStore) ValidateChatId(ctx context.Context, id string) bool {
	return true
}

func (m *MockMessageStore) InitNewChat(ctx context.Context, id string) error {
	return nil
}

func (m *MockMessageStore) GetHistory(ctx context.Context, id string) ([]docModel.ConversationTurn, error) {
	if m.OnGetHistory != nil {
		return m.OnGetHistory(ctx, id)
	}
	return nil, nil
}

func (m *MockMessageStore) TrySaveTurn(ctx context.Context, id string, turn docModel.ConversationTurn) error {
	if m.OnSaveTurn != nil {
		return m.OnSaveTurn(ctx, id, turn)
	}
	return nil
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          &MockJobStore{},
		MessageStore:      &MockMessageStore{},
	}
	mockRag := &MockRagService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockRag)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		// Signal dispatcher to create a worker
		jobSvc.DispatcherChannel <- true

		// Give it a millisecond to spawn
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a job", func(t *testing.T) {
		testJob := jobModel.Job{Id: "test-1"}
		jobSvc.JobChannel <- testJob

		// Wait for worker to pick up and process
		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockRag.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		// Send stop signal
		close(stopChan)

		// Wait for workers to exit
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_SavesTurnAfterQuery(t *testing.T) {
	var savedTurn *docModel.ConversationTurn
	msgStore := &MockMessageStore{
		OnSaveTurn: func(ctx context.Context, chatId string, turn docModel.ConversationTurn) error {
			savedTurn = &turn
			return nil
		},
	}
	jobSvc := &job.Service{
		JobChannel:   make(chan jobModel.Job),
		JobStore:     &MockJobStore{},
		MessageStore: msgStore,
	}
	logger = logger_i.NewLogger("TestWorkerPool")
	InitServices(jobSvc, &MockRagService{})

	testJob := jobModel.Job{
		Id:      "query-1",
		ChatId:  "chat-1",
		JobType: jobModel.JobTypeQuery,
		JobPayload: jobModel.JobPayload{
			Question: "what is in the report",
		},
	}
	executeJob(testJob)

	if savedTurn == nil {
		t.Fatal("expected the conversation turn to be saved after a query job")
	}
	if savedTurn.Question != "what is in the report" {
		t.Errorf("saved turn question got %q", savedTurn.Question)
	}
}

func TestWorker_ForwardsHistoryToService(t *testing.T) {
	storedHistory := []docModel.ConversationTurn{
		{Question: "what is chapter one about", Answer: "the setup"},
		{Question: "and chapter two", Answer: "the conflict"},
	}
	msgStore := &MockMessageStore{
		OnGetHistory: func(ctx context.Context, chatId string) ([]docModel.ConversationTurn, error) {
			return storedHistory, nil
		},
	}
	var received []docModel.ConversationTurn
	mockRag := &MockRagService{
		OnProcessRequest: func(ctx context.Context, j jobModel.Job, hist []docModel.ConversationTurn) jobModel.Job {
			received = hist
			return j
		},
	}
	jobSvc := &job.Service{
		JobChannel:   make(chan jobModel.Job),
		JobStore:     &MockJobStore{},
		MessageStore: msgStore,
	}
	logger = logger_i.NewLogger("TestWorkerPool")
	InitServices(jobSvc, mockRag)

	executeJob(jobModel.Job{
		Id:      "query-2",
		ChatId:  "chat-2",
		JobType: jobModel.JobTypeQuery,
		JobPayload: jobModel.JobPayload{
			Question: "so how does it end",
		},
	})

	if len(received) != 2 {
		t.Fatalf("service received %d history turns, want 2", len(received))
	}
	if received[0].Question != "what is chapter one about" || received[1].Question != "and chapter two" {
		t.Errorf("history order changed in transit: %+v", received)
	}
}

func TestWorker_IdleTimeout(t *testing.T) {
	// Temporarily override config/globals for test
	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 1)
	logger = logger_i.NewLogger("TestWorkerPool")
	jobSvc := &job.Service{
		JobChannel: make(chan jobModel.Job),
	}
	InitServices(jobSvc, &MockRagService{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	// Spawn 2 workers: the pool sits above its floor, so one must retire on
	// the idle timeout while the floor worker keeps running
	createWorker()
	createWorker()
	time.Sleep(config.IdleWorkerTimeout)

	time.Sleep(100 * time.Millisecond)
	count := atomic.LoadInt64(&currentWorkerCount)
	if count != 1 {
		t.Errorf("Assertion Failed: pool should have shrunk to its floor of 1, but count is %d", count)
	}
	close(stopChan)
}
