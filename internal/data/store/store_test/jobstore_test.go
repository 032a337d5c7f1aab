package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/skandula/DocChatAPI/internal/config"
	"github.com/skandula/DocChatAPI/internal/data/redisStore"
	"github.com/skandula/DocChatAPI/internal/data/store"
	"github.com/skandula/DocChatAPI/internal/domain/docModel"
	"github.com/skandula/DocChatAPI/internal/domain/jobModel"
)

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	internalStore := redisStore.NewTestStore(client)
	jobStore := store.TestJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:     jobID,
		Status: jobModel.JobStatusRunning,
		JobPayload: jobModel.JobPayload{
			Question: "How do I mock Redis?",
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		err := jobStore.SaveJob(ctx, testJob)
		if err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}

		if retrievedJob.JobPayload.Question != testJob.JobPayload.Question {
			t.Errorf("Data mismatch! Got %s, want %s",
				retrievedJob.JobPayload.Question, testJob.JobPayload.Question)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		_, found := jobStore.GetJob(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)

		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.TestJobStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
}

func TestRedisMessageStore_History(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	msgStore := store.TestMessageStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "msg-trace")
	chatId := "chat_1"

	t.Run("Unknown ChatId Fails Validation", func(t *testing.T) {
		if msgStore.ValidateChatId(ctx, chatId) {
			t.Error("chat id should not validate before InitNewChat")
		}
		turn := docModel.ConversationTurn{Question: "q", Answer: "a"}
		if err := msgStore.TrySaveTurn(ctx, chatId, turn); err == nil {
			t.Error("TrySaveTurn must reject an unknown chat id")
		}
	})

	t.Run("Init Then Save And Read Back", func(t *testing.T) {
		if err := msgStore.InitNewChat(ctx, chatId); err != nil {
			t.Fatalf("InitNewChat failed: %v", err)
		}
		if !msgStore.ValidateChatId(ctx, chatId) {
			t.Fatal("chat id must validate after InitNewChat")
		}

		turns := []docModel.ConversationTurn{
			{Question: "first", Answer: "one"},
			{Question: "second", Answer: "two"},
		}
		for _, turn := range turns {
			if err := msgStore.TrySaveTurn(ctx, chatId, turn); err != nil {
				t.Fatalf("TrySaveTurn failed: %v", err)
			}
		}

		history, err := msgStore.GetHistory(ctx, chatId)
		if err != nil {
			t.Fatalf("GetHistory failed: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("history length got %d, want 2 (sentinel must be filtered)", len(history))
		}
		if history[0].Question != "first" || history[1].Question != "second" {
			t.Errorf("history out of order: %+v", history)
		}
	})

	t.Run("History Is Bounded By Window", func(t *testing.T) {
		chatId := "chat_window"
		if err := msgStore.InitNewChat(ctx, chatId); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < config.HistoryWindow+3; i++ {
			turn := docModel.ConversationTurn{Question: "q", Answer: "a"}
			if err := msgStore.TrySaveTurn(ctx, chatId, turn); err != nil {
				t.Fatal(err)
			}
		}
		history, err := msgStore.GetHistory(ctx, chatId)
		if err != nil {
			t.Fatal(err)
		}
		if len(history) > config.HistoryWindow {
			t.Errorf("history length got %d, want at most %d", len(history), config.HistoryWindow)
		}
	})
}
