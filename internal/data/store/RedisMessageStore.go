package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/skandula/DocChatAPI/internal/config"
	"github.com/skandula/DocChatAPI/internal/data/redisStore"
	"github.com/skandula/DocChatAPI/internal/domain/docModel"
	"github.com/skandula/DocChatAPI/pkg/logger_i"
)

type RedisMessageStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisMessageStore(ctx context.Context) *RedisMessageStore {
	return &RedisMessageStore{
		store:  redisStore.GetRedisStore(ctx, config.RedisMessageStore),
		logger: logger_i.NewLogger("MessageStore"),
	}
}

func (s *RedisMessageStore) ValidateChatId(ctx context.Context, chatId string) bool {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chatId)
	log.Debug("validating chatId")
	isFound, err := s.store.Exists(ctx, chatId)
	if s.store.IsNil(err) {
		return false
	} else if err != nil {
		log.Error("Failed to check if chatId exists", "err", err)
		return false
	}
	return isFound
}

func (s *RedisMessageStore) TrySaveTurn(ctx context.Context, id string, turn docModel.ConversationTurn) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)
	if s.ValidateChatId(ctx, id) == false {
		err := errors.New("invalid chat id")
		log.Error("Failed Validation before saving", "err", err)
		return err
	}
	return s.saveTurn(ctx, id, turn)
}

func (s *RedisMessageStore) saveTurn(ctx context.Context, id string, turn docModel.ConversationTurn) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)
	err := s.store.ListPush(ctx, id, marshallJson(turn, s.logger))
	if err != nil {
		log.Error("error saving turn", "error:", err)
		return err
	}
	log.Debug("Saved turn successfully")
	return nil
}

func (s *RedisMessageStore) InitNewChat(ctx context.Context, id string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)
	log.Debug("Initializing new chat")
	if err := s.store.Del(ctx, id); err != nil && !s.store.IsNil(err) {
		log.Error("Error initializing chat", "error", err)
	}
	//empty sentinel turn so the key exists for ValidateChatId, filtered out on read
	return s.saveTurn(ctx, id, docModel.ConversationTurn{})
}

func marshallJson(turn docModel.ConversationTurn, logger *logger_i.Logger) []byte {
	data, err := json.Marshal(turn)
	if err != nil {
		logger.Error("Error marshalling json", "error", err)
	}
	return data
}

// GetHistory returns up to HistoryWindow most recent turns, oldest first.
func (s *RedisMessageStore) GetHistory(ctx context.Context, chatId string) ([]docModel.ConversationTurn, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chatId)
	log.Debug("Getting message history")

	raw, err := s.store.ListGetRecentTurns(ctx, chatId)
	if err != nil {
		log.Error("Error getting history", "error:", err)
		return nil, err
	}

	turns := make([]docModel.ConversationTurn, 0, len(raw))
	for _, entry := range raw {
		var turn docModel.ConversationTurn
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			log.Warn("skipping malformed history entry", "error", err)
			continue
		}
		if turn.Question == "" && turn.Answer == "" {
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func TestMessageStore(store *redisStore.Store) *RedisMessageStore {
	return &RedisMessageStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
