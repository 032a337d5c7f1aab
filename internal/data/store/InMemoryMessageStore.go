package store

import (
	"context"
	"sync"

	"github.com/skandula/DocChatAPI/internal/config"
	"github.com/skandula/DocChatAPI/internal/domain/docModel"
)

type InMemoryMessageStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]docModel.ConversationTurn
}

func InitMessageStore() *InMemoryMessageStore {
	return &InMemoryMessageStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]docModel.ConversationTurn),
	}
}

func (store *InMemoryMessageStore) ValidateChatId(ctx context.Context, chatId string) bool {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	_, ok := store.chatMap[chatId]
	return ok
}

func (store *InMemoryMessageStore) saveTurn(id string, turn docModel.ConversationTurn) {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[id] = append(store.chatMap[id], turn)
}

func (store *InMemoryMessageStore) TrySaveTurn(ctx context.Context, id string, turn docModel.ConversationTurn) error {
	if store.ValidateChatId(ctx, id) == false {
		return nil
	}
	store.saveTurn(id, turn)
	return nil
}

func (store *InMemoryMessageStore) InitNewChat(ctx context.Context, id string) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[id] = make([]docModel.ConversationTurn, 0)
	return nil
}

func (store *InMemoryMessageStore) GetHistory(ctx context.Context, chatId string) ([]docModel.ConversationTurn, error) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()

	turns := store.chatMap[chatId]
	if len(turns) > config.HistoryWindow {
		turns = turns[len(turns)-config.HistoryWindow:]
	}
	out := make([]docModel.ConversationTurn, len(turns))
	copy(out, turns)
	return out, nil
}
