package llm

import (
	"context"

	"github.com/skandula/DocChatAPI/internal/domain/docModel"
)

type Provider interface {
	// Generate answers the query grounded in the retrieved matches, carrying
	// the prior turns so follow-up questions can resolve references. Style
	// and language are generation directives, empty means provider default.
	Generate(ctx context.Context, query string, matches []string, history []docModel.ConversationTurn, style string, language string) (string, error)

	// Summarize condenses the whole corpus text.
	Summarize(ctx context.Context, text string) (string, error)
}
