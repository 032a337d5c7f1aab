package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/skandula/DocChatAPI/internal/config"
	"github.com/skandula/DocChatAPI/internal/customHttpClient"
	"github.com/skandula/DocChatAPI/internal/domain/docModel"
	"github.com/skandula/DocChatAPI/internal/rag/llm"
	"github.com/skandula/DocChatAPI/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName}
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		HTTPClient: customHttpClient.Pooled(),
	})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiClient = &llmClient{client: c, modelName: modelName}
		logger.Info("Gemini client created", "model", modelName)
		go closeClient(ctx, geminiClient)
	}
}

func (c *llmClient) Generate(ctx context.Context, userQuery string, matches []string, history []docModel.ConversationTurn, style string, language string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	var prompt strings.Builder
	if len(history) > 0 {
		prompt.WriteString("Conversation so far (Q is the user, A is you):\n")
		for _, turn := range history {
			fmt.Fprintf(&prompt, "Q: %s\nA: %s\n", turn.Question, turn.Answer)
		}
		prompt.WriteString("\n")
	}
	prompt.WriteString("Context:\n")
	prompt.WriteString(strings.Join(matches, "\n"))
	fmt.Fprintf(&prompt, "\n\nUser Question: %s", userQuery)

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(style, language),
		Temperature:       genai.Ptr(config.ModelTemperature),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt.String()), contentConfig)
	if err != nil {
		log.Error("Gemini generation failed", "error", err)
		return "", err
	}
	return result.Text(), nil
}

func (c *llmClient) Summarize(ctx context.Context, text string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	prompt := fmt.Sprintf("Summarize the following text:\n\n%s\n\nSummary:", text)
	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), nil)
	if err != nil {
		log.Error("Gemini summarization failed", "error", err)
		return "", err
	}
	return result.Text(), nil
}

func systemInstruction(style string, language string) *genai.Content {
	instruction := config.ModelContext
	if style != "" {
		instruction += " Respond in a " + strings.ToLower(style) + " style."
	}
	if language != "" {
		instruction += " Respond in " + language + "."
	}
	return &genai.Content{
		Parts: []*genai.Part{{Text: instruction}},
	}
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llm.client = nil
	llm.modelName = ""
}
