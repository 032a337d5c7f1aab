// @title           DocChat API
// @version         1.0
// @description     Asynchronous PDF ingestion and retrieval-augmented document QA
// @termsOfService  http://swagger.io/terms/

// @contact.name    skandula
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/skandula/DocChatAPI/internal/annotations"
	"github.com/skandula/DocChatAPI/internal/config"
	"github.com/skandula/DocChatAPI/internal/data/store"
	jobmodel "github.com/skandula/DocChatAPI/internal/domain/jobModel"
	"github.com/skandula/DocChatAPI/internal/handlers"
	"github.com/skandula/DocChatAPI/internal/job"
	"github.com/skandula/DocChatAPI/internal/mcpserver"
	"github.com/skandula/DocChatAPI/internal/rag"
	"github.com/skandula/DocChatAPI/internal/rag/embedding"
	"github.com/skandula/DocChatAPI/internal/rag/embedding/googleEmbedding"
	"github.com/skandula/DocChatAPI/internal/rag/embedding/openaiEmbedding"
	"github.com/skandula/DocChatAPI/internal/rag/ingest"
	"github.com/skandula/DocChatAPI/internal/rag/llm/gemini"
	"github.com/skandula/DocChatAPI/internal/rag/vectorDB/qdrantDB"
	"github.com/skandula/DocChatAPI/internal/server"
	"github.com/skandula/DocChatAPI/internal/storage"
	"github.com/skandula/DocChatAPI/internal/worker"
	"github.com/skandula/DocChatAPI/pkg/logger_i"
)

var (
	listenAddr        string
	mcpMode           bool
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.BoolVar(&mcpMode, "mcp", false, "serve MCP over stdio instead of HTTP")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          store.GetRedisJobStore(serviceContext),
		MessageStore:      store.GetRedisMessageStore(serviceContext),
	}
	logger.Info("Starting job service")

	if serviceConfig.JobStore == nil || serviceConfig.MessageStore == nil {
		logger.Error("Redis stores are offline")
		if !config.FALLBACK_REDIS_TO_MEMORYSTORE {
			return
		}
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.MessageStore = store.InitMessageStore()
	}
	service := job.InitJobService(serviceConfig)

	googleAPIKey := os.Getenv("GOOGLE_API_KEY")

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)
	embeddingService := initEmbedder(serviceContext, googleAPIKey)
	llmProvider := gemini.GetGeminiClient(serviceContext, config.GeminiModelName, googleAPIKey)

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	pdfStore, err := initPDFStore()
	if err != nil {
		logger.Error("Could not initialize pdf storage", "error", err)
		return
	}

	extractor := ingest.NewPDFExtractor(ingest.NewTesseractOCR())
	pipeline := ingest.NewPipeline(embeddingService, vectorDB, pdfStore, extractor)

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService, pipeline)

	if mcpMode {
		if err := mcpserver.NewServer(ragService).Run(serviceContext); err != nil {
			logger.Error("MCP server stopped", "error", err)
		}
		return
	}

	annotationStore := annotations.NewStore(config.AnnotationsFile)
	handlers.InitJobHandler(service, ragService, annotationStore)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

// initEmbedder picks the embedding provider, EMBEDDING_PROVIDER overrides
// the compiled default. Both produce vectors of the same width so the index
// stays valid either way.
func initEmbedder(ctx context.Context, googleAPIKey string) embedding.Embedder {
	provider := os.Getenv("EMBEDDING_PROVIDER")
	if provider == "" {
		provider = config.DefaultEmbeddingProvider
	}

	if provider == "openai" {
		return openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, os.Getenv("OPENAI_API_KEY"))
	}
	return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, googleAPIKey)
}

func initPDFStore() (*storage.PDFStore, error) {
	if !config.EncryptPDFsAtRest {
		return storage.NewPDFStore(config.PDFStorageDir, nil), nil
	}

	key, err := storage.LoadKey(config.EncryptionKeyFile)
	if errors.Is(err, os.ErrNotExist) {
		if err := storage.GenerateKey(config.EncryptionKeyFile); err != nil {
			return nil, err
		}
		key, err = storage.LoadKey(config.EncryptionKeyFile)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	cipher, err := storage.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return storage.NewPDFStore(config.PDFStorageDir, cipher), nil
}
