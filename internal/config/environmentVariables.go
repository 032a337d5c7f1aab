package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                       = false
	LOG_LEVEL_PROD                = slog.LevelInfo
	FALLBACK_REDIS_TO_MEMORYSTORE = true //if redis init fails, it falls back to the in-memory stores
	TRACE_ID_KEY                  = "traceId"
	RATE_LIMIT_PER_SECOND         = 2
	BURST_RATE_LIMIT_PER_SECOND   = 5

	//auth - bypass is for local dev only
	NoAuthBypass = true
	AuthToken    = "dev-token"

	//embeddings are 1536 wide for both providers we support
	EmbeddingOutputDimensionality int32 = 1536
	ChunkCollectionName                 = "pdf_embeddings"
	AnswerCacheCollectionName           = "answer-cache"
	CacheSimilarityCutoff               = 0.97

	//chunking - first window is ChunkSize chars, every following window starts
	//ChunkSize-ChunkOverlap chars later
	ChunkSize    = 1000
	ChunkOverlap = 200

	//retrieval
	RetrievalTopK          = 4
	MMRCandidateMultiplier = 4
	MMRLambda              = 0.5
	HistoryWindow          = 5

	//pdf storage
	PDFStorageDir     = "data/pdfs"
	AnnotationsFile   = "data/annotations.json"
	EncryptionKeyFile = "data/secret.key"
	EncryptPDFsAtRest = false
	HashBlockSize     = 4096
	MaxUploadSize     = 32 << 20 //32mb

	//ocr fallback for scanned pages
	OCRResolutionDPI = 300
	OCRPageTimeout   = 30 * time.Second

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantHost             = ""
	QdrantPort             = 6333 //http
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false
	QdrantPoolSize         = 1
	QdrantKeepAliveTimeout = 30 * time.Second

	//llm + embeddings
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	//EMBEDDING_PROVIDER env var switches this, "google" or "openai"
	DefaultEmbeddingProvider = "google"

	ModelTemperature float32 = 0.7
	ModelContext             = "You are a document assistant. Answer only from the supplied context. If the context does not contain the answer, say you don't know."

	//returned without an LLM call when retrieval matches nothing
	InsufficientContextAnswer = "I don't have enough information in the uploaded documents to answer that."

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore     = 0
	RedisMessageStore = 1

	//redis timeouts
	RedisJobStoreTTL     = 24 * time.Hour
	RedisMessageStoreTTL = 24 * time.Hour
)
