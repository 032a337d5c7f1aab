package rag_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/skandula/DocChatAPI/internal/config"
	"github.com/skandula/DocChatAPI/internal/domain/docModel"
	"github.com/skandula/DocChatAPI/internal/domain/jobModel"
	"github.com/skandula/DocChatAPI/internal/rag"
	"github.com/skandula/DocChatAPI/internal/rag/ingest"
)

func newTestService(e *MockEmbedder, v *MockVectorDB, l *MockLLM, x *MockExtractor) rag.Service {
	pipeline := ingest.NewPipeline(e, v, &MockFileStore{}, x)
	return rag.NewService(v, l, e, pipeline)
}

func TestProcessRequest_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM)
		expectedStep   jobModel.InternalStatus
		expectedStatus jobModel.JobStatus
		expectedAnswer string
		expectedErr    string
	}{
		{
			name: "Success_Full_Flow",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedAnswer = func(ctx context.Context, key string) (string, bool, error) {
					return "", false, nil
				}
				l.OnGenerate = func(ctx context.Context, q string, m []string, h []docModel.ConversationTurn, style, language string) (string, error) {
					return "final answer", nil
				}
			},
			expectedStep:   jobModel.Complete,
			expectedAnswer: "final answer",
		},
		{
			name: "Success_Cache_Hit",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedAnswer = func(ctx context.Context, key string) (string, bool, error) {
					return "cached answer", true, nil
				}
				l.OnGenerate = func(ctx context.Context, q string, m []string, h []docModel.ConversationTurn, style, language string) (string, error) {
					t.Error("LLM must not be called on a cache hit")
					return "", nil
				}
			},
			expectedStep:   jobModel.Complete,
			expectedAnswer: "cached answer",
		},
		{
			name: "Success_Empty_Retrieval",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnSearchMMR = func(ctx context.Context, vec []float32, topK int, f *docModel.SearchFilter) ([]docModel.DocChunk, error) {
					return nil, nil
				}
				l.OnGenerate = func(ctx context.Context, q string, m []string, h []docModel.ConversationTurn, style, language string) (string, error) {
					t.Error("LLM must not be called when retrieval is empty")
					return "", nil
				}
			},
			expectedStep:   jobModel.Complete,
			expectedAnswer: config.InsufficientContextAnswer,
		},
		{
			name: "Failure_Embedding",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "EMBEDDING_FAILURE",
		},
		{
			name: "Failure_Vector_Search",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnSearchMMR = func(ctx context.Context, vec []float32, topK int, f *docModel.SearchFilter) ([]docModel.DocChunk, error) {
					return nil, errors.New("db timeout")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "VECTOR_DB_FAILURE",
		},
		{
			name: "Failure_LLM_Generation",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, q string, m []string, h []docModel.ConversationTurn, style, language string) (string, error) {
					return "", errors.New("provider down")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "LLM_GENERATION_FAILURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mLLM := &MockLLM{}

			tt.setupMocks(mEmbed, mVec, mLLM)

			s := newTestService(mEmbed, mVec, mLLM, &MockExtractor{})

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
			job := jobModel.Job{
				Id: "test-job",
				JobPayload: jobModel.JobPayload{
					Question: "test question",
				},
			}

			result := s.ProcessRequest(ctx, job, nil)

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}

			if tt.expectedStep != "" && result.CurrentStep != tt.expectedStep {
				t.Errorf("Step got %v, want %v", result.CurrentStep, tt.expectedStep)
			}

			if tt.expectedAnswer != "" && result.JobPayload.Answer != tt.expectedAnswer {
				t.Errorf("Answer got %s, want %s", result.JobPayload.Answer, tt.expectedAnswer)
			}

			if tt.expectedErr != "" {
				if result.Error.Code != http.StatusInternalServerError {
					t.Errorf("Error Code got %d, want 500", result.Error.Code)
				}
				if result.Error.Message != tt.expectedErr {
					t.Errorf("Error Message got %s, want %s", result.Error.Message, tt.expectedErr)
				}
			}
		})
	}
}

func TestProcessRequest_FilterReachesSearch(t *testing.T) {
	mVec := &MockVectorDB{}
	var gotFilter *docModel.SearchFilter
	mVec.OnSearchMMR = func(ctx context.Context, vec []float32, topK int, f *docModel.SearchFilter) ([]docModel.DocChunk, error) {
		gotFilter = f
		return defaultChunks(), nil
	}

	s := newTestService(&MockEmbedder{}, mVec, &MockLLM{}, &MockExtractor{})

	filter := &docModel.SearchFilter{PDFName: "report_abc12345.pdf", Tags: []string{"finance"}}
	job := jobModel.Job{
		Id: "filter-job",
		JobPayload: jobModel.JobPayload{
			Question: "what is the revenue",
			Filter:   filter,
		},
	}

	s.ProcessRequest(context.Background(), job, nil)

	if gotFilter == nil {
		t.Fatal("filter never reached the vector search")
	}
	if gotFilter.PDFName != filter.PDFName || len(gotFilter.Tags) != 1 {
		t.Errorf("filter got %+v, want %+v", gotFilter, filter)
	}
}

func TestProcessRequest_HistoryChangesCacheKey(t *testing.T) {
	mVec := &MockVectorDB{}
	var keys []string
	mVec.OnGetCachedAnswer = func(ctx context.Context, key string) (string, bool, error) {
		keys = append(keys, key)
		return "", false, nil
	}

	s := newTestService(&MockEmbedder{}, mVec, &MockLLM{}, &MockExtractor{})

	job := jobModel.Job{Id: "cache-key-job", JobPayload: jobModel.JobPayload{Question: "same question"}}

	s.ProcessRequest(context.Background(), job, nil)
	s.ProcessRequest(context.Background(), job, []docModel.ConversationTurn{{Question: "earlier", Answer: "turn"}})

	if len(keys) != 2 {
		t.Fatalf("expected 2 cache lookups, got %d", len(keys))
	}
	if keys[0] == keys[1] {
		t.Error("different histories must produce different cache keys")
	}
}

func TestProcessRequest_HistoryReachesLLM(t *testing.T) {
	mVec := &MockVectorDB{}
	mVec.OnGetCachedAnswer = func(ctx context.Context, key string) (string, bool, error) {
		return "", false, nil
	}
	mLLM := &MockLLM{}
	var gotHistory []docModel.ConversationTurn
	mLLM.OnGenerate = func(ctx context.Context, q string, m []string, h []docModel.ConversationTurn, style, language string) (string, error) {
		gotHistory = h
		return "follow-up answer", nil
	}

	s := newTestService(&MockEmbedder{}, mVec, mLLM, &MockExtractor{})

	history := []docModel.ConversationTurn{
		{Question: "what is the report about", Answer: "quarterly revenue"},
		{Question: "which quarter", Answer: "the third"},
	}
	job := jobModel.Job{Id: "history-job", JobPayload: jobModel.JobPayload{Question: "and how did it compare"}}

	result := s.ProcessRequest(context.Background(), job, history)

	if result.JobPayload.Answer != "follow-up answer" {
		t.Errorf("Answer got %s", result.JobPayload.Answer)
	}
	if len(gotHistory) != 2 {
		t.Fatalf("generation received %d history turns, want 2", len(gotHistory))
	}
	if gotHistory[0].Question != "what is the report about" || gotHistory[1].Answer != "the third" {
		t.Errorf("history reached generation out of order: %+v", gotHistory)
	}
}

func TestProcessRequest_TopKFromConfig(t *testing.T) {
	mVec := &MockVectorDB{}
	var gotTopK int
	mVec.OnSearchMMR = func(ctx context.Context, vec []float32, topK int, f *docModel.SearchFilter) ([]docModel.DocChunk, error) {
		gotTopK = topK
		return defaultChunks(), nil
	}

	s := newTestService(&MockEmbedder{}, mVec, &MockLLM{}, &MockExtractor{})
	s.ProcessRequest(context.Background(), jobModel.Job{Id: "topk-job", JobPayload: jobModel.JobPayload{Question: "q"}}, nil)

	if gotTopK != config.RetrievalTopK {
		t.Errorf("retrieval topK got %d, want %d", gotTopK, config.RetrievalTopK)
	}
}

func TestIngestDocument_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockVectorDB, x *MockExtractor)
		expectedStatus jobModel.JobStatus
		expectedResult docModel.IngestStatus
		expectRetry    bool
		expectUpserts  bool
	}{
		{
			name:           "Ingestion_Success",
			setupMocks:     func(e *MockEmbedder, v *MockVectorDB, x *MockExtractor) {},
			expectedResult: docModel.IngestStatusIndexed,
			expectUpserts:  true,
		},
		{
			name: "Duplicate_Short_Circuits",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, x *MockExtractor) {
				v.OnCountChunks = func(ctx context.Context, pdfHash string) (uint64, error) {
					return 7, nil
				}
				e.OnBatchEmbedding = func(ctx context.Context, chunks []string) ([][]float32, error) {
					t.Error("duplicate content must not be re-embedded")
					return nil, nil
				}
			},
			expectedResult: docModel.IngestStatusAlreadyIndexed,
		},
		{
			name: "Failure_Collection_Creation",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, x *MockExtractor) {
				v.OnCreateCollection = func(ctx context.Context, name string) error {
					return errors.New("connection refused")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectRetry:    true,
		},
		{
			name: "Failure_Embedding_Leaves_Index_Untouched",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, x *MockExtractor) {
				e.OnBatchEmbedding = func(ctx context.Context, chunks []string) ([][]float32, error) {
					return nil, errors.New("quota exceeded")
				}
				v.OnUpsertBatch = func(ctx context.Context, coll string, chunks []docModel.DocChunk, vectors [][]float32) error {
					t.Error("no index write may happen after an embedding failure")
					return nil
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectRetry:    true,
		},
		{
			name: "Failure_Unreadable_Document_No_Retry",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, x *MockExtractor) {
				x.OnExtract = func(ctx context.Context, path string) (string, error) {
					return "", ingest.ErrUnreadableDocument
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectRetry:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dummyFile := filepath.Join(t.TempDir(), "test_ingest.pdf")
			if err := os.WriteFile(dummyFile, []byte("test content for ingestion"), 0644); err != nil {
				t.Fatal(err)
			}

			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mExtract := &MockExtractor{}

			upserts := 0
			prevUpsert := mVec.OnUpsertBatch
			mVec.OnUpsertBatch = func(ctx context.Context, coll string, chunks []docModel.DocChunk, vectors [][]float32) error {
				upserts++
				if prevUpsert != nil {
					return prevUpsert(ctx, coll, chunks, vectors)
				}
				return nil
			}

			tt.setupMocks(mEmbed, mVec, mExtract)

			s := newTestService(mEmbed, mVec, &MockLLM{}, mExtract)

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "ingest-trace")
			job := jobModel.Job{
				Id: "ingest-job-1",
				JobPayload: jobModel.JobPayload{
					IngestFileName: "test_ingest.pdf",
					IngestURL:      dummyFile,
					IngestTags:     []string{"test"},
				},
			}

			result := s.IngestDocument(ctx, job, nil)

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}

			if tt.expectedResult != "" {
				if result.JobPayload.IngestResult == nil {
					t.Fatal("expected an ingest result")
				}
				if result.JobPayload.IngestResult.Status != tt.expectedResult {
					t.Errorf("IngestResult got %v, want %v", result.JobPayload.IngestResult.Status, tt.expectedResult)
				}
			}

			if tt.expectedStatus == jobModel.JobStatusError && result.Error.Retry != tt.expectRetry {
				t.Errorf("Retry got %v, want %v", result.Error.Retry, tt.expectRetry)
			}

			if tt.expectUpserts && upserts != 1 {
				t.Errorf("Upsert count got %d, want 1", upserts)
			}
			if !tt.expectUpserts && upserts != 0 {
				t.Errorf("Upsert count got %d, want 0", upserts)
			}
		})
	}
}

func TestSummarizeCorpus(t *testing.T) {
	t.Run("Empty_Corpus_Skips_LLM", func(t *testing.T) {
		mLLM := &MockLLM{}
		mLLM.OnSummarize = func(ctx context.Context, text string) (string, error) {
			t.Error("Summarize must not be called for an empty corpus")
			return "", nil
		}
		s := newTestService(&MockEmbedder{}, &MockVectorDB{}, mLLM, &MockExtractor{})

		result := s.SummarizeCorpus(context.Background(), jobModel.Job{Id: "sum-1"})
		if result.JobPayload.Answer != config.InsufficientContextAnswer {
			t.Errorf("Answer got %s, want fallback", result.JobPayload.Answer)
		}
	})

	t.Run("Joins_All_Chunk_Texts", func(t *testing.T) {
		mVec := &MockVectorDB{}
		mVec.OnAllChunkTexts = func(ctx context.Context) ([]string, error) {
			return []string{"part one", "part two"}, nil
		}
		mLLM := &MockLLM{}
		var got string
		mLLM.OnSummarize = func(ctx context.Context, text string) (string, error) {
			got = text
			return "the summary", nil
		}
		s := newTestService(&MockEmbedder{}, mVec, mLLM, &MockExtractor{})

		result := s.SummarizeCorpus(context.Background(), jobModel.Job{Id: "sum-2"})
		if got != "part one part two" {
			t.Errorf("Summarize input got %q", got)
		}
		if result.JobPayload.Answer != "the summary" {
			t.Errorf("Answer got %s", result.JobPayload.Answer)
		}
	})
}

func TestRecommend_DistinctNames(t *testing.T) {
	mVec := &MockVectorDB{}
	mVec.OnSearch = func(ctx context.Context, v []float32, topK int, f *docModel.SearchFilter) ([]docModel.DocChunk, error) {
		meta := func(name string) docModel.ChunkMetadata { return docModel.ChunkMetadata{PDFName: name} }
		return []docModel.DocChunk{
			{ChunkId: "a_0", Metadata: meta("a_11111111.pdf")},
			{ChunkId: "a_1", Metadata: meta("a_11111111.pdf")},
			{ChunkId: "b_0", Metadata: meta("b_22222222.pdf")},
		}, nil
	}

	s := newTestService(&MockEmbedder{}, mVec, &MockLLM{}, &MockExtractor{})
	names, err := s.Recommend(context.Background(), "related reading")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 {
		t.Fatalf("got %d names, want 2 distinct", len(names))
	}
	if names[0] != "a_11111111.pdf" || names[1] != "b_22222222.pdf" {
		t.Errorf("names got %v", names)
	}
}
