package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/skandula/DocChatAPI/internal/config"
	"github.com/skandula/DocChatAPI/internal/domain/docModel"
	"github.com/skandula/DocChatAPI/pkg/logger_i"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)
var collectionName = config.ChunkCollectionName

const scrollPageLimit = 4096

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQdrantClient(ctx context.Context) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			initCacheCollection(ctx, qdrantInstance)
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: qdrantInstance,
	}
}

func newClient() *qdrant.Client {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	err = createCollection(context.Background(), client, collectionName)
	if err != nil {
		logger.Error("could not create collection: ", "collectionName", collectionName, "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
		return
	}
	logger.Info("Closed Qdrant")
}

// Search is the plain filtered top-K similarity query (used by the
// recommendations path and as the candidate fetch for MMR).
func (db *ClientHolder) Search(ctx context.Context, vector []float32, topK int, filter *docModel.SearchFilter) ([]docModel.DocChunk, error) {
	hits, err := db.query(ctx, vector, topK, filter, false)
	if err != nil {
		return nil, err
	}
	chunks := make([]docModel.DocChunk, 0, len(hits))
	for _, hit := range hits {
		chunks = append(chunks, chunkFromPayload(hit.Payload))
	}
	return chunks, nil
}

// SearchMMR fetches an enlarged candidate set with vectors and re-ranks it
// with maximal marginal relevance so the returned chunks are relevant to the
// query without being near-duplicates of each other.
func (db *ClientHolder) SearchMMR(ctx context.Context, vector []float32, topK int, filter *docModel.SearchFilter) ([]docModel.DocChunk, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	hits, err := db.query(ctx, vector, topK*config.MMRCandidateMultiplier, filter, true)
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	candidates := make([][]float32, len(hits))
	for i, hit := range hits {
		candidates[i] = hit.GetVectors().GetVector().GetData()
	}

	selected := maximalMarginalRelevance(vector, candidates, config.MMRLambda, topK)
	chunks := make([]docModel.DocChunk, 0, len(selected))
	for _, idx := range selected {
		chunks = append(chunks, chunkFromPayload(hits[idx].Payload))
	}
	return chunks, nil
}

func (db *ClientHolder) query(ctx context.Context, vector []float32, limit int, filter *docModel.SearchFilter, withVectors bool) ([]*qdrant.ScoredPoint, error) {
	points := &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         buildFilter(filter),
	}
	if withVectors {
		points.WithVectors = qdrant.NewWithVectors(true)
	}
	return db.QObj.Query(ctx, points)
}

// CountChunks is the dedup probe: any chunk carrying the hash means the
// document is fully indexed (writes are all-or-nothing per document).
func (db *ClientHolder) CountChunks(ctx context.Context, pdfHash string) (uint64, error) {
	return db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: collectionName,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("pdf_hash", pdfHash)},
		},
		Exact: qdrant.PtrOf(true),
	})
}

func (db *ClientHolder) CreateCollection(ctx context.Context, collectionName string) error {
	return createCollection(ctx, db.QObj, collectionName)
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, chunks []docModel.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			//point ids must be UUIDs, so the "{hash}_{index}" identity is
			//hashed into a stable v5 UUID. Re-ingestion maps to the same
			//points and the upsert stays idempotent.
			Id:      qdrant.NewID(pointID(chunk.ChunkId)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":     chunk.Text,
				"chunk_id":    chunk.ChunkId,
				"chunk_index": chunk.Index,
				"pdf_hash":    chunk.Metadata.PDFHash,
				"pdf_name":    chunk.Metadata.PDFName,
				"upload_date": chunk.Metadata.UploadDate,
				"tags":        chunk.Metadata.Tags,
				"tag_list":    toAnySlice(chunk.Metadata.TagList),
				"version":     chunk.Metadata.Version,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

// ListDocuments scrolls the collection payloads and folds chunks down to
// their distinct source documents.
func (db *ClientHolder) ListDocuments(ctx context.Context) ([]docModel.Document, error) {
	points, err := db.scrollAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]docModel.Document)
	for _, p := range points {
		c := chunkFromPayload(p.Payload)
		if _, ok := seen[c.Metadata.PDFHash]; ok {
			continue
		}
		seen[c.Metadata.PDFHash] = docModel.Document{
			Hash:       c.Metadata.PDFHash,
			StoredName: c.Metadata.PDFName,
			UploadDate: c.Metadata.UploadDate,
			Tags:       c.Metadata.TagList,
		}
	}

	docs := make([]docModel.Document, 0, len(seen))
	for _, d := range seen {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].StoredName < docs[j].StoredName })
	return docs, nil
}

// AllChunkTexts returns every indexed chunk text in document order, the
// input for corpus-wide summarization.
func (db *ClientHolder) AllChunkTexts(ctx context.Context) ([]string, error) {
	points, err := db.scrollAll(ctx)
	if err != nil {
		return nil, err
	}

	chunks := make([]docModel.DocChunk, 0, len(points))
	for _, p := range points {
		chunks = append(chunks, chunkFromPayload(p.Payload))
	}
	sort.Slice(chunks, func(i, j int) bool {
		if chunks[i].Metadata.PDFHash != chunks[j].Metadata.PDFHash {
			return chunks[i].Metadata.PDFHash < chunks[j].Metadata.PDFHash
		}
		return chunks[i].Index < chunks[j].Index
	})

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}
	return texts, nil
}

// scrollAll walks the whole collection. A single Scroll call caps at
// scrollPageLimit points, so the cursor is followed until the server stops
// returning a next-page offset.
func (db *ClientHolder) scrollAll(ctx context.Context) ([]*qdrant.RetrievedPoint, error) {
	return collectScroll(func(offset *qdrant.PointId) ([]*qdrant.RetrievedPoint, *qdrant.PointId, error) {
		resp, err := db.QObj.GetPointsClient().Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: collectionName,
			Limit:          qdrant.PtrOf(uint32(scrollPageLimit)),
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return nil, nil, err
		}
		return resp.GetResult(), resp.GetNextPageOffset(), nil
	})
}

// collectScroll drains a paged cursor: fetchPage is called with the previous
// page's next-offset (nil for the first page) until no next-offset comes back.
func collectScroll(fetchPage func(offset *qdrant.PointId) ([]*qdrant.RetrievedPoint, *qdrant.PointId, error)) ([]*qdrant.RetrievedPoint, error) {
	var all []*qdrant.RetrievedPoint
	var offset *qdrant.PointId
	for {
		points, next, err := fetchPage(offset)
		if err != nil {
			return nil, err
		}
		all = append(all, points...)
		if next == nil {
			return all, nil
		}
		offset = next
	}
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func chunkFromPayload(payload map[string]*qdrant.Value) docModel.DocChunk {
	return docModel.DocChunk{
		ChunkId: payload["chunk_id"].GetStringValue(),
		Index:   int(payload["chunk_index"].GetIntegerValue()),
		Text:    payload["content"].GetStringValue(),
		Metadata: docModel.ChunkMetadata{
			PDFHash:    payload["pdf_hash"].GetStringValue(),
			PDFName:    payload["pdf_name"].GetStringValue(),
			UploadDate: payload["upload_date"].GetStringValue(),
			Tags:       payload["tags"].GetStringValue(),
			TagList:    fromListValue(payload["tag_list"]),
			Version:    int(payload["version"].GetIntegerValue()),
		},
	}
}

func pointID(chunkId string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkId)).String()
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func fromListValue(v *qdrant.Value) []string {
	list := v.GetListValue()
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list.Values))
	for _, item := range list.Values {
		out = append(out, item.GetStringValue())
	}
	return out
}
