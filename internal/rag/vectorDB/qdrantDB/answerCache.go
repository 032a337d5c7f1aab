package qdrantDB

import (
	"context"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"github.com/skandula/DocChatAPI/internal/config"
)

// The answer cache stores finished answers keyed on the exact
// (query, history, style, language, filter) tuple. The key is hashed into a
// deterministic point id, so a repeated identical request is a single point
// lookup and re-asking after new turns naturally misses.
var answerCacheName string = config.AnswerCacheCollectionName

func initCacheCollection(ctx context.Context, client *qdrant.Client) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	err := createCollection(ctx, client, answerCacheName)
	if err != nil {
		loggr.Error("Answer cache collection creation failed", "error", err)
	}
}

func (db *ClientHolder) GetCachedAnswer(ctx context.Context, cacheKey string) (string, bool, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	points, err := db.QObj.Get(ctx, &qdrant.GetPoints{
		CollectionName: answerCacheName,
		Ids:            []*qdrant.PointId{qdrant.NewID(pointID(cacheKey))},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Cache lookup failed", "error", err)
		return "", false, err
	}
	if len(points) == 0 {
		return "", false, nil
	}

	loggr.Info("---------------cache hit---------------------")
	answer := points[0].Payload["answer"].GetStringValue()
	return answer, true, nil
}

func (db *ClientHolder) SaveToCache(ctx context.Context, cacheKey string, vector []float32, answer string) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	loggr.Debug("Saving answer to cache")
	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: answerCacheName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(pointID(cacheKey)),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"answer":    answer,
					"timestamp": time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		loggr.Error("Saving answer to cache failed", "error", err)
	}
	return err
}
