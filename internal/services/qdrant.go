package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

const (
	// text-embedding-004 output size
	guidelineVectorSize = 768
	defaultQdrantPort   = 6334
)

// guidelineNamespace keeps point IDs stable across re-ingestion of the same source.
var guidelineNamespace = uuid.MustParse("6f1c2b0e-5a53-4c1e-9d2a-3e7b8f0a4d61")

// QdrantService is the guideline library: chunks of reference material about writing
// resumes, searchable by embedding and filtered by category.
type QdrantService interface {
	InitCollection(ctx context.Context) error
	UpsertGuideline(ctx context.Context, chunk GuidelineChunk, embedding []float32) error
	SearchGuidelines(ctx context.Context, queryEmbedding []float32, category string, limit int) ([]SearchResult, error)
	DeleteSource(ctx context.Context, source string) error
}

type GuidelineChunk struct {
	Source   string
	Category string
	Index    int
	Text     string
}

type SearchResult struct {
	Source   string
	Category string
	Text     string
	Score    float32
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string) (QdrantService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	// gRPC port unless the URL names one
	port := defaultQdrantPort
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: apiKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     guidelineVectorSize,
	}, nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		log.Printf("✅ Qdrant collection '%s' already exists\n", q.collectionName)
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertGuideline implements QdrantService.
func (q *qdrantService) UpsertGuideline(ctx context.Context, chunk GuidelineChunk, embedding []float32) error {
	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{guidelinePoint(chunk, embedding)},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert guideline chunk %s#%d: %w", chunk.Source, chunk.Index, err)
	}

	return nil
}

// SearchGuidelines implements QdrantService. An empty category searches everything.
func (q *qdrantService) SearchGuidelines(ctx context.Context, queryEmbedding []float32, category string, limit int) ([]SearchResult, error) {
	var filter *qdrant.Filter
	if category != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("category", category),
			},
		}
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search guidelines: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		results = append(results, searchResultFromPoint(point))
	}

	return results, nil
}

// DeleteSource implements QdrantService.
func (q *qdrantService) DeleteSource(ctx context.Context, source string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("source", source),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete guideline source %s: %w", source, err)
	}

	return nil
}

func guidelinePointID(source string, index int) string {
	return uuid.NewSHA1(guidelineNamespace, []byte(source+"#"+strconv.Itoa(index))).String()
}

func guidelinePoint(chunk GuidelineChunk, embedding []float32) *qdrant.PointStruct {
	return &qdrant.PointStruct{
		Id:      qdrant.NewID(guidelinePointID(chunk.Source, chunk.Index)),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"source":      chunk.Source,
			"category":    chunk.Category,
			"chunk_index": int64(chunk.Index),
			"text":        chunk.Text,
		}),
	}
}

func searchResultFromPoint(point *qdrant.ScoredPoint) SearchResult {
	result := SearchResult{Score: point.GetScore()}
	payload := point.GetPayload()

	if v, ok := payload["source"]; ok {
		result.Source = v.GetStringValue()
	}
	if v, ok := payload["category"]; ok {
		result.Category = v.GetStringValue()
	}
	if v, ok := payload["text"]; ok {
		result.Text = v.GetStringValue()
	}

	return result
}
