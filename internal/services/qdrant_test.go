package services

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
)

func TestGuidelinePointID_StablePerChunk(t *testing.T) {
	assert.Equal(t, guidelinePointID("ats.md", 3), guidelinePointID("ats.md", 3))
	assert.NotEqual(t, guidelinePointID("ats.md", 3), guidelinePointID("ats.md", 4))
	assert.NotEqual(t, guidelinePointID("ats.md", 3), guidelinePointID("layout.md", 3))
}

func TestGuidelinePoint_RoundTripsPayload(t *testing.T) {
	chunk := GuidelineChunk{Source: "ats.md", Category: CategoryATS, Index: 2, Text: "Avoid tables."}

	point := guidelinePoint(chunk, []float32{0.1, 0.2})
	result := searchResultFromPoint(&qdrant.ScoredPoint{Score: 0.87, Payload: point.Payload})

	assert.Equal(t, SearchResult{Source: "ats.md", Category: CategoryATS, Text: "Avoid tables.", Score: 0.87}, result)
	assert.Equal(t, guidelinePointID("ats.md", 2), point.GetId().GetUuid())
}

func TestSearchResultFromPoint_MissingPayload(t *testing.T) {
	result := searchResultFromPoint(&qdrant.ScoredPoint{Score: 0.5})

	assert.Equal(t, SearchResult{Score: 0.5}, result)
}
