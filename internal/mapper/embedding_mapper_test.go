package mapper

import (
	"testing"
	"time"

	"boardgame-rules-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingMapperRoundTrip(t *testing.T) {
	m := NewEmbeddingMapper()
	sourceId := uuid.New()

	original := &entity.EmbeddingChunk{
		Id:             uuid.New(),
		GameId:         uuid.New(),
		ChunkText:      "players may trade resources at any time",
		EmbeddingValue: []float32{0.1, 0.2, 0.3},
		ChunkIndex:     4,
		SourceType:     entity.SourceTypeHouseRule,
		SourceId:       &sourceId,
		Metadata: map[string]interface{}{
			"title": "trading",
			"model": "nomic-embed-text",
		},
		CreatedAt: time.Now().Truncate(time.Second),
	}

	model := m.ToModel(original)
	back := m.ToEntity(model)

	require.NotNil(t, back)
	assert.Equal(t, original.Id, back.Id)
	assert.Equal(t, original.GameId, back.GameId)
	assert.Equal(t, original.ChunkText, back.ChunkText)
	assert.Equal(t, original.EmbeddingValue, back.EmbeddingValue)
	assert.Equal(t, original.ChunkIndex, back.ChunkIndex)
	assert.Equal(t, original.SourceType, back.SourceType)
	assert.Equal(t, original.SourceId, back.SourceId)
	assert.Equal(t, "trading", back.Metadata["title"])
	assert.Equal(t, "nomic-embed-text", back.Metadata["model"])
}

func TestEmbeddingMapperNilMetadata(t *testing.T) {
	m := NewEmbeddingMapper()

	model := m.ToModel(&entity.EmbeddingChunk{
		Id:             uuid.New(),
		GameId:         uuid.New(),
		ChunkText:      "setup",
		EmbeddingValue: []float32{1, 0},
		SourceType:     entity.SourceTypeRulesPdf,
	})
	back := m.ToEntity(model)

	require.NotNil(t, back)
	assert.Nil(t, back.Metadata)
	assert.Nil(t, back.SourceId)
}

func TestEmbeddingMapperNil(t *testing.T) {
	m := NewEmbeddingMapper()
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
}
