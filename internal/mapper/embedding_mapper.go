package mapper

import (
	"encoding/json"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/internal/model"
)

type EmbeddingMapper struct{}

func NewEmbeddingMapper() *EmbeddingMapper {
	return &EmbeddingMapper{}
}

func (m *EmbeddingMapper) ToEntity(e *model.EmbeddingChunk) *entity.EmbeddingChunk {
	if e == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(e.Metadata) > 0 {
		_ = json.Unmarshal(e.Metadata, &metadata)
	}

	return &entity.EmbeddingChunk{
		Id:             e.Id,
		GameId:         e.GameId,
		ChunkText:      e.ChunkText,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		ChunkIndex:     e.ChunkIndex,
		SourceType:     e.SourceType,
		SourceId:       e.SourceId,
		Metadata:       metadata,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *EmbeddingMapper) ToModel(e *entity.EmbeddingChunk) *model.EmbeddingChunk {
	if e == nil {
		return nil
	}

	var metadata datatypes.JSON
	if e.Metadata != nil {
		raw, err := json.Marshal(e.Metadata)
		if err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	return &model.EmbeddingChunk{
		Id:             e.Id,
		GameId:         e.GameId,
		ChunkText:      e.ChunkText,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		ChunkIndex:     e.ChunkIndex,
		SourceType:     e.SourceType,
		SourceId:       e.SourceId,
		Metadata:       metadata,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *EmbeddingMapper) ToEntities(chunks []*model.EmbeddingChunk) []*entity.EmbeddingChunk {
	entities := make([]*entity.EmbeddingChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *EmbeddingMapper) ToModels(chunks []*entity.EmbeddingChunk) []*model.EmbeddingChunk {
	models := make([]*model.EmbeddingChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
