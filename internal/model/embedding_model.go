package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type EmbeddingChunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GameId         uuid.UUID       `gorm:"type:uuid;not null;index:idx_embeddings_game_source,priority:1"`
	ChunkText      string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text / text-embedding-004 use 768 dimensions
	ChunkIndex     int             `gorm:"not null;default:0;index:idx_embeddings_game_source,priority:3"`
	SourceType     string          `gorm:"type:varchar(20);not null;index:idx_embeddings_game_source,priority:2"`
	SourceId       *uuid.UUID      `gorm:"type:uuid;index"`
	Metadata       datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`

	Game *Game `gorm:"foreignKey:GameId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (EmbeddingChunk) TableName() string {
	return "embeddings"
}
