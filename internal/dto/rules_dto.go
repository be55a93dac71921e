package dto

import (
	"time"

	"github.com/google/uuid"
)

// RulesUploadResponse reports what ingestion produced.
type RulesUploadResponse struct {
	Message         string `json:"message"`
	FilePath        string `json:"filePath"`
	ChunksProcessed int    `json:"chunksProcessed"`
	TextLength      int    `json:"textLength"`
}

type RulesInfoResponse struct {
	HasRulesPdf bool       `json:"hasRulesPdf"`
	ChunkCount  int64      `json:"chunkCount"`
	TextLength  int        `json:"textLength"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}

type RulesDeleteResponse struct {
	EmbeddingsDeleted int64 `json:"embeddingsDeleted"`
	FileDeleted       bool  `json:"fileDeleted"`
}

type SearchRulesQuery struct {
	GameId uuid.UUID `query:"gameId" validate:"required"`
	Query  string    `query:"query" validate:"required,min=1"`
	Limit  int       `query:"limit"`
}

type SearchResultItem struct {
	Id         uuid.UUID              `json:"id"`
	ChunkText  string                 `json:"chunkText"`
	ChunkIndex int                    `json:"chunkIndex"`
	SourceType string                 `json:"sourceType"`
	SourceId   *uuid.UUID             `json:"sourceId,omitempty"`
	Score      float64                `json:"score"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

type SearchRulesResponse struct {
	Query        string             `json:"query"`
	Results      []SearchResultItem `json:"results"`
	TotalResults int                `json:"totalResults"`
}
