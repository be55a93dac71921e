package entity

import (
	"time"

	"github.com/google/uuid"
)

// Embedding source types. PDF chunks carry no source id; house rule chunks
// point back at the rule they came from.
const (
	SourceTypeRulesPdf  = "rules_pdf"
	SourceTypeHouseRule = "house_rule"
)

// EmbeddingChunk is one embedded slice of source text, ordered by ChunkIndex
// within its (game, source) group.
type EmbeddingChunk struct {
	Id             uuid.UUID
	GameId         uuid.UUID
	ChunkText      string
	EmbeddingValue []float32
	ChunkIndex     int
	SourceType     string
	SourceId       *uuid.UUID
	Metadata       map[string]interface{}
	CreatedAt      time.Time
}
