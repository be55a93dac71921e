package contract

import (
	"context"

	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredChunk wraps an EmbeddingChunk with its similarity score
type ScoredChunk struct {
	Chunk      *entity.EmbeddingChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type EmbeddingRepository interface {
	Create(ctx context.Context, chunk *entity.EmbeddingChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.EmbeddingChunk) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByGameId(ctx context.Context, gameId uuid.UUID) error
	DeleteBySource(ctx context.Context, gameId uuid.UUID, sourceType string, sourceId *uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EmbeddingChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmbeddingChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns chunks for a game ranked by cosine
	// similarity to the query vector, filtered by threshold. Ties on
	// similarity are broken by ascending chunk index.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, gameId uuid.UUID, threshold float64) ([]*ScoredChunk, error)
}
