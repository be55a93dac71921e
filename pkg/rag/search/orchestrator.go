package search

import (
	"context"

	"boardgame-rules-be/internal/pkg/apperror"
	"boardgame-rules-be/internal/pkg/logger"
	"boardgame-rules-be/internal/repository/contract"
	"boardgame-rules-be/internal/repository/unitofwork"
	"boardgame-rules-be/pkg/embedding"

	"github.com/google/uuid"
)

const (
	DefaultTopK = 5
	MaxTopK     = 20
)

// Orchestrator embeds the query and runs the vector search for a game.
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	threshold         float64
	log               logger.ILogger
}

func NewOrchestrator(embeddingProvider embedding.EmbeddingProvider, threshold float64, log logger.ILogger) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		threshold:         threshold,
		log:               log,
	}
}

// ClampLimit normalizes a requested result count into [1, MaxTopK].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultTopK
	}
	if limit > MaxTopK {
		return MaxTopK
	}
	return limit
}

// Execute runs the similarity search. An empty corpus yields an empty
// slice, not an error.
func (o *Orchestrator) Execute(ctx context.Context, uow unitofwork.UnitOfWork, gameId uuid.UUID, query string, limit int) ([]*contract.ScoredChunk, error) {
	limit = ClampLimit(limit)

	embeddingRes, err := o.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, apperror.Upstream("embedding service unavailable", err)
	}

	scored, err := uow.EmbeddingRepository().SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		limit,
		gameId,
		o.threshold,
	)
	if err != nil {
		o.log.Error("rag.search", "vector search failed", map[string]interface{}{
			"gameId": gameId.String(),
			"error":  err.Error(),
		})
		return nil, apperror.Persistence("similarity search failed", err)
	}

	o.log.Debug("rag.search", "similarity search completed", map[string]interface{}{
		"gameId":  gameId.String(),
		"results": len(scored),
		"limit":   limit,
	})

	return scored, nil
}
