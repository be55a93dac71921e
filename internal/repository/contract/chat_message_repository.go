package contract

import (
	"context"
	"time"

	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/internal/repository/specification"

	"github.com/google/uuid"
)

// MessageStats carries per-session aggregates for session listings.
type MessageStats struct {
	Count         int64
	LastMessageAt *time.Time
}

// ChatMessageRepository is append-only: messages are never updated once
// written. Deletion happens via session cascade only.
type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	StatsBySessionIDs(ctx context.Context, sessionIds []uuid.UUID) (map[uuid.UUID]MessageStats, error)
}
