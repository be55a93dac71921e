package contract

import (
	"context"

	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/internal/repository/specification"

	"github.com/google/uuid"
)

type HouseRuleRepository interface {
	Create(ctx context.Context, rule *entity.HouseRule) error
	Update(ctx context.Context, rule *entity.HouseRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.HouseRule, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HouseRule, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// CountByGameIDs returns active house rule counts keyed by game id,
	// used to build listing summaries without N+1 queries.
	CountByGameIDs(ctx context.Context, gameIds []uuid.UUID) (map[uuid.UUID]int64, error)
}
