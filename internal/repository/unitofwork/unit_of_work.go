package unitofwork

import (
	"context"

	"boardgame-rules-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	GameRepository() contract.GameRepository
	HouseRuleRepository() contract.HouseRuleRepository
	EmbeddingRepository() contract.EmbeddingRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
