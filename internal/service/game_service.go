package service

import (
	"context"
	"os"
	"time"

	"boardgame-rules-be/internal/dto"
	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/internal/pkg/apperror"
	"boardgame-rules-be/internal/pkg/logger"
	"boardgame-rules-be/internal/repository/specification"
	"boardgame-rules-be/internal/repository/unitofwork"
	"boardgame-rules-be/pkg/events"
	pktNats "boardgame-rules-be/pkg/nats"

	"github.com/google/uuid"
)

type IGameService interface {
	List(ctx context.Context, query *dto.ListGamesQuery) (*dto.PaginatedResponse[dto.GameSummaryResponse], error)
	Create(ctx context.Context, req *dto.CreateGameRequest) (*dto.GameResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.GameResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateGameRequest) (*dto.GameResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RulesInfo(ctx context.Context, gameId uuid.UUID) (*dto.RulesInfoResponse, error)
	DeleteRules(ctx context.Context, gameId uuid.UUID) (*dto.RulesDeleteResponse, error)
}

type gameService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewGameService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IGameService {
	return &gameService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *gameService) List(ctx context.Context, query *dto.ListGamesQuery) (*dto.PaginatedResponse[dto.GameSummaryResponse], error) {
	query.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var filterSpecs []specification.Specification
	if query.Search != "" {
		filterSpecs = append(filterSpecs, specification.ByNameSearch{Term: query.Search})
	}

	total, err := uow.GameRepository().Count(ctx, filterSpecs...)
	if err != nil {
		return nil, apperror.Persistence("failed to count games", err)
	}

	listSpecs := append(filterSpecs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: query.Limit, Offset: query.Offset()},
	)
	games, err := uow.GameRepository().FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, apperror.Persistence("failed to list games", err)
	}

	gameIds := make([]uuid.UUID, len(games))
	for i, g := range games {
		gameIds[i] = g.Id
	}
	ruleCounts, err := uow.HouseRuleRepository().CountByGameIDs(ctx, gameIds)
	if err != nil {
		return nil, apperror.Persistence("failed to count house rules", err)
	}

	items := make([]dto.GameSummaryResponse, len(games))
	for i, g := range games {
		items[i] = dto.GameSummaryResponse{
			Id:              g.Id,
			Name:            g.Name,
			Publisher:       g.Publisher,
			MinPlayers:      g.MinPlayers,
			MaxPlayers:      g.MaxPlayers,
			HasRulesPdf:     g.HasRulesPdf(),
			HouseRulesCount: ruleCounts[g.Id],
			CreatedAt:       g.CreatedAt,
		}
	}

	return dto.NewPaginatedResponse(items, query.Page, query.Limit, total), nil
}

func (s *gameService) Create(ctx context.Context, req *dto.CreateGameRequest) (*dto.GameResponse, error) {
	if req.MinPlayers != nil && req.MaxPlayers != nil && *req.MaxPlayers < *req.MinPlayers {
		return nil, apperror.Validation("maxPlayers must be >= minPlayers")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	game := entity.Game{
		Id:               uuid.New(),
		Name:             req.Name,
		Description:      req.Description,
		Publisher:        req.Publisher,
		YearPublished:    req.YearPublished,
		MinPlayers:       req.MinPlayers,
		MaxPlayers:       req.MaxPlayers,
		PlayTimeMinutes:  req.PlayTimeMinutes,
		ComplexityRating: req.ComplexityRating,
		BggId:            req.BggId,
		CreatedAt:        time.Now(),
	}

	if err := uow.GameRepository().Create(ctx, &game); err != nil {
		return nil, apperror.Persistence("failed to create game", err)
	}

	s.publishEvent(ctx, events.TypeGameCreated, map[string]interface{}{
		"game_id": game.Id,
		"name":    game.Name,
	})

	return toGameResponse(&game), nil
}

func (s *gameService) Show(ctx context.Context, id uuid.UUID) (*dto.GameResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	game, err := uow.GameRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Persistence("failed to load game", err)
	}
	if game == nil {
		return nil, apperror.NotFound("game not found")
	}
	return toGameResponse(game), nil
}

func (s *gameService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateGameRequest) (*dto.GameResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	game, err := uow.GameRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Persistence("failed to load game", err)
	}
	if game == nil {
		return nil, apperror.NotFound("game not found")
	}

	if req.Name != nil {
		game.Name = *req.Name
	}
	if req.Description != nil {
		game.Description = req.Description
	}
	if req.Publisher != nil {
		game.Publisher = req.Publisher
	}
	if req.YearPublished != nil {
		game.YearPublished = req.YearPublished
	}
	if req.MinPlayers != nil {
		game.MinPlayers = req.MinPlayers
	}
	if req.MaxPlayers != nil {
		game.MaxPlayers = req.MaxPlayers
	}
	if req.PlayTimeMinutes != nil {
		game.PlayTimeMinutes = req.PlayTimeMinutes
	}
	if req.ComplexityRating != nil {
		game.ComplexityRating = req.ComplexityRating
	}
	if req.BggId != nil {
		game.BggId = req.BggId
	}

	if game.MinPlayers != nil && game.MaxPlayers != nil && *game.MaxPlayers < *game.MinPlayers {
		return nil, apperror.Validation("maxPlayers must be >= minPlayers")
	}

	if err := uow.GameRepository().Update(ctx, game); err != nil {
		return nil, apperror.Persistence("failed to update game", err)
	}

	return toGameResponse(game), nil
}

// Delete removes the game. Embeddings, house rules, chat sessions and
// their messages go with it through FK cascades.
func (s *gameService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	game, err := uow.GameRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return apperror.Persistence("failed to load game", err)
	}
	if game == nil {
		return apperror.NotFound("game not found")
	}

	if err := uow.GameRepository().Delete(ctx, id); err != nil {
		return apperror.Persistence("failed to delete game", err)
	}

	if game.RulesPdfPath != nil {
		if err := os.Remove(*game.RulesPdfPath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("game.service", "failed to remove rules pdf file", map[string]interface{}{
				"gameId": id.String(),
				"path":   *game.RulesPdfPath,
				"error":  err.Error(),
			})
		}
	}

	s.publishEvent(ctx, events.TypeGameDeleted, map[string]interface{}{
		"game_id": id,
		"name":    game.Name,
	})

	return nil
}

func (s *gameService) RulesInfo(ctx context.Context, gameId uuid.UUID) (*dto.RulesInfoResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	game, err := uow.GameRepository().FindOne(ctx, specification.ByID{ID: gameId})
	if err != nil {
		return nil, apperror.Persistence("failed to load game", err)
	}
	if game == nil {
		return nil, apperror.NotFound("game not found")
	}

	chunkCount, err := uow.EmbeddingRepository().Count(ctx,
		specification.ByGameID{GameID: gameId},
		specification.BySourceType{SourceType: entity.SourceTypeRulesPdf},
	)
	if err != nil {
		return nil, apperror.Persistence("failed to count chunks", err)
	}

	textLength := 0
	if game.RulesText != nil {
		textLength = len(*game.RulesText)
	}

	return &dto.RulesInfoResponse{
		HasRulesPdf: game.HasRulesPdf(),
		ChunkCount:  chunkCount,
		TextLength:  textLength,
		ProcessedAt: game.RulesProcessedAt,
	}, nil
}

func (s *gameService) DeleteRules(ctx context.Context, gameId uuid.UUID) (*dto.RulesDeleteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	game, err := uow.GameRepository().FindOne(ctx, specification.ByID{ID: gameId})
	if err != nil {
		return nil, apperror.Persistence("failed to load game", err)
	}
	if game == nil {
		return nil, apperror.NotFound("game not found")
	}

	deleted, err := uow.EmbeddingRepository().Count(ctx,
		specification.ByGameID{GameID: gameId},
		specification.BySourceType{SourceType: entity.SourceTypeRulesPdf},
	)
	if err != nil {
		return nil, apperror.Persistence("failed to count chunks", err)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence("failed to start transaction", err)
	}

	if err := uow.EmbeddingRepository().DeleteBySource(ctx, gameId, entity.SourceTypeRulesPdf, nil); err != nil {
		_ = uow.Rollback()
		return nil, apperror.Persistence("failed to delete chunks", err)
	}

	pdfPath := game.RulesPdfPath
	game.RulesPdfPath = nil
	game.RulesText = nil
	game.RulesProcessedAt = nil
	if err := uow.GameRepository().Update(ctx, game); err != nil {
		_ = uow.Rollback()
		return nil, apperror.Persistence("failed to update game", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence("failed to commit", err)
	}

	fileDeleted := false
	if pdfPath != nil {
		if err := os.Remove(*pdfPath); err == nil {
			fileDeleted = true
		} else if !os.IsNotExist(err) {
			s.log.Warn("game.service", "failed to remove rules pdf file", map[string]interface{}{
				"gameId": gameId.String(),
				"path":   *pdfPath,
				"error":  err.Error(),
			})
		}
	}

	s.publishEvent(ctx, events.TypeRulesDeleted, map[string]interface{}{
		"game_id":            gameId,
		"embeddings_deleted": deleted,
	})

	return &dto.RulesDeleteResponse{
		EmbeddingsDeleted: deleted,
		FileDeleted:       fileDeleted,
	}, nil
}

// publishEvent is best-effort: API requests never fail because the bus is down.
func (s *gameService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("game.service", "failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func toGameResponse(g *entity.Game) *dto.GameResponse {
	return &dto.GameResponse{
		Id:               g.Id,
		Name:             g.Name,
		Description:      g.Description,
		Publisher:        g.Publisher,
		YearPublished:    g.YearPublished,
		MinPlayers:       g.MinPlayers,
		MaxPlayers:       g.MaxPlayers,
		PlayTimeMinutes:  g.PlayTimeMinutes,
		ComplexityRating: g.ComplexityRating,
		BggId:            g.BggId,
		RulesProcessedAt: g.RulesProcessedAt,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}
