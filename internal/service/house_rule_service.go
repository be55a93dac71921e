package service

import (
	"context"
	"encoding/json"
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

type IHouseRuleService interface {
	List(ctx context.Context, query *dto.ListHouseRulesQuery) (*dto.PaginatedResponse[dto.HouseRuleResponse], error)
	Create(ctx context.Context, req *dto.CreateHouseRuleRequest) (*dto.HouseRuleResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.HouseRuleResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateHouseRuleRequest) (*dto.HouseRuleResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type houseRuleService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	log              logger.ILogger
}

func NewHouseRuleService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IHouseRuleService {
	return &houseRuleService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

func (s *houseRuleService) List(ctx context.Context, query *dto.ListHouseRulesQuery) (*dto.PaginatedResponse[dto.HouseRuleResponse], error) {
	query.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	filterSpecs := []specification.Specification{
		specification.ByGameID{GameID: query.GameId},
	}
	if query.ActiveOnly {
		filterSpecs = append(filterSpecs, specification.ActiveOnly{})
	}

	total, err := uow.HouseRuleRepository().Count(ctx, filterSpecs...)
	if err != nil {
		return nil, apperror.Persistence("failed to count house rules", err)
	}

	listSpecs := append(filterSpecs,
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: query.Limit, Offset: query.Offset()},
	)
	rules, err := uow.HouseRuleRepository().FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, apperror.Persistence("failed to list house rules", err)
	}

	items := make([]dto.HouseRuleResponse, len(rules))
	for i, r := range rules {
		items[i] = *toHouseRuleResponse(r)
	}

	return dto.NewPaginatedResponse(items, query.Page, query.Limit, total), nil
}

func (s *houseRuleService) Create(ctx context.Context, req *dto.CreateHouseRuleRequest) (*dto.HouseRuleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	game, err := uow.GameRepository().FindOne(ctx, specification.ByID{ID: req.GameId})
	if err != nil {
		return nil, apperror.Persistence("failed to load game", err)
	}
	if game == nil {
		return nil, apperror.NotFound("game not found")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	rule := entity.HouseRule{
		Id:          uuid.New(),
		GameId:      req.GameId,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		IsActive:    isActive,
		CreatedAt:   time.Now(),
	}

	if err := uow.HouseRuleRepository().Create(ctx, &rule); err != nil {
		return nil, apperror.Persistence("failed to create house rule", err)
	}

	if rule.IsActive {
		s.publishEmbed(ctx, rule.Id)
	}
	s.publishEvent(ctx, rule.GameId, rule.Id, "created")

	return toHouseRuleResponse(&rule), nil
}

func (s *houseRuleService) Show(ctx context.Context, id uuid.UUID) (*dto.HouseRuleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rule, err := uow.HouseRuleRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Persistence("failed to load house rule", err)
	}
	if rule == nil {
		return nil, apperror.NotFound("house rule not found")
	}
	return toHouseRuleResponse(rule), nil
}

func (s *houseRuleService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateHouseRuleRequest) (*dto.HouseRuleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rule, err := uow.HouseRuleRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Persistence("failed to load house rule", err)
	}
	if rule == nil {
		return nil, apperror.NotFound("house rule not found")
	}

	textChanged := false
	if req.Title != nil && *req.Title != rule.Title {
		rule.Title = *req.Title
		textChanged = true
	}
	if req.Description != nil && *req.Description != rule.Description {
		rule.Description = *req.Description
		textChanged = true
	}
	if req.Category != nil {
		rule.Category = req.Category
	}

	activeChanged := false
	if req.IsActive != nil && *req.IsActive != rule.IsActive {
		rule.IsActive = *req.IsActive
		activeChanged = true
	}

	if err := uow.HouseRuleRepository().Update(ctx, rule); err != nil {
		return nil, apperror.Persistence("failed to update house rule", err)
	}

	switch {
	case rule.IsActive && (textChanged || activeChanged):
		// Re-embed: the consumer replaces this rule's chunks.
		s.publishEmbed(ctx, rule.Id)
	case !rule.IsActive && activeChanged:
		// Deactivated rules vanish from search immediately.
		if err := uow.EmbeddingRepository().DeleteBySource(ctx, rule.GameId, entity.SourceTypeHouseRule, &rule.Id); err != nil {
			s.log.Warn("houserule.service", "failed to delete chunks for deactivated rule", map[string]interface{}{
				"houseRuleId": rule.Id.String(),
				"error":       err.Error(),
			})
		}
	}
	s.publishEvent(ctx, rule.GameId, rule.Id, "updated")

	return toHouseRuleResponse(rule), nil
}

func (s *houseRuleService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rule, err := uow.HouseRuleRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return apperror.Persistence("failed to load house rule", err)
	}
	if rule == nil {
		return apperror.NotFound("house rule not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return apperror.Persistence("failed to start transaction", err)
	}
	if err := uow.EmbeddingRepository().DeleteBySource(ctx, rule.GameId, entity.SourceTypeHouseRule, &rule.Id); err != nil {
		_ = uow.Rollback()
		return apperror.Persistence("failed to delete rule chunks", err)
	}
	if err := uow.HouseRuleRepository().Delete(ctx, id); err != nil {
		_ = uow.Rollback()
		return apperror.Persistence("failed to delete house rule", err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.Persistence("failed to commit", err)
	}

	s.publishEvent(ctx, rule.GameId, rule.Id, "deleted")
	return nil
}

func (s *houseRuleService) publishEmbed(ctx context.Context, houseRuleId uuid.UUID) {
	payload, err := json.Marshal(dto.PublishEmbedHouseRuleMessage{HouseRuleId: houseRuleId})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("houserule.service", "failed to publish embed message", map[string]interface{}{
			"houseRuleId": houseRuleId.String(),
			"error":       err.Error(),
		})
	}
}

func (s *houseRuleService) publishEvent(ctx context.Context, gameId, ruleId uuid.UUID, action string) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: events.TypeHouseRuleChanged,
		Data: map[string]interface{}{
			"game_id":       gameId,
			"house_rule_id": ruleId,
			"action":        action,
		},
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("houserule.service", "failed to publish event", map[string]interface{}{
			"type":  events.TypeHouseRuleChanged,
			"error": err.Error(),
		})
	}
}

func toHouseRuleResponse(r *entity.HouseRule) *dto.HouseRuleResponse {
	return &dto.HouseRuleResponse{
		Id:          r.Id,
		GameId:      r.GameId,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
