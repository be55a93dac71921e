package service

import (
	"context"
	"errors"
	"time"

	"boardgame-rules-be/internal/dto"
	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/internal/pkg/apperror"
	"boardgame-rules-be/internal/pkg/logger"
	"boardgame-rules-be/internal/repository/contract"
	"boardgame-rules-be/internal/repository/specification"
	"boardgame-rules-be/internal/repository/unitofwork"
	"boardgame-rules-be/pkg/llm"
	"boardgame-rules-be/pkg/rag/prompt"
	"boardgame-rules-be/pkg/rag/search"
	"boardgame-rules-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	historyWindow   = 10
	sessionTitleMax = 80
)

type IChatService interface {
	CreateSession(ctx context.Context, req *dto.CreateChatSessionRequest) (*dto.ChatSessionResponse, error)
	ListSessions(ctx context.Context, query *dto.ListChatSessionsQuery) (*dto.PaginatedResponse[dto.ChatSessionSummaryResponse], error)
	ShowSession(ctx context.Context, id uuid.UUID) (*dto.ChatSessionDetailResponse, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	PostMessage(ctx context.Context, req *dto.PostChatMessageRequest) (*dto.PostChatMessageResponse, error)
	SearchRules(ctx context.Context, query *dto.SearchRulesQuery) (*dto.SearchRulesResponse, error)
}

type chatService struct {
	uowFactory    unitofwork.RepositoryFactory
	llmProvider   llm.LLMProvider
	searcher      *search.Orchestrator
	contextChunks int
	sessionLocks  *utils.KeyedMutex
	log           logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	searcher *search.Orchestrator,
	contextChunks int,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:    uowFactory,
		llmProvider:   llmProvider,
		searcher:      searcher,
		contextChunks: contextChunks,
		sessionLocks:  utils.NewKeyedMutex(),
		log:           log,
	}
}

func (s *chatService) CreateSession(ctx context.Context, req *dto.CreateChatSessionRequest) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	game, err := uow.GameRepository().FindOne(ctx, specification.ByID{ID: req.GameId})
	if err != nil {
		return nil, apperror.Persistence("failed to load game", err)
	}
	if game == nil {
		return nil, apperror.NotFound("game not found")
	}

	session := entity.ChatSession{
		Id:        uuid.New(),
		GameId:    req.GameId,
		Title:     req.Title,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, apperror.Persistence("failed to create session", err)
	}

	return toSessionResponse(&session), nil
}

func (s *chatService) ListSessions(ctx context.Context, query *dto.ListChatSessionsQuery) (*dto.PaginatedResponse[dto.ChatSessionSummaryResponse], error) {
	query.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var filterSpecs []specification.Specification
	if query.GameId != nil {
		filterSpecs = append(filterSpecs, specification.ByGameID{GameID: *query.GameId})
	}

	total, err := uow.ChatSessionRepository().Count(ctx, filterSpecs...)
	if err != nil {
		return nil, apperror.Persistence("failed to count sessions", err)
	}

	listSpecs := append(filterSpecs,
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: query.Limit, Offset: query.Offset()},
	)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, apperror.Persistence("failed to list sessions", err)
	}

	sessionIds := make([]uuid.UUID, len(sessions))
	for i, sess := range sessions {
		sessionIds[i] = sess.Id
	}
	stats, err := uow.ChatMessageRepository().StatsBySessionIDs(ctx, sessionIds)
	if err != nil {
		return nil, apperror.Persistence("failed to load message stats", err)
	}

	items := make([]dto.ChatSessionSummaryResponse, len(sessions))
	for i, sess := range sessions {
		st := stats[sess.Id]
		items[i] = dto.ChatSessionSummaryResponse{
			Id:            sess.Id,
			GameId:        sess.GameId,
			Title:         sess.Title,
			MessageCount:  st.Count,
			LastMessageAt: st.LastMessageAt,
			CreatedAt:     sess.CreatedAt,
		}
	}

	return dto.NewPaginatedResponse(items, query.Page, query.Limit, total), nil
}

func (s *chatService) ShowSession(ctx context.Context, id uuid.UUID) (*dto.ChatSessionDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Persistence("failed to load session", err)
	}
	if session == nil {
		return nil, apperror.NotFound("chat session not found")
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: id},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.OrderBy{Field: "id", Desc: false},
	)
	if err != nil {
		return nil, apperror.Persistence("failed to load messages", err)
	}

	msgResponses := make([]dto.ChatMessageResponse, len(messages))
	for i, m := range messages {
		msgResponses[i] = *toMessageResponse(m)
	}

	return &dto.ChatSessionDetailResponse{
		Session:  *toSessionResponse(session),
		Messages: msgResponses,
	}, nil
}

func (s *chatService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return apperror.Persistence("failed to load session", err)
	}
	if session == nil {
		return apperror.NotFound("chat session not found")
	}

	// Messages cascade with the session.
	if err := uow.ChatSessionRepository().Delete(ctx, id); err != nil {
		return apperror.Persistence("failed to delete session", err)
	}
	return nil
}

// PostMessage runs one turn of the conversation: persist the user message,
// retrieve context, generate the answer, persist it. The user message is
// durable even when generation fails. One in-flight generation per session.
func (s *chatService) PostMessage(ctx context.Context, req *dto.PostChatMessageRequest) (*dto.PostChatMessageResponse, error) {
	s.sessionLocks.Lock(req.SessionId.String())
	defer s.sessionLocks.Unlock(req.SessionId.String())

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return nil, apperror.Persistence("failed to load session", err)
	}
	if session == nil {
		return nil, apperror.NotFound("chat session not found")
	}

	game, err := uow.GameRepository().FindOne(ctx, specification.ByID{ID: session.GameId})
	if err != nil {
		return nil, apperror.Persistence("failed to load game", err)
	}
	if game == nil {
		return nil, apperror.NotFound("game not found")
	}

	history, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.OrderBy{Field: "id", Desc: true},
		specification.Pagination{Limit: historyWindow, Offset: 0},
	)
	if err != nil {
		return nil, apperror.Persistence("failed to load history", err)
	}
	// Newest-first from the query; reverse into chronological order.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          entity.RoleUser,
		Content:       req.Message,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, apperror.Persistence("failed to store user message", err)
	}

	// First message becomes the session title.
	if session.Title == nil || *session.Title == "" {
		title := utils.Truncate(req.Message, sessionTitleMax)
		session.Title = &title
	}

	// Touch the session before generation: the appended user message must
	// move the session in updated_at ordering even when generation fails.
	touched := time.Now()
	session.UpdatedAt = &touched
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, apperror.Persistence("failed to update session", err)
	}

	scored, err := s.searcher.Execute(ctx, uow, session.GameId, req.Message, s.contextChunks)
	if err != nil {
		return nil, err
	}

	houseRules, err := uow.HouseRuleRepository().FindAll(ctx,
		specification.ByGameID{GameID: session.GameId},
		specification.ActiveOnly{},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, apperror.Persistence("failed to load house rules", err)
	}

	chunkTexts := make([]string, len(scored))
	contextIds := make([]uuid.UUID, len(scored))
	for i, sc := range scored {
		chunkTexts[i] = sc.Chunk.ChunkText
		contextIds[i] = sc.Chunk.Id
	}

	llmHistory := make([]llm.Message, len(history))
	for i, m := range history {
		llmHistory[i] = llm.Message{Role: m.Role, Content: m.Content}
	}

	builtPrompt := prompt.NewBuilder(game.Name, chunkTexts, houseRules, llmHistory, req.Message).Build()

	answer, err := s.llmProvider.Generate(ctx, builtPrompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.Timeout("generation timed out", err)
		}
		return nil, apperror.Upstream("generation failed", err)
	}

	assistantMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          entity.RoleAssistant,
		Content:       answer,
		ContextChunks: contextIds,
		CreatedAt:     time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence("failed to start transaction", err)
	}
	if err := uow.ChatMessageRepository().Create(ctx, &assistantMessage); err != nil {
		_ = uow.Rollback()
		return nil, apperror.Persistence("failed to store assistant message", err)
	}
	now := time.Now()
	session.UpdatedAt = &now
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		_ = uow.Rollback()
		return nil, apperror.Persistence("failed to update session", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence("failed to commit", err)
	}

	return &dto.PostChatMessageResponse{
		Message:        *toMessageResponse(&assistantMessage),
		ContextSources: toSearchResults(scored),
	}, nil
}

func (s *chatService) SearchRules(ctx context.Context, query *dto.SearchRulesQuery) (*dto.SearchRulesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	game, err := uow.GameRepository().FindOne(ctx, specification.ByID{ID: query.GameId})
	if err != nil {
		return nil, apperror.Persistence("failed to load game", err)
	}
	if game == nil {
		return nil, apperror.NotFound("game not found")
	}

	scored, err := s.searcher.Execute(ctx, uow, query.GameId, query.Query, query.Limit)
	if err != nil {
		return nil, err
	}

	return &dto.SearchRulesResponse{
		Query:        query.Query,
		Results:      toSearchResults(scored),
		TotalResults: len(scored),
	}, nil
}

func toSearchResults(scored []*contract.ScoredChunk) []dto.SearchResultItem {
	results := make([]dto.SearchResultItem, len(scored))
	for i, sc := range scored {
		results[i] = dto.SearchResultItem{
			Id:         sc.Chunk.Id,
			ChunkText:  sc.Chunk.ChunkText,
			ChunkIndex: sc.Chunk.ChunkIndex,
			SourceType: sc.Chunk.SourceType,
			SourceId:   sc.Chunk.SourceId,
			Score:      sc.Similarity,
			Metadata:   sc.Chunk.Metadata,
		}
	}
	return results
}

func toSessionResponse(s *entity.ChatSession) *dto.ChatSessionResponse {
	return &dto.ChatSessionResponse{
		Id:        s.Id,
		GameId:    s.GameId,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toMessageResponse(m *entity.ChatMessage) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		Id:            m.Id,
		ChatSessionId: m.ChatSessionId,
		Role:          m.Role,
		Content:       m.Content,
		ContextChunks: m.ContextChunks,
		CreatedAt:     m.CreatedAt,
	}
}
