package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/internal/repository/contract"
	"boardgame-rules-be/internal/repository/specification"
	"boardgame-rules-be/internal/repository/unitofwork"
	"boardgame-rules-be/pkg/embedding"
	"boardgame-rules-be/pkg/llm"

	"github.com/google/uuid"
)

// In-memory repository fakes. They interpret the specification structs the
// services actually use instead of translating them to SQL.

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeEmbeddingProvider struct {
	err   error
	calls int
}

func (p *fakeEmbeddingProvider) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}},
	}, nil
}

type fakeLLM struct {
	answer string
	err    error
	prompt string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakePublisher struct {
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func byIDSpec(id uuid.UUID) specification.Specification {
	return specification.ByID{ID: id}
}

func specByID(specs []specification.Specification) (uuid.UUID, bool) {
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			return byID.ID, true
		}
	}
	return uuid.Nil, false
}

func specGameID(specs []specification.Specification) (uuid.UUID, bool) {
	for _, s := range specs {
		if byGame, ok := s.(specification.ByGameID); ok {
			return byGame.GameID, true
		}
	}
	return uuid.Nil, false
}

func specSessionID(specs []specification.Specification) (uuid.UUID, bool) {
	for _, s := range specs {
		if bySession, ok := s.(specification.ByChatSessionID); ok {
			return bySession.ChatSessionID, true
		}
	}
	return uuid.Nil, false
}

type fakeGameRepo struct {
	games map[uuid.UUID]*entity.Game
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[uuid.UUID]*entity.Game)}
}

func (r *fakeGameRepo) Create(ctx context.Context, game *entity.Game) error {
	cp := *game
	r.games[game.Id] = &cp
	return nil
}

func (r *fakeGameRepo) Update(ctx context.Context, game *entity.Game) error {
	cp := *game
	r.games[game.Id] = &cp
	return nil
}

func (r *fakeGameRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.games, id)
	return nil
}

func (r *fakeGameRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Game, error) {
	if id, ok := specByID(specs); ok {
		if g, found := r.games[id]; found {
			cp := *g
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeGameRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Game, error) {
	out := make([]*entity.Game, 0, len(r.games))
	for _, g := range r.games {
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeGameRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.games)), nil
}

type fakeHouseRuleRepo struct {
	rules map[uuid.UUID]*entity.HouseRule
}

func newFakeHouseRuleRepo() *fakeHouseRuleRepo {
	return &fakeHouseRuleRepo{rules: make(map[uuid.UUID]*entity.HouseRule)}
}

func (r *fakeHouseRuleRepo) Create(ctx context.Context, rule *entity.HouseRule) error {
	cp := *rule
	r.rules[rule.Id] = &cp
	return nil
}

func (r *fakeHouseRuleRepo) Update(ctx context.Context, rule *entity.HouseRule) error {
	cp := *rule
	r.rules[rule.Id] = &cp
	return nil
}

func (r *fakeHouseRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.rules, id)
	return nil
}

func (r *fakeHouseRuleRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.HouseRule, error) {
	if id, ok := specByID(specs); ok {
		if rule, found := r.rules[id]; found {
			cp := *rule
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeHouseRuleRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HouseRule, error) {
	gameId, filterGame := specGameID(specs)
	activeOnly := false
	for _, s := range specs {
		if _, ok := s.(specification.ActiveOnly); ok {
			activeOnly = true
		}
	}

	var out []*entity.HouseRule
	for _, rule := range r.rules {
		if filterGame && rule.GameId != gameId {
			continue
		}
		if activeOnly && !rule.IsActive {
			continue
		}
		cp := *rule
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeHouseRuleRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	rules, _ := r.FindAll(ctx, specs...)
	return int64(len(rules)), nil
}

func (r *fakeHouseRuleRepo) CountByGameIDs(ctx context.Context, gameIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64)
	for _, rule := range r.rules {
		if !rule.IsActive {
			continue
		}
		counts[rule.GameId]++
	}
	return counts, nil
}

// fakeEmbeddingRepo is mutex-guarded because the consumer tests write to it
// from the subscriber goroutine.
type fakeEmbeddingRepo struct {
	mu      sync.Mutex
	chunks  map[uuid.UUID]*entity.EmbeddingChunk
	results []*contract.ScoredChunk
	err     error
	bulkErr error
}

func newFakeEmbeddingRepo() *fakeEmbeddingRepo {
	return &fakeEmbeddingRepo{chunks: make(map[uuid.UUID]*entity.EmbeddingChunk)}
}

func (r *fakeEmbeddingRepo) Create(ctx context.Context, chunk *entity.EmbeddingChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *chunk
	r.chunks[chunk.Id] = &cp
	return nil
}

func (r *fakeEmbeddingRepo) CreateBulk(ctx context.Context, chunks []*entity.EmbeddingChunk) error {
	if r.bulkErr != nil {
		return r.bulkErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range chunks {
		cp := *c
		r.chunks[c.Id] = &cp
	}
	return nil
}

func (r *fakeEmbeddingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chunks, id)
	return nil
}

func (r *fakeEmbeddingRepo) DeleteByGameId(ctx context.Context, gameId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.chunks {
		if c.GameId == gameId {
			delete(r.chunks, id)
		}
	}
	return nil
}

func (r *fakeEmbeddingRepo) DeleteBySource(ctx context.Context, gameId uuid.UUID, sourceType string, sourceId *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.chunks {
		if c.GameId != gameId || c.SourceType != sourceType {
			continue
		}
		if sourceId != nil && (c.SourceId == nil || *c.SourceId != *sourceId) {
			continue
		}
		delete(r.chunks, id)
	}
	return nil
}

func (r *fakeEmbeddingRepo) chunkCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chunks)
}

func (r *fakeEmbeddingRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EmbeddingChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := specByID(specs); ok {
		if c, found := r.chunks[id]; found {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeEmbeddingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmbeddingChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gameId, filterGame := specGameID(specs)
	var out []*entity.EmbeddingChunk
	for _, c := range r.chunks {
		if filterGame && c.GameId != gameId {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeEmbeddingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	chunks, _ := r.FindAll(ctx, specs...)
	var n int64
	sourceType := ""
	for _, s := range specs {
		if bySource, ok := s.(specification.BySourceType); ok {
			sourceType = bySource.SourceType
		}
	}
	for _, c := range chunks {
		if sourceType != "" && c.SourceType != sourceType {
			continue
		}
		n++
	}
	return n, nil
}

func (r *fakeEmbeddingRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, gameId uuid.UUID, threshold float64) ([]*contract.ScoredChunk, error) {
	if r.err != nil {
		return nil, r.err
	}
	if limit < len(r.results) {
		return r.results[:limit], nil
	}
	return r.results, nil
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.ChatSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.ChatSession)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	cp := *session
	r.sessions[session.Id] = &cp
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	cp := *session
	r.sessions[session.Id] = &cp
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	if id, ok := specByID(specs); ok {
		if s, found := r.sessions[id]; found {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	gameId, filterGame := specGameID(specs)
	var out []*entity.ChatSession
	for _, s := range r.sessions {
		if filterGame && s.GameId != gameId {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	sessions, _ := r.FindAll(ctx, specs...)
	return int64(len(sessions)), nil
}

type fakeMessageRepo struct {
	messages  []*entity.ChatMessage
	createErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := *message
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	if id, ok := specByID(specs); ok {
		for _, m := range r.messages {
			if m.Id == id {
				cp := *m
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	sessionId, filterSession := specSessionID(specs)
	desc := false
	for _, s := range specs {
		if order, ok := s.(specification.OrderBy); ok {
			desc = order.Desc
		}
	}

	var out []*entity.ChatMessage
	for _, m := range r.messages {
		if filterSession && m.ChatSessionId != sessionId {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			if desc {
				return out[i].Id.String() > out[j].Id.String()
			}
			return out[i].Id.String() < out[j].Id.String()
		}
		if desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	messages, _ := r.FindAll(ctx, specs...)
	return int64(len(messages)), nil
}

func (r *fakeMessageRepo) StatsBySessionIDs(ctx context.Context, sessionIds []uuid.UUID) (map[uuid.UUID]contract.MessageStats, error) {
	stats := make(map[uuid.UUID]contract.MessageStats)
	for _, m := range r.messages {
		st := stats[m.ChatSessionId]
		st.Count++
		t := m.CreatedAt
		if st.LastMessageAt == nil || t.After(*st.LastMessageAt) {
			st.LastMessageAt = &t
		}
		stats[m.ChatSessionId] = st
	}
	return stats, nil
}

type fakeUow struct {
	gameRepo      *fakeGameRepo
	houseRuleRepo *fakeHouseRuleRepo
	embeddingRepo *fakeEmbeddingRepo
	sessionRepo   *fakeSessionRepo
	messageRepo   *fakeMessageRepo
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		gameRepo:      newFakeGameRepo(),
		houseRuleRepo: newFakeHouseRuleRepo(),
		embeddingRepo: newFakeEmbeddingRepo(),
		sessionRepo:   newFakeSessionRepo(),
		messageRepo:   newFakeMessageRepo(),
	}
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) GameRepository() contract.GameRepository               { return u.gameRepo }
func (u *fakeUow) HouseRuleRepository() contract.HouseRuleRepository     { return u.houseRuleRepo }
func (u *fakeUow) EmbeddingRepository() contract.EmbeddingRepository     { return u.embeddingRepo }
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository { return u.sessionRepo }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository { return u.messageRepo }

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func seedGame(uow *fakeUow, name string) *entity.Game {
	game := &entity.Game{
		Id:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	_ = uow.gameRepo.Create(context.Background(), game)
	return game
}

func embedChunkForRule(gameId, ruleId uuid.UUID) *entity.EmbeddingChunk {
	id := ruleId
	return &entity.EmbeddingChunk{
		Id:             uuid.New(),
		GameId:         gameId,
		ChunkText:      "chunk",
		EmbeddingValue: []float32{1, 0, 0},
		SourceType:     entity.SourceTypeHouseRule,
		SourceId:       &id,
		CreatedAt:      time.Now(),
	}
}

var errUpstreamDown = errors.New("upstream down")
