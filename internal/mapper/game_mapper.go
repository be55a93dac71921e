package mapper

import (
	"time"

	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/internal/model"
)

type GameMapper struct{}

func NewGameMapper() *GameMapper {
	return &GameMapper{}
}

func (m *GameMapper) ToEntity(g *model.Game) *entity.Game {
	if g == nil {
		return nil
	}

	var updatedAt *time.Time
	if !g.UpdatedAt.IsZero() {
		t := g.UpdatedAt
		updatedAt = &t
	}

	return &entity.Game{
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
		RulesPdfPath:     g.RulesPdfPath,
		RulesText:        g.RulesText,
		RulesProcessedAt: g.RulesProcessedAt,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *GameMapper) ToModel(g *entity.Game) *model.Game {
	if g == nil {
		return nil
	}

	var updatedAt time.Time
	if g.UpdatedAt != nil {
		updatedAt = *g.UpdatedAt
	}

	return &model.Game{
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
		RulesPdfPath:     g.RulesPdfPath,
		RulesText:        g.RulesText,
		RulesProcessedAt: g.RulesProcessedAt,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *GameMapper) ToEntities(games []*model.Game) []*entity.Game {
	entities := make([]*entity.Game, len(games))
	for i, g := range games {
		entities[i] = m.ToEntity(g)
	}
	return entities
}
