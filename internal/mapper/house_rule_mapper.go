package mapper

import (
	"time"

	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/internal/model"
)

type HouseRuleMapper struct{}

func NewHouseRuleMapper() *HouseRuleMapper {
	return &HouseRuleMapper{}
}

func (m *HouseRuleMapper) ToEntity(r *model.HouseRule) *entity.HouseRule {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.HouseRule{
		Id:          r.Id,
		GameId:      r.GameId,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *HouseRuleMapper) ToModel(r *entity.HouseRule) *model.HouseRule {
	if r == nil {
		return nil
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.HouseRule{
		Id:          r.Id,
		GameId:      r.GameId,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *HouseRuleMapper) ToEntities(rules []*model.HouseRule) []*entity.HouseRule {
	entities := make([]*entity.HouseRule, len(rules))
	for i, r := range rules {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
