package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateHouseRuleRequest struct {
	GameId      uuid.UUID `json:"gameId" validate:"required"`
	Title       string    `json:"title" validate:"required,min=1,max=255"`
	Description string    `json:"description" validate:"required,min=1"`
	Category    *string   `json:"category,omitempty" validate:"omitempty,max=100"`
	IsActive    *bool     `json:"isActive,omitempty"`
}

type UpdateHouseRuleRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type HouseRuleResponse struct {
	Id          uuid.UUID  `json:"id"`
	GameId      uuid.UUID  `json:"gameId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    *string    `json:"category,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// PublishEmbedHouseRuleMessage is the payload carried on the async
// embedding topic.
type PublishEmbedHouseRuleMessage struct {
	HouseRuleId uuid.UUID `json:"houseRuleId"`
}

type ListHouseRulesQuery struct {
	PaginationQuery
	GameId     uuid.UUID `query:"gameId" validate:"required"`
	ActiveOnly bool      `query:"activeOnly"`
}
