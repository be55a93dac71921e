package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateGameRequest struct {
	Name             string   `json:"name" validate:"required,min=1,max=255"`
	Description      *string  `json:"description,omitempty"`
	Publisher        *string  `json:"publisher,omitempty" validate:"omitempty,max=255"`
	YearPublished    *int     `json:"yearPublished,omitempty" validate:"omitempty,min=1800,max=2100"`
	MinPlayers       *int     `json:"minPlayers,omitempty" validate:"omitempty,min=1"`
	MaxPlayers       *int     `json:"maxPlayers,omitempty" validate:"omitempty,min=1"`
	PlayTimeMinutes  *int     `json:"playTimeMinutes,omitempty" validate:"omitempty,min=1"`
	ComplexityRating *float64 `json:"complexityRating,omitempty" validate:"omitempty,min=1,max=5"`
	BggId            *int     `json:"bggId,omitempty" validate:"omitempty,min=1"`
}

type UpdateGameRequest struct {
	Name             *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description      *string  `json:"description,omitempty"`
	Publisher        *string  `json:"publisher,omitempty" validate:"omitempty,max=255"`
	YearPublished    *int     `json:"yearPublished,omitempty" validate:"omitempty,min=1800,max=2100"`
	MinPlayers       *int     `json:"minPlayers,omitempty" validate:"omitempty,min=1"`
	MaxPlayers       *int     `json:"maxPlayers,omitempty" validate:"omitempty,min=1"`
	PlayTimeMinutes  *int     `json:"playTimeMinutes,omitempty" validate:"omitempty,min=1"`
	ComplexityRating *float64 `json:"complexityRating,omitempty" validate:"omitempty,min=1,max=5"`
	BggId            *int     `json:"bggId,omitempty" validate:"omitempty,min=1"`
}

type GameResponse struct {
	Id               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Description      *string    `json:"description,omitempty"`
	Publisher        *string    `json:"publisher,omitempty"`
	YearPublished    *int       `json:"yearPublished,omitempty"`
	MinPlayers       *int       `json:"minPlayers,omitempty"`
	MaxPlayers       *int       `json:"maxPlayers,omitempty"`
	PlayTimeMinutes  *int       `json:"playTimeMinutes,omitempty"`
	ComplexityRating *float64   `json:"complexityRating,omitempty"`
	BggId            *int       `json:"bggId,omitempty"`
	RulesProcessedAt *time.Time `json:"rulesProcessedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

// GameSummaryResponse is the listing shape, carrying derived counts.
type GameSummaryResponse struct {
	Id              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Publisher       *string   `json:"publisher,omitempty"`
	MinPlayers      *int      `json:"minPlayers,omitempty"`
	MaxPlayers      *int      `json:"maxPlayers,omitempty"`
	HasRulesPdf     bool      `json:"hasRulesPdf"`
	HouseRulesCount int64     `json:"houseRulesCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

type ListGamesQuery struct {
	PaginationQuery
	Search string `query:"search"`
}
