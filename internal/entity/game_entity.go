package entity

import (
	"time"

	"github.com/google/uuid"
)

type Game struct {
	Id               uuid.UUID
	Name             string
	Description      *string
	Publisher        *string
	YearPublished    *int
	MinPlayers       *int
	MaxPlayers       *int
	PlayTimeMinutes  *int
	ComplexityRating *float64
	BggId            *int
	RulesPdfPath     *string
	RulesText        *string
	RulesProcessedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// HasRulesPdf reports whether a rules document has been ingested for this game.
func (g *Game) HasRulesPdf() bool {
	return g.RulesPdfPath != nil && *g.RulesPdfPath != ""
}
