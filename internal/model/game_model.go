package model

import (
	"time"

	"github.com/google/uuid"
)

type Game struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string    `gorm:"type:varchar(255);not null"`
	Description      *string   `gorm:"type:text"`
	Publisher        *string   `gorm:"type:varchar(255)"`
	YearPublished    *int
	MinPlayers       *int
	MaxPlayers       *int
	PlayTimeMinutes  *int
	ComplexityRating *float64
	BggId            *int    `gorm:"index"`
	RulesPdfPath     *string `gorm:"type:text"`
	RulesText        *string `gorm:"type:text"`
	RulesProcessedAt *time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Game) TableName() string {
	return "games"
}
