package model

import (
	"time"

	"github.com/google/uuid"
)

type HouseRule struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GameId      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text;not null"`
	Category    *string   `gorm:"type:varchar(100)"`
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	Game *Game `gorm:"foreignKey:GameId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (HouseRule) TableName() string {
	return "house_rules"
}
