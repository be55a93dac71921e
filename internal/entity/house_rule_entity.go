package entity

import (
	"time"

	"github.com/google/uuid"
)

type HouseRule struct {
	Id          uuid.UUID
	GameId      uuid.UUID
	Title       string
	Description string
	Category    *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
