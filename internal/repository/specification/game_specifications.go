package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByGameID struct {
	GameID uuid.UUID
}

func (s ByGameID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("game_id = ?", s.GameID)
}

type ByGameIDs struct {
	GameIDs []uuid.UUID
}

func (s ByGameIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("game_id IN ?", s.GameIDs)
}

type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

// ByNameSearch matches games whose name contains the term, case-insensitive.
type ByNameSearch struct {
	Term string
}

func (s ByNameSearch) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name ILIKE ?", "%"+s.Term+"%")
}
