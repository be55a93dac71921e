package implementation

import (
	"context"
	"errors"

	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/internal/mapper"
	"boardgame-rules-be/internal/model"
	"boardgame-rules-be/internal/repository/contract"
	"boardgame-rules-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HouseRuleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HouseRuleMapper
}

func NewHouseRuleRepository(db *gorm.DB) contract.HouseRuleRepository {
	return &HouseRuleRepositoryImpl{
		db:     db,
		mapper: mapper.NewHouseRuleMapper(),
	}
}

func (r *HouseRuleRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *HouseRuleRepositoryImpl) Create(ctx context.Context, rule *entity.HouseRule) error {
	m := r.mapper.ToModel(rule)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*rule = *r.mapper.ToEntity(m)
	return nil
}

func (r *HouseRuleRepositoryImpl) Update(ctx context.Context, rule *entity.HouseRule) error {
	m := r.mapper.ToModel(rule)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*rule = *r.mapper.ToEntity(m)
	return nil
}

func (r *HouseRuleRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.HouseRule{}, id).Error
}

func (r *HouseRuleRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.HouseRule, error) {
	var m model.HouseRule
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *HouseRuleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HouseRule, error) {
	var models []*model.HouseRule
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *HouseRuleRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.HouseRule{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *HouseRuleRepositoryImpl) CountByGameIDs(ctx context.Context, gameIds []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(gameIds))
	if len(gameIds) == 0 {
		return counts, nil
	}

	type row struct {
		GameId uuid.UUID
		Total  int64
	}
	var rows []row

	err := r.db.WithContext(ctx).
		Model(&model.HouseRule{}).
		Select("game_id, COUNT(*) as total").
		Where("game_id IN ?", gameIds).
		Where("is_active = ?", true).
		Group("game_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.GameId] = r.Total
	}
	return counts, nil
}
