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
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type EmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EmbeddingMapper
}

func NewEmbeddingRepository(db *gorm.DB) contract.EmbeddingRepository {
	return &EmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewEmbeddingMapper(),
	}
}

func (r *EmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EmbeddingRepositoryImpl) Create(ctx context.Context, chunk *entity.EmbeddingChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *EmbeddingRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.EmbeddingChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(chunks)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *EmbeddingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.EmbeddingChunk{}, id).Error
}

func (r *EmbeddingRepositoryImpl) DeleteByGameId(ctx context.Context, gameId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("game_id = ?", gameId).Delete(&model.EmbeddingChunk{}).Error
}

func (r *EmbeddingRepositoryImpl) DeleteBySource(ctx context.Context, gameId uuid.UUID, sourceType string, sourceId *uuid.UUID) error {
	query := r.db.WithContext(ctx).
		Where("game_id = ?", gameId).
		Where("source_type = ?", sourceType)
	if sourceId != nil {
		query = query.Where("source_id = ?", *sourceId)
	}
	return query.Delete(&model.EmbeddingChunk{}).Error
}

func (r *EmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EmbeddingChunk, error) {
	var m model.EmbeddingChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *EmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmbeddingChunk, error) {
	var models []*model.EmbeddingChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *EmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.EmbeddingChunk{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SearchSimilarWithScore ranks a game's chunks by cosine similarity to the
// query vector. pgvector's <=> operator is cosine distance, so similarity
// is 1 - distance. Rows below the threshold are excluded in SQL.
func (r *EmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, gameId uuid.UUID, threshold float64) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.EmbeddingChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("embeddings").
		Select("embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("game_id = ?", gameId).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC, chunk_index ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredChunk{
			Chunk:      r.mapper.ToEntity(&res.EmbeddingChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
