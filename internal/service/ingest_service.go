package service

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"boardgame-rules-be/internal/dto"
	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/internal/pkg/apperror"
	"boardgame-rules-be/internal/pkg/logger"
	"boardgame-rules-be/internal/repository/specification"
	"boardgame-rules-be/internal/repository/unitofwork"
	"boardgame-rules-be/pkg/embedding"
	"boardgame-rules-be/pkg/events"
	pktNats "boardgame-rules-be/pkg/nats"
	"boardgame-rules-be/pkg/pdf"
	"boardgame-rules-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
)

type IIngestService interface {
	UploadRules(ctx context.Context, gameId uuid.UUID, fileBytes []byte) (*dto.RulesUploadResponse, error)
}

type ingestService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
	uploadDir         string
	embeddingModel    string
	gameLocks         *utils.KeyedMutex
	log               logger.ILogger
}

func NewIngestService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
	uploadDir string,
	embeddingModel string,
	log logger.ILogger,
) IIngestService {
	return &ingestService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		uploadDir:         uploadDir,
		embeddingModel:    embeddingModel,
		gameLocks:         utils.NewKeyedMutex(),
		log:               log,
	}
}

// UploadRules ingests a rulebook PDF: validate, extract, chunk, embed and
// store. Uploads for the same game are serialized; a re-upload replaces the
// previous chunks atomically.
func (s *ingestService) UploadRules(ctx context.Context, gameId uuid.UUID, fileBytes []byte) (*dto.RulesUploadResponse, error) {
	s.gameLocks.Lock(gameId.String())
	defer s.gameLocks.Unlock(gameId.String())

	uow := s.uowFactory.NewUnitOfWork(ctx)
	game, err := uow.GameRepository().FindOne(ctx, specification.ByID{ID: gameId})
	if err != nil {
		return nil, apperror.Persistence("failed to load game", err)
	}
	if game == nil {
		return nil, apperror.NotFound("game not found")
	}

	if err := pdf.Validate(fileBytes); err != nil {
		return nil, err
	}

	text, err := pdf.ExtractText(fileBytes)
	if err != nil {
		return nil, err
	}

	chunks := utils.SplitText(text, chunkSize, chunkOverlap)
	if len(chunks) == 0 {
		return nil, apperror.Validation("document contains no extractable text")
	}

	fileName := pdf.GenerateFilename(gameId)
	filePath := filepath.Join(s.uploadDir, fileName)

	embedded := make([]*entity.EmbeddingChunk, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := s.embeddingProvider.Generate(ctx, chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			return nil, apperror.Upstream("embedding service unavailable", err)
		}
		embedded = append(embedded, &entity.EmbeddingChunk{
			Id:             uuid.New(),
			GameId:         gameId,
			ChunkText:      chunk,
			EmbeddingValue: res.Embedding.Values,
			ChunkIndex:     i,
			SourceType:     entity.SourceTypeRulesPdf,
			Metadata: map[string]interface{}{
				"file_name": fileName,
				"model":     s.embeddingModel,
			},
			CreatedAt: time.Now(),
		})
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, apperror.Persistence("failed to prepare upload directory", err)
	}
	if err := os.WriteFile(filePath, fileBytes, 0o644); err != nil {
		return nil, apperror.Persistence("failed to store pdf file", err)
	}

	oldPdfPath := game.RulesPdfPath

	// On any failure past this point the new file is unreferenced; remove
	// it so failed uploads do not accumulate on disk.
	discardFile := func() {
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("ingest.service", "failed to remove orphaned pdf file", map[string]interface{}{
				"gameId": gameId.String(),
				"path":   filePath,
				"error":  err.Error(),
			})
		}
	}

	// Replace previous chunks and update the game in one transaction.
	if err := uow.Begin(ctx); err != nil {
		discardFile()
		return nil, apperror.Persistence("failed to start transaction", err)
	}

	if err := uow.EmbeddingRepository().DeleteBySource(ctx, gameId, entity.SourceTypeRulesPdf, nil); err != nil {
		_ = uow.Rollback()
		discardFile()
		return nil, apperror.Persistence("failed to delete previous chunks", err)
	}

	if err := uow.EmbeddingRepository().CreateBulk(ctx, embedded); err != nil {
		_ = uow.Rollback()
		discardFile()
		return nil, apperror.Persistence("failed to store chunks", err)
	}

	now := time.Now()
	game.RulesPdfPath = &filePath
	game.RulesText = &text
	game.RulesProcessedAt = &now
	if err := uow.GameRepository().Update(ctx, game); err != nil {
		_ = uow.Rollback()
		discardFile()
		return nil, apperror.Persistence("failed to update game", err)
	}

	if err := uow.Commit(); err != nil {
		discardFile()
		return nil, apperror.Persistence("failed to commit", err)
	}

	if oldPdfPath != nil && *oldPdfPath != filePath {
		if err := os.Remove(*oldPdfPath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("ingest.service", "failed to remove previous pdf file", map[string]interface{}{
				"gameId": gameId.String(),
				"path":   *oldPdfPath,
				"error":  err.Error(),
			})
		}
	}

	s.log.Info("ingest.service", "rules pdf processed", map[string]interface{}{
		"gameId":     gameId.String(),
		"chunks":     len(embedded),
		"textLength": len(text),
	})

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeRulesProcessed,
			Data: map[string]interface{}{
				"game_id": gameId,
				"chunks":  len(embedded),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("ingest.service", "failed to publish event", map[string]interface{}{
				"type":  events.TypeRulesProcessed,
				"error": err.Error(),
			})
		}
	}

	return &dto.RulesUploadResponse{
		Message:         "rules processed successfully",
		FilePath:        filePath,
		ChunksProcessed: len(embedded),
		TextLength:      len(text),
	}, nil
}
