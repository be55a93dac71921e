package service

import (
	"context"
	"encoding/json"
	"time"

	"boardgame-rules-be/internal/dto"
	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/internal/pkg/logger"
	"boardgame-rules-be/internal/repository/specification"
	"boardgame-rules-be/internal/repository/unitofwork"
	"boardgame-rules-be/pkg/embedding"
	"boardgame-rules-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	embeddingModel    string
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	embeddingModel string,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		embeddingModel:    embeddingModel,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage embeds one house rule. Invalid payloads and vanished rules
// are acked so they never loop; transient failures are nacked for retry.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedHouseRuleMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer.service", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	cs.log.Info("consumer.service", "embedding house rule", map[string]interface{}{
		"houseRuleId": payload.HouseRuleId.String(),
	})

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	rule, err := uow.HouseRuleRepository().FindOne(ctx, specification.ByID{ID: payload.HouseRuleId})
	if err != nil {
		cs.log.Error("consumer.service", "failed to load house rule", map[string]interface{}{
			"houseRuleId": payload.HouseRuleId.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	if rule == nil || !rule.IsActive {
		// Deleted or deactivated since publish, nothing to embed.
		msg.Ack()
		return
	}

	text := rule.Title + "\n\n" + rule.Description
	chunks := utils.SplitText(text, chunkSize, chunkOverlap)

	embedded := make([]*entity.EmbeddingChunk, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(ctx, chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			cs.log.Error("consumer.service", "embedding generation failed", map[string]interface{}{
				"houseRuleId": rule.Id.String(),
				"error":       err.Error(),
			})
			msg.Nack()
			return
		}
		embedded = append(embedded, &entity.EmbeddingChunk{
			Id:             uuid.New(),
			GameId:         rule.GameId,
			ChunkText:      chunk,
			EmbeddingValue: res.Embedding.Values,
			ChunkIndex:     i,
			SourceType:     entity.SourceTypeHouseRule,
			SourceId:       &rule.Id,
			Metadata: map[string]interface{}{
				"title": rule.Title,
				"model": cs.embeddingModel,
			},
			CreatedAt: time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		msg.Nack()
		return
	}
	if err := uow.EmbeddingRepository().DeleteBySource(ctx, rule.GameId, entity.SourceTypeHouseRule, &rule.Id); err != nil {
		_ = uow.Rollback()
		msg.Nack()
		return
	}
	if err := uow.EmbeddingRepository().CreateBulk(ctx, embedded); err != nil {
		_ = uow.Rollback()
		msg.Nack()
		return
	}
	if err := uow.Commit(); err != nil {
		msg.Nack()
		return
	}

	cs.log.Info("consumer.service", "house rule embedded", map[string]interface{}{
		"houseRuleId": rule.Id.String(),
		"chunks":      len(embedded),
	})
	msg.Ack()
}
