package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"boardgame-rules-be/internal/dto"
	"boardgame-rules-be/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embedPayload(t *testing.T, ruleId uuid.UUID) []byte {
	t.Helper()
	payload, err := json.Marshal(dto.PublishEmbedHouseRuleMessage{HouseRuleId: ruleId})
	require.NoError(t, err)
	return payload
}

func seedRule(uow *fakeUow, gameId uuid.UUID, active bool) *entity.HouseRule {
	rule := &entity.HouseRule{
		Id:          uuid.New(),
		GameId:      gameId,
		Title:       "No farmers",
		Description: "Farmers are not scored in this variant.",
		IsActive:    active,
		CreatedAt:   time.Now(),
	}
	_ = uow.houseRuleRepo.Create(context.Background(), rule)
	return rule
}

func TestConsumerProcessMessageEmbedsRule(t *testing.T) {
	uow := newFakeUow()
	provider := &fakeEmbeddingProvider{}
	cs := &consumerService{
		uowFactory:        &fakeFactory{uow: uow},
		embeddingProvider: provider,
		embeddingModel:    "test-model",
		log:               nopLogger{},
	}

	game := seedGame(uow, "Carcassonne")
	rule := seedRule(uow, game.Id, true)

	msg := message.NewMessage(watermill.NewUUID(), embedPayload(t, rule.Id))
	cs.processMessage(context.Background(), msg)

	require.True(t, acked(msg))
	require.NotEmpty(t, uow.embeddingRepo.chunks)
	for _, chunk := range uow.embeddingRepo.chunks {
		assert.Equal(t, entity.SourceTypeHouseRule, chunk.SourceType)
		require.NotNil(t, chunk.SourceId)
		assert.Equal(t, rule.Id, *chunk.SourceId)
		assert.Equal(t, "test-model", chunk.Metadata["model"])
	}
	assert.Positive(t, provider.calls)
}

func TestConsumerProcessMessageReplacesOldChunks(t *testing.T) {
	uow := newFakeUow()
	cs := &consumerService{
		uowFactory:        &fakeFactory{uow: uow},
		embeddingProvider: &fakeEmbeddingProvider{},
		embeddingModel:    "test-model",
		log:               nopLogger{},
	}

	game := seedGame(uow, "Carcassonne")
	rule := seedRule(uow, game.Id, true)

	stale := embedChunkForRule(game.Id, rule.Id)
	_ = uow.embeddingRepo.Create(context.Background(), stale)

	msg := message.NewMessage(watermill.NewUUID(), embedPayload(t, rule.Id))
	cs.processMessage(context.Background(), msg)

	_, found := uow.embeddingRepo.chunks[stale.Id]
	assert.False(t, found)
	assert.NotEmpty(t, uow.embeddingRepo.chunks)
}

func TestConsumerProcessMessageAcksVanishedRule(t *testing.T) {
	uow := newFakeUow()
	cs := &consumerService{
		uowFactory:        &fakeFactory{uow: uow},
		embeddingProvider: &fakeEmbeddingProvider{},
		log:               nopLogger{},
	}

	msg := message.NewMessage(watermill.NewUUID(), embedPayload(t, uuid.New()))
	cs.processMessage(context.Background(), msg)

	assert.True(t, acked(msg))
	assert.Empty(t, uow.embeddingRepo.chunks)
}

func TestConsumerProcessMessageAcksInactiveRule(t *testing.T) {
	uow := newFakeUow()
	cs := &consumerService{
		uowFactory:        &fakeFactory{uow: uow},
		embeddingProvider: &fakeEmbeddingProvider{},
		log:               nopLogger{},
	}

	game := seedGame(uow, "Carcassonne")
	rule := seedRule(uow, game.Id, false)

	msg := message.NewMessage(watermill.NewUUID(), embedPayload(t, rule.Id))
	cs.processMessage(context.Background(), msg)

	assert.True(t, acked(msg))
	assert.Empty(t, uow.embeddingRepo.chunks)
}

func TestConsumerProcessMessageAcksMalformedPayload(t *testing.T) {
	cs := &consumerService{
		uowFactory:        &fakeFactory{uow: newFakeUow()},
		embeddingProvider: &fakeEmbeddingProvider{},
		log:               nopLogger{},
	}

	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	cs.processMessage(context.Background(), msg)

	assert.True(t, acked(msg))
}

func TestConsumerProcessMessageNacksOnEmbeddingFailure(t *testing.T) {
	uow := newFakeUow()
	cs := &consumerService{
		uowFactory:        &fakeFactory{uow: uow},
		embeddingProvider: &fakeEmbeddingProvider{err: errUpstreamDown},
		log:               nopLogger{},
	}

	game := seedGame(uow, "Carcassonne")
	rule := seedRule(uow, game.Id, true)

	msg := message.NewMessage(watermill.NewUUID(), embedPayload(t, rule.Id))
	cs.processMessage(context.Background(), msg)

	assert.True(t, nacked(msg))
	assert.Empty(t, uow.embeddingRepo.chunks)
}

func TestPublisherConsumerRoundTrip(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	uow := newFakeUow()
	game := seedGame(uow, "Carcassonne")
	rule := seedRule(uow, game.Id, true)

	consumer := NewConsumerService(
		pubSub,
		"embed.house-rule",
		&fakeFactory{uow: uow},
		&fakeEmbeddingProvider{},
		"test-model",
		nopLogger{},
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService(pubSub, "embed.house-rule")
	require.NoError(t, publisher.Publish(ctx, embedPayload(t, rule.Id)))

	deadline := time.After(2 * time.Second)
	for uow.embeddingRepo.chunkCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("rule was never embedded")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func acked(msg *message.Message) bool {
	select {
	case <-msg.Acked():
		return true
	default:
		return false
	}
}

func nacked(msg *message.Message) bool {
	select {
	case <-msg.Nacked():
		return true
	default:
		return false
	}
}
