package service

import (
	"context"
	"testing"

	"boardgame-rules-be/internal/dto"
	"boardgame-rules-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newGameFixture(uow *fakeUow) IGameService {
	return NewGameService(&fakeFactory{uow: uow}, nil, nopLogger{})
}

func TestGameServiceCreate(t *testing.T) {
	uow := newFakeUow()
	svc := newGameFixture(uow)

	res, err := svc.Create(context.Background(), &dto.CreateGameRequest{
		Name:       "Terraforming Mars",
		MinPlayers: intPtr(1),
		MaxPlayers: intPtr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Terraforming Mars", res.Name)
	assert.NotEqual(t, uuid.Nil, res.Id)

	stored, _ := uow.gameRepo.FindOne(context.Background(), byIDSpec(res.Id))
	require.NotNil(t, stored)
}

func TestGameServiceCreateRejectsInvertedPlayerRange(t *testing.T) {
	svc := newGameFixture(newFakeUow())

	_, err := svc.Create(context.Background(), &dto.CreateGameRequest{
		Name:       "Broken",
		MinPlayers: intPtr(4),
		MaxPlayers: intPtr(2),
	})
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
}

func TestGameServiceUpdateRejectsInvertedPlayerRange(t *testing.T) {
	uow := newFakeUow()
	svc := newGameFixture(uow)
	game := seedGame(uow, "Scythe")
	game.MinPlayers = intPtr(1)
	game.MaxPlayers = intPtr(5)
	_ = uow.gameRepo.Update(context.Background(), game)

	// Lowering max below the existing min must fail even when min is
	// untouched by the request.
	_, err := svc.Update(context.Background(), game.Id, &dto.UpdateGameRequest{
		MaxPlayers: intPtr(0),
	})
	require.Error(t, err)
}

func TestGameServiceShowNotFound(t *testing.T) {
	svc := newGameFixture(newFakeUow())

	_, err := svc.Show(context.Background(), uuid.New())
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}

func TestGameServiceListIncludesHouseRuleCounts(t *testing.T) {
	uow := newFakeUow()
	svc := newGameFixture(uow)
	game := seedGame(uow, "Gloomhaven")

	ruleSvc := NewHouseRuleService(&fakeFactory{uow: uow}, &fakePublisher{}, nil, nopLogger{})
	for i := 0; i < 2; i++ {
		_, err := ruleSvc.Create(context.Background(), &dto.CreateHouseRuleRequest{
			GameId:      game.Id,
			Title:       "Variant",
			Description: "Use the easy difficulty table.",
		})
		require.NoError(t, err)
	}

	res, err := svc.List(context.Background(), &dto.ListGamesQuery{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(2), res.Items[0].HouseRulesCount)
	assert.False(t, res.Items[0].HasRulesPdf)
}

func TestGameServiceDeleteNotFound(t *testing.T) {
	svc := newGameFixture(newFakeUow())

	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}
