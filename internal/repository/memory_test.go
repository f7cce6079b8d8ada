package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

func TestMemoryGameRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Stored game can be read back", func(t *testing.T) {
		// Given: a game with one move
		repo := NewMemoryGameRepository(0)
		game := entity.NewGame("123")
		require.True(t, tictactoe.ApplyMove(game, 4))

		// When: storing and reading it
		require.NoError(t, repo.CreateOrUpdate(ctx, game))
		stored, err := repo.GetByID(ctx, "123")

		// Then: the history matches
		require.NoError(t, err)
		assert.Equal(t, game.History, stored.History)
		assert.Equal(t, game.Step, stored.Step)
	})

	t.Run("Stored game is not shared with the caller", func(t *testing.T) {
		// Given: a stored game
		repo := NewMemoryGameRepository(0)
		game := entity.NewGame("123")
		require.NoError(t, repo.CreateOrUpdate(ctx, game))

		// When: the caller keeps playing without saving
		require.True(t, tictactoe.ApplyMove(game, 0))

		// Then: the stored copy is unchanged
		stored, err := repo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Len(t, stored.History, 1)
	})

	t.Run("Unknown game", func(t *testing.T) {
		repo := NewMemoryGameRepository(0)

		_, err := repo.GetByID(ctx, "nope")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)

		err = repo.DeleteByID(ctx, "nope")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Deleted game is gone", func(t *testing.T) {
		repo := NewMemoryGameRepository(0)
		require.NoError(t, repo.CreateOrUpdate(ctx, entity.NewGame("123")))

		require.NoError(t, repo.DeleteByID(ctx, "123"))

		_, err := repo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Game expires after the ttl", func(t *testing.T) {
		// Given: a repository with a controllable clock
		repo := NewMemoryGameRepository(time.Minute).(*memoryGame)
		now := time.Now()
		repo.now = func() time.Time { return now }
		require.NoError(t, repo.CreateOrUpdate(ctx, entity.NewGame("123")))

		// When: less than the ttl passes
		now = now.Add(30 * time.Second)

		// Then: the game is still there
		_, err := repo.GetByID(ctx, "123")
		require.NoError(t, err)

		// When: the ttl passes
		now = now.Add(time.Minute)

		// Then: the game is gone
		_, err = repo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}
