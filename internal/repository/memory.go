package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

type memoryGame struct {
	mu    sync.Mutex
	games map[string]*entity.Game
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryGameRepository keeps games in the process. Games not updated
// within ttl are treated as gone; a zero ttl keeps them forever.
func NewMemoryGameRepository(ttl time.Duration) GameRepository {
	return &memoryGame{
		games: make(map[string]*entity.Game),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored := cloneGame(game)
	stored.UpdatedAt = that.now()
	that.games[game.ID] = stored

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	if that.expired(game) {
		delete(that.games, id)
		return nil, apperror.ErrGameNotFound
	}

	return cloneGame(game), nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return apperror.ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}

func (that *memoryGame) expired(game *entity.Game) bool {
	return that.ttl > 0 && that.now().Sub(game.UpdatedAt) > that.ttl
}

// cloneGame copies the history so callers never share records with the store.
func cloneGame(game *entity.Game) *entity.Game {
	clone := *game
	clone.History = append([]entity.Move(nil), game.History...)
	return &clone
}
