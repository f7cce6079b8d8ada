package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager forwards shell events to the game of one session and hands back
// a fresh snapshot after each of them.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	// load-modify-save cycles are serialised so concurrent events apply in order
	mu sync.Mutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
	}
}

func (that *GameManager) NewGame(ctx context.Context) (*tictactoe.Snapshot, error) {
	game := entity.NewGame(uuid.NewString())

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save new game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID)

	snapshot := tictactoe.TakeSnapshot(game)
	return &snapshot, nil
}

func (that *GameManager) Snapshot(ctx context.Context, gameID string) (*tictactoe.Snapshot, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	snapshot := tictactoe.TakeSnapshot(game)
	return &snapshot, nil
}

// Click plays the cell for the player whose turn it is. Illegal clicks leave
// the game as it is and are not an error.
func (that *GameManager) Click(ctx context.Context, gameID string, cell int) (*tictactoe.Snapshot, error) {
	log := that.logger.With("method", "Click", "gameID", gameID, "cell", cell)

	return that.update(ctx, gameID, func(game *entity.Game) (bool, error) {
		if !tictactoe.ApplyMove(game, cell) {
			log.Debug("click ignored")
			return false, nil
		}

		log.Debug("move applied", "step", game.Step)
		return true, nil
	})
}

func (that *GameManager) Jump(ctx context.Context, gameID string, step int) (*tictactoe.Snapshot, error) {
	return that.update(ctx, gameID, func(game *entity.Game) (bool, error) {
		if err := tictactoe.JumpTo(game, step); err != nil {
			return false, err
		}

		return true, nil
	})
}

// JumpToPosition jumps to the record shown at the given position of the
// move list, whatever order the list is displayed in.
func (that *GameManager) JumpToPosition(ctx context.Context, gameID string, position int) (*tictactoe.Snapshot, error) {
	return that.update(ctx, gameID, func(game *entity.Game) (bool, error) {
		step, err := tictactoe.StepAtPosition(game, position)
		if err != nil {
			return false, err
		}

		if err = tictactoe.JumpTo(game, step); err != nil {
			return false, err
		}

		return true, nil
	})
}

func (that *GameManager) ToggleOrder(ctx context.Context, gameID string) (*tictactoe.Snapshot, error) {
	return that.update(ctx, gameID, func(game *entity.Game) (bool, error) {
		tictactoe.ToggleOrder(game)
		return true, nil
	})
}

func (that *GameManager) EndGame(ctx context.Context, gameID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game ended", "gameID", gameID)

	return nil
}

func (that *GameManager) update(ctx context.Context, gameID string, apply func(game *entity.Game) (bool, error)) (*tictactoe.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	changed, err := apply(game)
	if err != nil {
		return nil, err
	}

	if changed {
		if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
			return nil, fmt.Errorf("failed to update game: %w", err)
		}
	}

	snapshot := tictactoe.TakeSnapshot(game)
	return &snapshot, nil
}
