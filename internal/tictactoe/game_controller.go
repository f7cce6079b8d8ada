package tictactoe

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

// ApplyMove marks the cell for the player whose turn it is and reports
// whether the click changed anything. Clicks on an occupied cell, outside the
// board or on a board that already has a winner are ignored.
func ApplyMove(game *entity.Game, cell int) bool {
	if !canMove(game, cell) {
		return false
	}

	// moves after the active step are dropped once a new move is made
	game.History = game.History[:game.Step+1]

	board := game.Current().Board
	board[cell] = game.Turn
	column, row := entity.CellPosition(cell)

	game.History = append(game.History, entity.Move{
		Board:  board,
		Cell:   cell,
		Column: column,
		Row:    row,
		Player: game.Turn,
	})
	game.Step = len(game.History) - 1
	game.Turn = game.Turn.Opponent()
	game.UpdatedAt = time.Now()

	return true
}

// canMove - checks if the click is a legal move on the active board.
func canMove(game *entity.Game, cell int) bool {
	if cell < 0 || cell >= entity.BoardSize {
		return false
	}

	board := game.Current().Board
	if board[cell] != entity.EmptyCell {
		return false
	}

	return !DetectWin(board).HasWinner()
}

// JumpTo makes a past (or future) record the active one. History is kept as
// is until the next move.
func JumpTo(game *entity.Game, step int) error {
	if step < 0 || step >= len(game.History) {
		return fmt.Errorf("%w: step %d of %d", apperror.ErrInvalidStep, step, len(game.History))
	}

	game.Step = step
	game.Turn = entity.TurnAt(step)
	game.UpdatedAt = time.Now()

	return nil
}

// ToggleOrder flips the order the move list is displayed in.
func ToggleOrder(game *entity.Game) {
	game.Ascending = !game.Ascending
	game.UpdatedAt = time.Now()
}

// StepAtPosition maps a position in the displayed move list to a history index.
func StepAtPosition(game *entity.Game, position int) (int, error) {
	last := len(game.History) - 1
	if position < 0 || position > last {
		return 0, fmt.Errorf("%w: position %d of %d", apperror.ErrInvalidStep, position, len(game.History))
	}

	if game.Ascending {
		return position, nil
	}

	return last - position, nil
}
