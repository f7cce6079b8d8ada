package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

func steps(moves []MoveView) []int {
	out := make([]int, 0, len(moves))
	for _, move := range moves {
		out = append(out, move.Step)
	}
	return out
}

func selected(moves []MoveView) []int {
	var out []int
	for _, move := range moves {
		if move.Selected {
			out = append(out, move.Step)
		}
	}
	return out
}

func TestTakeSnapshot(t *testing.T) {
	t.Run("New game", func(t *testing.T) {
		// When: taking a snapshot of a new game
		snapshot := TakeSnapshot(entity.NewGame("123"))

		// Then: the board is empty and X is next
		assert.Equal(t, "123", snapshot.GameID)
		assert.Equal(t, PhaseEmpty, snapshot.Phase)
		assert.Equal(t, Status{Kind: StatusNext, Player: entity.PlayerX, Text: "Next player: X"}, snapshot.Status)
		assert.Equal(t, entity.PlayerX, snapshot.Next)
		assert.True(t, snapshot.Ascending)
		assert.Equal(t, "Toggle to descending order", snapshot.ToggleLabel)

		require.Len(t, snapshot.Moves, 1)
		assert.Equal(t, MoveView{Step: 0, IsInitial: true, Selected: true, Description: "Go to game start"}, snapshot.Moves[0])
	})

	t.Run("Game in progress describes every move", func(t *testing.T) {
		// Given: X 0, O 4, X 7
		game := entity.NewGame("123")
		playMoves(t, game, 0, 4, 7)

		// When: taking a snapshot
		snapshot := TakeSnapshot(game)

		// Then: O is next and the moves are listed oldest first
		assert.Equal(t, PhaseInProgress, snapshot.Phase)
		assert.Equal(t, "Next player: O", snapshot.Status.Text)
		assert.Equal(t, []int{0, 1, 2, 3}, steps(snapshot.Moves))
		assert.Equal(t, []int{3}, selected(snapshot.Moves))

		assert.Equal(t, MoveView{
			Step:        3,
			Column:      2,
			Row:         3,
			Player:      entity.PlayerX,
			Selected:    true,
			Description: "Go to move #3: (2, 3) done by X",
		}, snapshot.Moves[3])
		assert.Equal(t, "Go to move #2: (2, 2) done by O", snapshot.Moves[2].Description)
	})

	t.Run("Winner is reported with its line", func(t *testing.T) {
		// Given: X completes the top row
		game := entity.NewGame("123")
		playMoves(t, game, 0, 3, 1, 4, 2)

		// When: taking a snapshot
		snapshot := TakeSnapshot(game)

		// Then: the game is won by X
		assert.Equal(t, PhaseWon, snapshot.Phase)
		assert.Equal(t, Status{Kind: StatusWinner, Player: entity.PlayerX, Text: "Winner: X"}, snapshot.Status)
		assert.Equal(t, [3]int{0, 1, 2}, snapshot.Win.Line)
		assert.Equal(t, entity.EmptyCell, snapshot.Next)
	})

	t.Run("Nine moves without a line is a draw", func(t *testing.T) {
		// Given: a game filled without a line
		game := entity.NewGame("123")
		playMoves(t, game, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		// When: taking a snapshot
		snapshot := TakeSnapshot(game)

		// Then: the status is a draw
		require.Len(t, game.History, entity.MaxHistory)
		assert.Equal(t, PhaseDrawn, snapshot.Phase)
		assert.Equal(t, Status{Kind: StatusDraw, Text: "It's a Draw!"}, snapshot.Status)
		assert.False(t, snapshot.Win.HasWinner())
	})

	t.Run("Jumping back from a draw shows the game in progress", func(t *testing.T) {
		// Given: a drawn game
		game := entity.NewGame("123")
		playMoves(t, game, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		// When: jumping back two moves
		require.NoError(t, JumpTo(game, 7))
		snapshot := TakeSnapshot(game)

		// Then: O is next on the older board
		assert.Equal(t, PhaseInProgress, snapshot.Phase)
		assert.Equal(t, "Next player: O", snapshot.Status.Text)
		assert.Equal(t, []int{7}, selected(snapshot.Moves))
	})

	t.Run("Jumping to the start shows an empty board", func(t *testing.T) {
		// Given: a game in progress
		game := entity.NewGame("123")
		playMoves(t, game, 0, 4, 1)

		// When: jumping to the start
		require.NoError(t, JumpTo(game, 0))
		snapshot := TakeSnapshot(game)

		// Then: the board is empty and X is next, history is kept
		assert.Equal(t, entity.Board{}, snapshot.Board)
		assert.Equal(t, entity.PlayerX, snapshot.Next)
		assert.Len(t, snapshot.Moves, 4)
		assert.Equal(t, []int{0}, selected(snapshot.Moves))
	})

	t.Run("Descending order reverses the list only", func(t *testing.T) {
		// Given: a game with a past step selected
		game := entity.NewGame("123")
		playMoves(t, game, 0, 4, 1)
		require.NoError(t, JumpTo(game, 1))
		ascending := TakeSnapshot(game)

		// When: toggling the order
		ToggleOrder(game)
		descending := TakeSnapshot(game)

		// Then: the list is reversed and the same step stays selected
		assert.Equal(t, []int{3, 2, 1, 0}, steps(descending.Moves))
		assert.Equal(t, []int{1}, selected(descending.Moves))
		assert.False(t, descending.Ascending)
		assert.Equal(t, "Toggle to ascending order", descending.ToggleLabel)
		assert.Equal(t, ascending.Board, descending.Board)

		// When: toggling back
		ToggleOrder(game)

		// Then: the snapshot is the one we started from
		assert.Equal(t, ascending, TakeSnapshot(game))
	})

	t.Run("Exactly one record is selected at any step", func(t *testing.T) {
		game := entity.NewGame("123")
		playMoves(t, game, 0, 4, 1, 2, 8)

		for step := range game.History {
			require.NoError(t, JumpTo(game, step))
			assert.Equal(t, []int{step}, selected(TakeSnapshot(game).Moves))
		}
	})
}
