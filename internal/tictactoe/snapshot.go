package tictactoe

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

type Phase string

const (
	PhaseEmpty      Phase = "empty"
	PhaseInProgress Phase = "in_progress"
	PhaseWon        Phase = "won"
	PhaseDrawn      Phase = "drawn"
)

const (
	StatusNext   = "next"
	StatusWinner = "winner"
	StatusDraw   = "draw"
)

// Status is what the shell shows above the move list.
type Status struct {
	Kind   string      `json:"kind"`
	Player entity.Cell `json:"player,omitempty"`
	Text   string      `json:"text"`
}

// MoveView describes one history entry as the move list shows it.
type MoveView struct {
	Step        int         `json:"step"`
	IsInitial   bool        `json:"is_initial"`
	Column      int         `json:"column,omitempty"`
	Row         int         `json:"row,omitempty"`
	Player      entity.Cell `json:"player,omitempty"`
	Selected    bool        `json:"selected"`
	Description string      `json:"description"`
}

// Snapshot is the read-only view of a game handed to the shells.
type Snapshot struct {
	GameID      string       `json:"game_id"`
	Board       entity.Board `json:"board"`
	Win         WinResult    `json:"win"`
	Phase       Phase        `json:"phase"`
	Status      Status       `json:"status"`
	Next        entity.Cell  `json:"next,omitempty"`
	Step        int          `json:"step"`
	Moves       []MoveView   `json:"moves"`
	Ascending   bool         `json:"ascending"`
	ToggleLabel string       `json:"toggle_label"`
}

// TakeSnapshot derives everything the view needs from the game. Selection is
// computed from the active step, the stored records are never touched.
func TakeSnapshot(game *entity.Game) Snapshot {
	current := game.Current()
	win := DetectWin(current.Board)
	phase := phaseOf(game.Step, current.Board, win)

	snapshot := Snapshot{
		GameID:    game.ID,
		Board:     current.Board,
		Win:       win,
		Phase:     phase,
		Status:    statusOf(phase, win, game.Turn),
		Step:      game.Step,
		Moves:     moveViews(game),
		Ascending: game.Ascending,
	}

	if phase == PhaseEmpty || phase == PhaseInProgress {
		snapshot.Next = game.Turn
	}

	if game.Ascending {
		snapshot.ToggleLabel = "Toggle to descending order"
	} else {
		snapshot.ToggleLabel = "Toggle to ascending order"
	}

	return snapshot
}

func phaseOf(step int, board entity.Board, win WinResult) Phase {
	switch {
	case win.HasWinner():
		return PhaseWon
	case board.IsFull():
		return PhaseDrawn
	case step == 0:
		return PhaseEmpty
	default:
		return PhaseInProgress
	}
}

func statusOf(phase Phase, win WinResult, turn entity.Cell) Status {
	switch phase {
	case PhaseWon:
		return Status{Kind: StatusWinner, Player: win.Winner, Text: "Winner: " + win.Winner.String()}
	case PhaseDrawn:
		return Status{Kind: StatusDraw, Text: "It's a Draw!"}
	default:
		return Status{Kind: StatusNext, Player: turn, Text: "Next player: " + turn.String()}
	}
}

func moveViews(game *entity.Game) []MoveView {
	views := make([]MoveView, 0, len(game.History))

	for step, move := range game.History {
		view := MoveView{
			Step:      step,
			IsInitial: move.IsInitial(),
			Selected:  step == game.Step,
		}

		if view.IsInitial {
			view.Description = "Go to game start"
		} else {
			view.Column = move.Column
			view.Row = move.Row
			view.Player = move.Player
			view.Description = fmt.Sprintf("Go to move #%d: (%d, %d) done by %s", step, move.Column, move.Row, move.Player)
		}

		views = append(views, view)
	}

	if !game.Ascending {
		slices.Reverse(views)
	}

	return views
}
