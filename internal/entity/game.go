package entity

import (
	"errors"
	"fmt"
	"time"
)

// Cell is the content of one square of the board.
type Cell uint8

const (
	EmptyCell Cell = iota
	PlayerX
	PlayerO
)

const (
	BoardSize = 9
	// MaxHistory is the initial record plus one record per square.
	MaxHistory = BoardSize + 1

	// NoCell marks the initial record, which has no move behind it.
	NoCell = -1
)

var ErrUnknownCell = errors.New("unknown cell value")

func (that Cell) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other mark. EmptyCell has no opponent.
func (that Cell) Opponent() Cell {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*that = EmptyCell
	case "X":
		*that = PlayerX
	case "O":
		*that = PlayerO
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCell, text)
	}

	return nil
}

// Board is stored row-major: index = row*3 + col.
type Board [BoardSize]Cell

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// Move is one entry of the game history: the board right after a move.
type Move struct {
	Board  Board `json:"board"`
	Cell   int   `json:"cell"`
	Column int   `json:"column,omitempty"`
	Row    int   `json:"row,omitempty"`
	Player Cell  `json:"player"`
}

func (that *Move) IsInitial() bool {
	return that.Cell == NoCell
}

// Column and row are 1-based, derived from the row-major index.
func CellPosition(cell int) (column, row int) {
	return cell%3 + 1, cell/3 + 1
}

type Game struct {
	ID        string    `json:"id"`
	History   []Move    `json:"history"`
	Step      int       `json:"step"`
	Turn      Cell      `json:"turn"`
	Ascending bool      `json:"ascending"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:        id,
		History:   []Move{{Cell: NoCell}},
		Step:      0,
		Turn:      PlayerX,
		Ascending: true,
		UpdatedAt: time.Now(),
	}
}

// Current returns the record at the active step.
func (that *Game) Current() Move {
	return that.History[that.Step]
}

// TurnAt reports who moves after the given step: X on even steps.
func TurnAt(step int) Cell {
	if step%2 == 0 {
		return PlayerX
	}
	return PlayerO
}
