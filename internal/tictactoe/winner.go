package tictactoe

import "github.com/rocketscienceinc/tictactoe-history/internal/entity"

// WinCombos are scanned in this order: rows, columns, diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// noLine is returned as the line of a board without a winner.
var noLine = [3]int{entity.NoCell, entity.NoCell, entity.NoCell}

type WinResult struct {
	Line   [3]int      `json:"line"`
	Winner entity.Cell `json:"winner"`
}

func (that WinResult) HasWinner() bool {
	return that.Winner != entity.EmptyCell
}

// Contains reports whether the cell is part of the winning line.
func (that WinResult) Contains(cell int) bool {
	if !that.HasWinner() {
		return false
	}

	for _, idx := range that.Line {
		if idx == cell {
			return true
		}
	}

	return false
}

// DetectWin returns the first combo whose three cells hold the same mark.
func DetectWin(board entity.Board) WinResult {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return WinResult{Line: combo, Winner: a}
		}
	}

	return WinResult{Line: noLine, Winner: entity.EmptyCell}
}
