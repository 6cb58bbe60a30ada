// internal/engine/engine.go
package engine

import (
	"errors"
	"fmt"
)

// Mark is a player's symbol on the board.
type Mark string

const (
	MarkX Mark = "X"
	MarkO Mark = "O"

	// EmptyCell is the sentinel for an unoccupied cell.
	EmptyCell = '-'

	// EmptyBoard is the canonical starting board state.
	EmptyBoard = "---------"

	// BoardSize is the number of cells on the board.
	BoardSize = 9
)

// Status is the lifecycle state of a game.
type Status string

const (
	StatusOngoing Status = "ongoing"
	StatusWon     Status = "won"
	StatusDraw    Status = "draw"
)

// ErrIllegalMove indicates a move on an occupied or out-of-range position.
var ErrIllegalMove = errors.New("position is already occupied or out of bounds")

// winTriples are the eight winning lines, scanned in fixed order:
// three rows, three columns, two diagonals.
var winTriples = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Winner scans the eight triples and returns the mark holding a complete
// line, or "" if there is no winner. The first matching triple in scan
// order wins.
func Winner(board string) Mark {
	for _, t := range winTriples {
		a := board[t[0]]
		if a != EmptyCell && a == board[t[1]] && a == board[t[2]] {
			return Mark(a)
		}
	}
	return ""
}

// IsDraw reports whether the board is full with no winner.
func IsDraw(board string) bool {
	for i := 0; i < BoardSize; i++ {
		if board[i] == EmptyCell {
			return false
		}
	}
	return Winner(board) == ""
}

// IsLegal reports whether position (1-indexed, 1-9) refers to an empty
// cell. Positions outside 1..9 are simply illegal, not an error.
func IsLegal(board string, position int) bool {
	if position < 1 || position > BoardSize {
		return false
	}
	return board[position-1] == EmptyCell
}

// Apply places mark at position and returns the new board state. The input
// board is never mutated. Returns ErrIllegalMove if the position is
// occupied or out of range, or if mark is not one of the two player marks.
func Apply(board string, position int, mark Mark) (string, error) {
	if mark != MarkX && mark != MarkO {
		return "", fmt.Errorf("%w: invalid mark %q", ErrIllegalMove, mark)
	}
	if !IsLegal(board, position) {
		return "", fmt.Errorf("%w: position %d", ErrIllegalMove, position)
	}
	cells := []byte(board)
	cells[position-1] = mark[0]
	return string(cells), nil
}

// NextTurn returns the opposing mark.
func NextTurn(mark Mark) Mark {
	if mark == MarkX {
		return MarkO
	}
	return MarkX
}

// Evaluate determines the game status for a board. It returns
// (StatusWon, winner), (StatusDraw, "") or (StatusOngoing, "").
func Evaluate(board string) (Status, Mark) {
	if w := Winner(board); w != "" {
		return StatusWon, w
	}
	if IsDraw(board) {
		return StatusDraw, ""
	}
	return StatusOngoing, ""
}

// AvailablePositions returns the empty positions in ascending 1-indexed
// order. The slice is recomputed on every call.
func AvailablePositions(board string) []int {
	var free []int
	for i := 0; i < BoardSize; i++ {
		if board[i] == EmptyCell {
			free = append(free, i+1)
		}
	}
	return free
}

// DisplayRows arranges the board as a 3x3 grid, row-major: cells 0-2 form
// row 1, 3-5 row 2, 6-8 row 3.
func DisplayRows(board string) [3][3]string {
	var rows [3][3]string
	for i := 0; i < BoardSize; i++ {
		rows[i/3][i%3] = string(board[i])
	}
	return rows
}
