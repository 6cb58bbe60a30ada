// internal/engine/engine_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinner(t *testing.T) {
	tests := []struct {
		name  string
		board string
		want  Mark
	}{
		{"empty board", EmptyBoard, ""},
		{"top row X", "XXX------", MarkX},
		{"middle row O", "---OOO---", MarkO},
		{"bottom row X", "------XXX", MarkX},
		{"left column X", "X--X--X--", MarkX},
		{"middle column O", "-O--O--O-", MarkO},
		{"right column X", "--X--X--X", MarkX},
		{"main diagonal X", "X---X---X", MarkX},
		{"anti diagonal O", "--O-O-O--", MarkO},
		{"no line", "XOXOXOOXO", ""},
		{"two in a row only", "XX-------", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Winner(tt.board))
		})
	}
}

func TestIsDraw(t *testing.T) {
	assert.False(t, IsDraw(EmptyBoard))
	assert.False(t, IsDraw("XOXOXOOX-"), "board with an empty cell is never a draw")
	assert.True(t, IsDraw("XOXOXOOXO"))
	assert.False(t, IsDraw("XXXOOXOXO"), "full board with a winner is not a draw")
}

func TestIsLegal(t *testing.T) {
	assert.True(t, IsLegal(EmptyBoard, 1))
	assert.True(t, IsLegal(EmptyBoard, 9))
	assert.False(t, IsLegal(EmptyBoard, 0))
	assert.False(t, IsLegal(EmptyBoard, 10))
	assert.False(t, IsLegal(EmptyBoard, -3))
	assert.False(t, IsLegal("X--------", 1), "occupied cell")
	assert.True(t, IsLegal("X--------", 2))
}

func TestApply(t *testing.T) {
	board := "XX-------"
	next, err := Apply(board, 3, MarkX)
	require.NoError(t, err)
	assert.Equal(t, "XXX------", next)
	assert.Equal(t, "XX-------", board, "input board must not be mutated")
}

func TestApplyIllegal(t *testing.T) {
	board := "X--------"

	_, err := Apply(board, 1, MarkO)
	require.ErrorIs(t, err, ErrIllegalMove)

	_, err = Apply(board, 0, MarkO)
	require.ErrorIs(t, err, ErrIllegalMove)

	_, err = Apply(board, 42, MarkO)
	require.ErrorIs(t, err, ErrIllegalMove)

	assert.Equal(t, "X--------", board)
}

func TestApplyInvalidMark(t *testing.T) {
	_, err := Apply(EmptyBoard, 1, "")
	require.ErrorIs(t, err, ErrIllegalMove)

	_, err = Apply(EmptyBoard, 1, "Z")
	require.ErrorIs(t, err, ErrIllegalMove)
}

func TestNextTurn(t *testing.T) {
	assert.Equal(t, MarkO, NextTurn(MarkX))
	assert.Equal(t, MarkX, NextTurn(MarkO))
}

func TestEvaluate(t *testing.T) {
	status, winner := Evaluate("XXX------")
	assert.Equal(t, StatusWon, status)
	assert.Equal(t, MarkX, winner)

	status, winner = Evaluate("XOXOXOOXO")
	assert.Equal(t, StatusDraw, status)
	assert.Equal(t, Mark(""), winner)

	status, winner = Evaluate(EmptyBoard)
	assert.Equal(t, StatusOngoing, status)
	assert.Equal(t, Mark(""), winner)
}

func TestAvailablePositions(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, AvailablePositions(EmptyBoard))
	assert.Equal(t, []int{2, 5, 9}, AvailablePositions("X-XO-XOO-"))
	assert.Nil(t, AvailablePositions("XOXOXOOXO"))
}

func TestDisplayRows(t *testing.T) {
	rows := DisplayRows("XOX-O-X-O")
	assert.Equal(t, [3][3]string{
		{"X", "O", "X"},
		{"-", "O", "-"},
		{"X", "-", "O"},
	}, rows)
}
