// internal/game/transition_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tictacgo/tictacgo/internal/engine"
	"github.com/tictacgo/tictacgo/internal/models"
)

func newTestGame(playerX, playerO uuid.UUID) *models.Game {
	return &models.Game{
		ID:          uuid.New(),
		PlayerXID:   &playerX,
		PlayerOID:   &playerO,
		Board:       engine.EmptyBoard,
		CurrentMark: engine.MarkX,
		Status:      engine.StatusOngoing,
	}
}

func TestValidateFinishedGame(t *testing.T) {
	px, po := uuid.New(), uuid.New()
	g := newTestGame(px, po)
	g.Status = engine.StatusWon

	err := Validate(g, 5, px)
	require.ErrorIs(t, err, ErrGameFinished)
	assert.Contains(t, err.Error(), "won")
}

func TestValidateOccupiedPosition(t *testing.T) {
	px, po := uuid.New(), uuid.New()
	g := newTestGame(px, po)
	g.Board = "X--------"
	g.CurrentMark = engine.MarkO

	err := Validate(g, 1, po)
	require.ErrorIs(t, err, engine.ErrIllegalMove)
}

func TestValidateOutOfRange(t *testing.T) {
	px, po := uuid.New(), uuid.New()
	g := newTestGame(px, po)

	require.ErrorIs(t, Validate(g, 0, px), engine.ErrIllegalMove)
	require.ErrorIs(t, Validate(g, 10, px), engine.ErrIllegalMove)
}

func TestValidateWrongTurn(t *testing.T) {
	px, po := uuid.New(), uuid.New()
	g := newTestGame(px, po)
	g.CurrentMark = engine.MarkO

	err := Validate(g, 1, px)
	require.ErrorIs(t, err, ErrWrongTurn)
	assert.Contains(t, err.Error(), "O's turn")
}

func TestValidateUnclaimedSide(t *testing.T) {
	px := uuid.New()
	g := newTestGame(px, uuid.New())
	g.PlayerOID = nil
	g.CurrentMark = engine.MarkO

	// nobody owns the O side yet, so no actor can move for it
	require.ErrorIs(t, Validate(g, 1, px), ErrWrongTurn)
	require.ErrorIs(t, Validate(g, 1, uuid.New()), ErrWrongTurn)
}

// Finished-game check must win over the position check, which must win
// over the turn check.
func TestValidateOrder(t *testing.T) {
	px, po := uuid.New(), uuid.New()
	g := newTestGame(px, po)
	g.Status = engine.StatusDraw
	g.Board = "XOXOXOOXO"

	require.ErrorIs(t, Validate(g, 1, po), ErrGameFinished)

	g2 := newTestGame(px, po)
	g2.Board = "X--------"
	require.ErrorIs(t, Validate(g2, 1, po), engine.ErrIllegalMove)
}

func TestResolveContinues(t *testing.T) {
	px, po := uuid.New(), uuid.New()
	g := newTestGame(px, po)

	res, err := Resolve(g, 5, px)
	require.NoError(t, err)
	assert.Equal(t, "----X----", res.Board)
	assert.Equal(t, engine.MarkO, res.NextMark)
	assert.Equal(t, engine.StatusOngoing, res.Status)
	assert.Equal(t, engine.Mark(""), res.Winner)
	assert.Equal(t, "Move successful. Game continues.", res.Message)

	// the game record itself is untouched until the caller persists
	assert.Equal(t, engine.EmptyBoard, g.Board)
	assert.Equal(t, engine.MarkX, g.CurrentMark)
}

func TestResolveWin(t *testing.T) {
	px, po := uuid.New(), uuid.New()
	g := newTestGame(px, po)
	g.Board = "XX-OO----"

	res, err := Resolve(g, 3, px)
	require.NoError(t, err)
	assert.Equal(t, "XXXOO----", res.Board)
	assert.Equal(t, engine.StatusWon, res.Status)
	assert.Equal(t, engine.MarkX, res.Winner)
	assert.Equal(t, engine.MarkX, res.NextMark, "no turn handover after a terminal move")
	assert.Equal(t, "Player X wins!", res.Message)
}

func TestResolveDraw(t *testing.T) {
	px, po := uuid.New(), uuid.New()
	g := newTestGame(px, po)
	g.Board = "XOXOXOOX-"
	g.CurrentMark = engine.MarkO

	res, err := Resolve(g, 9, po)
	require.NoError(t, err)
	assert.Equal(t, "XOXOXOOXO", res.Board)
	assert.Equal(t, engine.StatusDraw, res.Status)
	assert.Equal(t, engine.Mark(""), res.Winner)
	assert.Equal(t, "It's a draw!", res.Message)
}

func TestResolveRejectsInvalid(t *testing.T) {
	px, po := uuid.New(), uuid.New()
	g := newTestGame(px, po)
	g.Board = "X--------"
	g.CurrentMark = engine.MarkO

	_, err := Resolve(g, 1, po)
	require.ErrorIs(t, err, engine.ErrIllegalMove)
	assert.Equal(t, "X--------", g.Board)
}

// Marks strictly alternate starting with X for any accepted sequence, and
// a multi-winner board can never be produced through Resolve: once a line
// completes the status leaves ongoing and every further move is rejected.
func TestResolveAlternationToTerminal(t *testing.T) {
	px, po := uuid.New(), uuid.New()
	g := newTestGame(px, po)

	actors := map[engine.Mark]uuid.UUID{engine.MarkX: px, engine.MarkO: po}
	moves := []int{1, 4, 2, 5, 3} // X wins the top row
	want := engine.MarkX

	for _, pos := range moves {
		assert.Equal(t, want, g.CurrentMark)
		res, err := Resolve(g, pos, actors[g.CurrentMark])
		require.NoError(t, err)

		g.Board = res.Board
		g.CurrentMark = res.NextMark
		g.Status = res.Status
		want = engine.NextTurn(want)
	}

	assert.Equal(t, engine.StatusWon, g.Status)

	// any follow-up is refused, so a second line can never appear
	for _, pos := range engine.AvailablePositions(g.Board) {
		_, err := Resolve(g, pos, po)
		require.ErrorIs(t, err, ErrGameFinished)
	}
}
