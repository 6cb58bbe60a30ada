// internal/game/transition.go
package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tictacgo/tictacgo/internal/engine"
	"github.com/tictacgo/tictacgo/internal/models"
)

// Resolution is the outcome of one accepted move: the state the game must
// transition to, plus a human-readable message.
type Resolution struct {
	Board    string
	NextMark engine.Mark
	Status   engine.Status
	Winner   engine.Mark
	Message  string
}

// Validate checks whether actorID may place a mark at position on the
// game's current state. Checks run in a fixed order; the first failure
// wins: finished game, then illegal position, then turn ownership.
func Validate(g *models.Game, position int, actorID uuid.UUID) error {
	if g.Status != engine.StatusOngoing {
		return fmt.Errorf("%w with status: %s", ErrGameFinished, g.Status)
	}
	if !engine.IsLegal(g.Board, position) {
		return fmt.Errorf("%w: position %d", engine.ErrIllegalMove, position)
	}
	switch g.CurrentMark {
	case engine.MarkX:
		if g.PlayerXID == nil || *g.PlayerXID != actorID {
			return fmt.Errorf("%w (X's turn)", ErrWrongTurn)
		}
	case engine.MarkO:
		if g.PlayerOID == nil || *g.PlayerOID != actorID {
			return fmt.Errorf("%w (O's turn)", ErrWrongTurn)
		}
	}
	return nil
}

// Resolve validates the move again and computes the resulting game state.
// It is pure: callers persist the returned Resolution atomically. The
// revalidation is deliberate; Resolve runs against the row the caller has
// locked, so a stale first check cannot slip a bad move through.
func Resolve(g *models.Game, position int, actorID uuid.UUID) (*Resolution, error) {
	if err := Validate(g, position, actorID); err != nil {
		return nil, err
	}

	board, err := engine.Apply(g.Board, position, g.CurrentMark)
	if err != nil {
		return nil, err
	}

	status, winner := engine.Evaluate(board)

	// Once the game leaves ongoing, the mark that just moved stays
	// recorded as current; there is no further turn to hand over.
	next := g.CurrentMark
	if status == engine.StatusOngoing {
		next = engine.NextTurn(g.CurrentMark)
	}

	return &Resolution{
		Board:    board,
		NextMark: next,
		Status:   status,
		Winner:   winner,
		Message:  outcomeMessage(status, winner),
	}, nil
}

func outcomeMessage(status engine.Status, winner engine.Mark) string {
	switch status {
	case engine.StatusWon:
		return fmt.Sprintf("Player %s wins!", winner)
	case engine.StatusDraw:
		return "It's a draw!"
	default:
		return "Move successful. Game continues."
	}
}
