// internal/database/transition.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tictacgo/tictacgo/internal/engine"
	"github.com/tictacgo/tictacgo/internal/game"
	"github.com/tictacgo/tictacgo/internal/models"
)

// MoveResult is everything one accepted move produced.
type MoveResult struct {
	Game    *models.Game
	Move    *models.Move
	Status  string
	Winner  string
	Message string
}

// ExecuteMove performs one atomic move transition. The game row is locked
// with SELECT ... FOR UPDATE and revalidated inside the same transaction
// that writes, so concurrent moves against one game serialize on the row
// lock and the loser fails validation against the committed state instead
// of clobbering it. Either both the move insert and the game update
// commit, or neither does.
func ExecuteMove(ctx context.Context, gameID uuid.UUID, position int, actorID uuid.UUID) (*MoveResult, error) {
	var result *MoveResult

	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `SELECT ` + gameColumns + ` FROM games WHERE id=$1 FOR UPDATE`
		g, err := scanGame(tx.QueryRow(ctx, q, gameID))
		if err != nil {
			return err
		}

		res, err := game.Resolve(g, position, actorID)
		if err != nil {
			return err
		}

		moveID, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate move id: %w", err)
		}
		mv := &models.Move{
			ID:       moveID,
			GameID:   g.ID,
			PlayerID: actorID,
			Mark:     g.CurrentMark,
			Position: position,
		}
		insQ := `INSERT INTO moves (id, game_id, player_id, mark, position)
		         VALUES ($1, $2, $3, $4, $5)
		         RETURNING created_at`
		if err := tx.QueryRow(ctx, insQ, mv.ID, mv.GameID, mv.PlayerID, mv.Mark, mv.Position).
			Scan(&mv.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert move: %w", err)
		}

		updQ := `UPDATE games
		         SET board_state=$1, current_mark=$2, status=$3, winner=$4, updated_at=NOW()
		         WHERE id=$5
		         RETURNING ` + gameColumns
		updated, err := scanGame(tx.QueryRow(ctx, updQ,
			res.Board, res.NextMark, res.Status, nullableMark(res.Winner), g.ID))
		if err != nil {
			return fmt.Errorf("failed to update game: %w", err)
		}

		result = &MoveResult{
			Game:    updated,
			Move:    mv,
			Status:  string(res.Status),
			Winner:  string(res.Winner),
			Message: res.Message,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// nullableMark maps the empty mark to SQL NULL for the winner column.
func nullableMark(m engine.Mark) *engine.Mark {
	if m == "" {
		return nil
	}
	return &m
}
