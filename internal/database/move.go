// internal/database/move.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tictacgo/tictacgo/internal/engine"
	"github.com/tictacgo/tictacgo/internal/models"
)

// ErrMoveNotFound indicates the referenced move does not exist.
var ErrMoveNotFound = errors.New("move not found")

const moveColumns = `id, game_id, player_id, mark, position, created_at`

func scanMoves(rows pgx.Rows) ([]models.Move, error) {
	defer rows.Close()
	var moves []models.Move
	for rows.Next() {
		var m models.Move
		if err := rows.Scan(&m.ID, &m.GameID, &m.PlayerID, &m.Mark, &m.Position, &m.CreatedAt); err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// CreateMove appends a move record for a game. Standalone variant of the
// insert ExecuteMove performs inside its transaction.
func CreateMove(ctx context.Context, gameID, playerID uuid.UUID, mark engine.Mark, position int) (*models.Move, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate move id: %w", err)
	}

	q := `INSERT INTO moves (id, game_id, player_id, mark, position)
	      VALUES ($1, $2, $3, $4, $5)
	      RETURNING created_at`

	m := &models.Move{ID: id, GameID: gameID, PlayerID: playerID, Mark: mark, Position: position}
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, id, gameID, playerID, mark, position).Scan(&m.CreatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert move: %w", err)
	}
	return m, nil
}

// GetMovesByGame returns a game's moves ordered by creation time
// ascending, i.e. the order they were played.
func GetMovesByGame(ctx context.Context, gameID uuid.UUID) ([]models.Move, error) {
	q := `SELECT ` + moveColumns + ` FROM moves WHERE game_id=$1 ORDER BY created_at`
	rows, err := DB.Query(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	return scanMoves(rows)
}

// GetMovesByPlayer returns a player's moves newest first with offset/limit
// pagination.
func GetMovesByPlayer(ctx context.Context, playerID uuid.UUID, skip, limit int) ([]models.Move, error) {
	q := `SELECT ` + moveColumns + ` FROM moves WHERE player_id=$1
	      ORDER BY created_at DESC OFFSET $2 LIMIT $3`
	rows, err := DB.Query(ctx, q, playerID, skip, limit)
	if err != nil {
		return nil, err
	}
	return scanMoves(rows)
}

// CountMovesByGame returns the number of moves recorded for a game.
func CountMovesByGame(ctx context.Context, gameID uuid.UUID) (int, error) {
	var count int
	err := DB.QueryRow(ctx, `SELECT COUNT(*) FROM moves WHERE game_id=$1`, gameID).Scan(&count)
	return count, err
}

// DeleteMove removes a single move row. Returns false when no such move
// exists.
func DeleteMove(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `DELETE FROM moves WHERE id=$1`, id)
		if err != nil {
			return err
		}
		deleted = ct.RowsAffected() > 0
		return nil
	})
	return deleted, err
}

// DeleteMovesByGame removes every move of a game and returns how many
// were deleted.
func DeleteMovesByGame(ctx context.Context, gameID uuid.UUID) (int, error) {
	var count int
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `DELETE FROM moves WHERE game_id=$1`, gameID)
		if err != nil {
			return err
		}
		count = int(ct.RowsAffected())
		return nil
	})
	return count, err
}
