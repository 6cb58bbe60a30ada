// internal/database/game.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tictacgo/tictacgo/internal/engine"
	"github.com/tictacgo/tictacgo/internal/game"
	"github.com/tictacgo/tictacgo/internal/models"
)

const gameColumns = `id, player_x_id, player_o_id, board_state, current_mark, status, winner, created_at, updated_at`

func scanGame(row pgx.Row) (*models.Game, error) {
	var g models.Game
	err := row.Scan(&g.ID, &g.PlayerXID, &g.PlayerOID, &g.Board, &g.CurrentMark,
		&g.Status, &g.Winner, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, game.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func scanGames(rows pgx.Rows) ([]models.Game, error) {
	defer rows.Close()
	var games []models.Game
	for rows.Next() {
		var g models.Game
		if err := rows.Scan(&g.ID, &g.PlayerXID, &g.PlayerOID, &g.Board, &g.CurrentMark,
			&g.Status, &g.Winner, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// CreateGame inserts a fresh game: empty board, X to move, status ongoing.
// Either player slot may be nil (open side).
func CreateGame(ctx context.Context, playerXID, playerOID *uuid.UUID) (*models.Game, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game id: %w", err)
	}

	q := `INSERT INTO games (id, player_x_id, player_o_id, board_state, current_mark, status)
	      VALUES ($1, $2, $3, $4, $5, $6)
	      RETURNING ` + gameColumns

	var created *models.Game
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var scanErr error
		created, scanErr = scanGame(tx.QueryRow(ctx, q,
			id, playerXID, playerOID, engine.EmptyBoard, engine.MarkX, engine.StatusOngoing))
		return scanErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert game: %w", err)
	}
	return created, nil
}

func GetGameByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	q := `SELECT ` + gameColumns + ` FROM games WHERE id=$1`
	return scanGame(DB.QueryRow(ctx, q, id))
}

// ListGames returns games ordered by creation time with offset/limit
// pagination.
func ListGames(ctx context.Context, skip, limit int) ([]models.Game, error) {
	q := `SELECT ` + gameColumns + ` FROM games ORDER BY created_at OFFSET $1 LIMIT $2`
	rows, err := DB.Query(ctx, q, skip, limit)
	if err != nil {
		return nil, err
	}
	return scanGames(rows)
}

// ListGamesByStatus filters games on a single lifecycle status.
func ListGamesByStatus(ctx context.Context, status engine.Status, skip, limit int) ([]models.Game, error) {
	q := `SELECT ` + gameColumns + ` FROM games WHERE status=$1 ORDER BY created_at OFFSET $2 LIMIT $3`
	rows, err := DB.Query(ctx, q, status, skip, limit)
	if err != nil {
		return nil, err
	}
	return scanGames(rows)
}

// ListGamesByUser returns games where the user holds either side.
func ListGamesByUser(ctx context.Context, userID uuid.UUID, skip, limit int) ([]models.Game, error) {
	q := `SELECT ` + gameColumns + ` FROM games
	      WHERE player_x_id=$1 OR player_o_id=$1
	      ORDER BY created_at OFFSET $2 LIMIT $3`
	rows, err := DB.Query(ctx, q, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	return scanGames(rows)
}

// DeleteGame removes a game and its move history in one transaction.
// Returns false when the game does not exist.
func DeleteGame(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM moves WHERE game_id=$1`, id); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `DELETE FROM games WHERE id=$1`, id)
		if err != nil {
			return err
		}
		deleted = ct.RowsAffected() > 0
		return nil
	})
	return deleted, err
}

// DeleteCompletedGames bulk-removes every won or drawn game together with
// their moves and returns how many games were deleted. Ongoing games are
// untouched.
func DeleteCompletedGames(ctx context.Context) (int, error) {
	var count int
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `DELETE FROM moves WHERE game_id IN
		      (SELECT id FROM games WHERE status='won' OR status='draw')`
		if _, err := tx.Exec(ctx, q); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `DELETE FROM games WHERE status='won' OR status='draw'`)
		if err != nil {
			return err
		}
		count = int(ct.RowsAffected())
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete completed games: %w", err)
	}
	return count, nil
}
