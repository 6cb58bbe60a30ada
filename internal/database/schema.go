// internal/database/schema.go
package database

import (
	"context"
	"fmt"
)

// InitSchema creates the tables the service needs if they do not exist.
// moves.game_id cascades so deleting a game always takes its move history
// with it; ExecuteMove and DeleteGame additionally manage the rows inside
// explicit transactions.
func InitSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS games (
			id UUID PRIMARY KEY,
			player_x_id UUID REFERENCES users(id),
			player_o_id UUID REFERENCES users(id),
			board_state VARCHAR(9) NOT NULL DEFAULT '---------',
			current_mark VARCHAR(1) NOT NULL DEFAULT 'X',
			status VARCHAR(20) NOT NULL DEFAULT 'ongoing',
			winner VARCHAR(1),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS moves (
			id UUID PRIMARY KEY,
			game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			player_id UUID NOT NULL REFERENCES users(id),
			mark VARCHAR(1) NOT NULL,
			position INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id)`,
		`CREATE INDEX IF NOT EXISTS idx_games_status ON games(status)`,
		`CREATE TABLE IF NOT EXISTS move_events (
			id BIGSERIAL PRIMARY KEY,
			game_id UUID NOT NULL,
			actor_user_id UUID NOT NULL,
			mark VARCHAR(1) NOT NULL,
			position INT NOT NULL,
			move_index INT NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, q := range stmts {
		if _, err := DB.Exec(ctx, q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
