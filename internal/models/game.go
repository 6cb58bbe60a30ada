package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tictacgo/tictacgo/internal/engine"
)

// Game is one tic-tac-toe game between two (possibly open) player slots.
// Either player reference may be nil, meaning the side is unclaimed.
type Game struct {
	ID          uuid.UUID     `json:"id"`
	PlayerXID   *uuid.UUID    `json:"player_x_id"`
	PlayerOID   *uuid.UUID    `json:"player_o_id"`
	Board       string        `json:"board_state"`
	CurrentMark engine.Mark   `json:"current_player"`
	Status      engine.Status `json:"status"`
	Winner      *engine.Mark  `json:"winner"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameWithMoves is the response shape embedding the ordered move history.
type GameWithMoves struct {
	Game
	Moves []Move `json:"moves"`
}
