package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tictacgo/tictacgo/internal/engine"
)

// Move is an immutable record of one accepted move. Moves form an
// append-only audit log per game, ordered by creation time.
type Move struct {
	ID       uuid.UUID   `json:"id"`
	GameID   uuid.UUID   `json:"game_id"`
	PlayerID uuid.UUID   `json:"player_id"`
	Mark     engine.Mark `json:"player"`
	Position int         `json:"position"`

	CreatedAt time.Time `json:"created_at"`
}
