// internal/game/errors.go
package game

import "errors"

var (
	// ErrGameFinished indicates a move on a game whose status is no
	// longer ongoing.
	ErrGameFinished = errors.New("game is already finished")

	// ErrWrongTurn indicates the actor does not own the side whose turn
	// it is.
	ErrWrongTurn = errors.New("it's not your turn")

	// ErrGameNotFound indicates the referenced game does not exist.
	ErrGameNotFound = errors.New("game not found")
)
