// internal/handlers/game.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/tictacgo/tictacgo/internal/cache"
	"github.com/tictacgo/tictacgo/internal/database"
	"github.com/tictacgo/tictacgo/internal/engine"
	"github.com/tictacgo/tictacgo/internal/game"
	"github.com/tictacgo/tictacgo/internal/models"
)

type createGameRequest struct {
	PlayerXID *uuid.UUID `json:"player_x_id"`
	PlayerOID *uuid.UUID `json:"player_o_id"`
}

type moveResponse struct {
	models.GameWithMoves
	Status  string `json:"status_result"`
	Winner  string `json:"winner_result,omitempty"`
	Message string `json:"message"`
}

type boardResponse struct {
	Board string       `json:"board_state"`
	Rows  [3][3]string `json:"rows"`
}

// GamesHandler serves the /games collection: POST creates a game, GET
// lists games (optional status filter) with their move histories.
func GamesHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		handleCreateGame(w, r, actorID)
	case http.MethodGet:
		handleListGames(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GamesSubtreeHandler routes everything under /games/: the bulk-cleanup
// and my-games routes, then per-game fetch, board view, move, and delete.
func GamesSubtreeHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/games/")
	switch {
	case rest == "completed/all" && r.Method == http.MethodDelete:
		handleDeleteCompleted(w, r)
		return
	case rest == "user/me" && r.Method == http.MethodGet:
		handleMyGames(w, r, actorID)
		return
	}

	segments := strings.Split(rest, "/")
	gameID, err := uuid.Parse(segments[0])
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	switch {
	case len(segments) == 1 && r.Method == http.MethodGet:
		handleGetGame(w, r, gameID)
	case len(segments) == 1 && r.Method == http.MethodDelete:
		handleDeleteGame(w, r, gameID)
	case len(segments) == 2 && segments[1] == "board" && r.Method == http.MethodGet:
		handleGetBoard(w, r, gameID)
	case len(segments) == 3 && segments[1] == "move" && r.Method == http.MethodPut:
		handleMakeMove(w, r, gameID, segments[2], actorID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// handleCreateGame starts a new game. The X side defaults to the actor
// when no player is named; either side may stay open.
func handleCreateGame(w http.ResponseWriter, r *http.Request, actorID uuid.UUID) {
	var req createGameRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
	}

	playerX := req.PlayerXID
	if playerX == nil {
		playerX = &actorID
	}

	g, err := database.CreateGame(r.Context(), playerX, req.PlayerOID)
	if err != nil {
		log.Errorf("failed to create game: %v", err)
		http.Error(w, "error creating game", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func handleListGames(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}

	var (
		games []models.Game
		err   error
	)
	switch status := r.URL.Query().Get("status"); status {
	case "":
		games, err = database.ListGames(r.Context(), skip, limit)
	case "ongoing", "won", "draw":
		games, err = database.ListGamesByStatus(r.Context(), engine.Status(status), skip, limit)
	default:
		http.Error(w, "status must be one of ongoing, won, draw", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("failed to list games: %v", err)
		http.Error(w, "error listing games", http.StatusInternalServerError)
		return
	}

	resp, err := withMoveHistories(r.Context(), games)
	if err != nil {
		log.Errorf("failed to fetch move histories: %v", err)
		http.Error(w, "error listing games", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleMyGames(w http.ResponseWriter, r *http.Request, actorID uuid.UUID) {
	skip, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}

	games, err := database.ListGamesByUser(r.Context(), actorID, skip, limit)
	if err != nil {
		log.Errorf("failed to list games for user %v: %v", actorID, err)
		http.Error(w, "error listing games", http.StatusInternalServerError)
		return
	}

	resp, err := withMoveHistories(r.Context(), games)
	if err != nil {
		log.Errorf("failed to fetch move histories: %v", err)
		http.Error(w, "error listing games", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleGetGame(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
	g, err := database.GetGameByID(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, game.ErrGameNotFound) {
			http.Error(w, fmt.Sprintf("game %s not found", gameID), http.StatusNotFound)
			return
		}
		http.Error(w, "error fetching game", http.StatusInternalServerError)
		return
	}

	moves, err := database.GetMovesByGame(r.Context(), gameID)
	if err != nil {
		http.Error(w, "error fetching moves", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, models.GameWithMoves{Game: *g, Moves: moves})
}

func handleGetBoard(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
	g, err := database.GetGameByID(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, game.ErrGameNotFound) {
			http.Error(w, fmt.Sprintf("game %s not found", gameID), http.StatusNotFound)
			return
		}
		http.Error(w, "error fetching game", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, boardResponse{Board: g.Board, Rows: engine.DisplayRows(g.Board)})
}

func handleMakeMove(w http.ResponseWriter, r *http.Request, gameID uuid.UUID, posSegment string, actorID uuid.UUID) {
	position, err := strconv.Atoi(posSegment)
	if err != nil || position < 1 || position > 9 {
		http.Error(w, "position must be between 1 and 9", http.StatusBadRequest)
		return
	}

	result, err := database.ExecuteMove(r.Context(), gameID, position, actorID)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrGameNotFound):
			http.Error(w, fmt.Sprintf("game %s not found", gameID), http.StatusNotFound)
		case errors.Is(err, game.ErrGameFinished),
			errors.Is(err, game.ErrWrongTurn),
			errors.Is(err, engine.ErrIllegalMove):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("failed to execute move on game %v: %v", gameID, err)
			http.Error(w, "error executing move", http.StatusInternalServerError)
		}
		return
	}

	moves, err := database.GetMovesByGame(r.Context(), gameID)
	if err != nil {
		http.Error(w, "error fetching moves", http.StatusInternalServerError)
		return
	}

	publishMoveEvent(r.Context(), result, len(moves))

	writeJSON(w, http.StatusOK, moveResponse{
		GameWithMoves: models.GameWithMoves{Game: *result.Game, Moves: moves},
		Status:        result.Status,
		Winner:        result.Winner,
		Message:       result.Message,
	})
}

func handleDeleteGame(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
	deleted, err := database.DeleteGame(r.Context(), gameID)
	if err != nil {
		log.Errorf("failed to delete game %v: %v", gameID, err)
		http.Error(w, "error deleting game", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, fmt.Sprintf("game %s not found", gameID), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleDeleteCompleted(w http.ResponseWriter, r *http.Request) {
	count, err := database.DeleteCompletedGames(r.Context())
	if err != nil {
		log.Errorf("failed to delete completed games: %v", err)
		http.Error(w, "error deleting completed games", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted_count": count,
		"message":       fmt.Sprintf("Deleted %d completed game(s)", count),
	})
}

// withMoveHistories attaches each game's ordered move list.
func withMoveHistories(ctx context.Context, games []models.Game) ([]models.GameWithMoves, error) {
	resp := make([]models.GameWithMoves, 0, len(games))
	for _, g := range games {
		moves, err := database.GetMovesByGame(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, models.GameWithMoves{Game: g, Moves: moves})
	}
	return resp, nil
}

// publishMoveEvent pushes an audit record for the reaper. Best effort: the
// move is already committed, so a queue failure only logs.
func publishMoveEvent(ctx context.Context, result *database.MoveResult, moveIndex int) {
	if cache.Rdb == nil {
		return
	}
	record := cache.MoveEventRecord{
		GameID:      result.Game.ID,
		ActorUserID: result.Move.PlayerID,
		Mark:        string(result.Move.Mark),
		Position:    result.Move.Position,
		MoveIndex:   moveIndex,
		Timestamp:   time.Now().UnixMilli(),
	}
	if err := cache.PublishMoveEvent(ctx, record); err != nil {
		log.Warnf("failed to publish move event for game %v: %v", result.Game.ID, err)
	}
}
