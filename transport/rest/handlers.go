package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/engine"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/usecase"
)

type Handlers interface {
	Ping(w http.ResponseWriter, _ *http.Request)

	CreateGame(w http.ResponseWriter, r *http.Request)
	GetGame(w http.ResponseWriter, r *http.Request)
	JoinGame(w http.ResponseWriter, r *http.Request)
	MakeTurn(w http.ResponseWriter, r *http.Request)

	Hint(w http.ResponseWriter, r *http.Request)
}

type gameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)
	GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	Hint(ctx context.Context, board entity.Board) (*usecase.Hint, error)
}

type gameRequest struct {
	PlayerID string `json:"player_id"`
	Type     string `json:"type"`
}

type turnRequest struct {
	PlayerID string `json:"player_id"`
	Cell     *int   `json:"cell"`
}

type hintRequest struct {
	Board string `json:"board"`
}

type gameResponse struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *entity.Game   `json:"game,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
}

func NewHandlers(logger *slog.Logger, gameUseCase gameUseCase) Handlers {
	return &handlers{
		logger:      logger.With("component", "rest"),
		gameUseCase: gameUseCase,
	}
}

func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

// CreateGame - creates a player when player_id is empty and returns the player's game.
func (that *handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "CreateGame")

	var req gameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	if req.Type == "" {
		req.Type = entity.WithBotType
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(r.Context(), req.PlayerID)
	if err != nil {
		log.Error("failed to get or create player", "error", err)
		that.writeUseCaseError(w, err)
		return
	}

	game, err := that.gameUseCase.GetOrCreateGame(r.Context(), player.ID, req.Type)
	if err != nil {
		log.Error("failed to get or create game", "playerID", player.ID, "error", err)
		that.writeUseCaseError(w, err)
		return
	}

	log.Info("game ready", "playerID", player.ID, "gameID", game.ID)

	that.writeJSON(w, http.StatusCreated, gameResponse{Player: playerOf(game, player), Game: game})
}

// GetGame - returns the game the player is in, the path id must match it.
func (that *handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")

	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		that.writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}

	game, err := that.gameUseCase.GetGameByPlayerID(r.Context(), playerID)
	if err != nil {
		that.writeUseCaseError(w, err)
		return
	}

	if game.ID != gameID {
		that.writeError(w, http.StatusNotFound, apperror.ErrNotFound.Error())
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *handlers) JoinGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "JoinGame")

	var req gameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(r.Context(), req.PlayerID)
	if err != nil {
		that.writeUseCaseError(w, err)
		return
	}

	game, err := that.gameUseCase.JoinGame(r.Context(), chi.URLParam(r, "id"), player.ID)
	if err != nil {
		log.Error("failed to join game", "playerID", player.ID, "error", err)
		that.writeUseCaseError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Player: playerOf(game, player), Game: game})
}

func (that *handlers) MakeTurn(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "MakeTurn")

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	if req.PlayerID == "" || req.Cell == nil {
		that.writeError(w, http.StatusBadRequest, "player_id and cell are required")
		return
	}

	// the path must name the player's current game before anything is stored
	current, err := that.gameUseCase.GetGameByPlayerID(r.Context(), req.PlayerID)
	if err != nil {
		that.writeUseCaseError(w, err)
		return
	}

	if current.ID != chi.URLParam(r, "id") {
		that.writeError(w, http.StatusNotFound, apperror.ErrNotFound.Error())
		return
	}

	game, err := that.gameUseCase.MakeTurn(r.Context(), req.PlayerID, *req.Cell)
	if err != nil {
		log.Error("failed to make turn", "playerID", req.PlayerID, "cell", *req.Cell, "error", err)
		that.writeUseCaseError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

// Hint - asks the engine for the next move on an arbitrary board.
func (that *handlers) Hint(w http.ResponseWriter, r *http.Request) {
	var req hintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	board, err := entity.ParseBoard(req.Board)
	if err != nil {
		that.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hint, err := that.gameUseCase.Hint(r.Context(), board)
	if err != nil {
		that.writeUseCaseError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, hint)
}

func (that *handlers) writeUseCaseError(w http.ResponseWriter, err error) {
	that.writeError(w, statusOf(err), err.Error())
}

func (that *handlers) writeError(w http.ResponseWriter, status int, message string) {
	that.writeJSON(w, status, errorResponse{Error: message})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound), errors.Is(err, apperror.ErrNoActiveGames):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrGameIsFull),
		errors.Is(err, apperror.ErrGameAlreadyExists),
		errors.Is(err, apperror.ErrGameIsNotStarted),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, engine.ErrNoLegalMoves):
		return http.StatusConflict
	case errors.Is(err, entity.ErrInvalidCell),
		errors.Is(err, entity.ErrInvalidMark),
		errors.Is(err, entity.ErrInvalidBoard),
		errors.Is(err, entity.ErrBothMarksWin),
		errors.Is(err, apperror.ErrUnknownGameType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// playerOf - returns the stored copy of the player from the game, it carries the assigned mark.
func playerOf(game *entity.Game, player *entity.Player) *entity.Player {
	if found := game.PlayerByID(player.ID); found != nil {
		return found
	}

	return player
}
