package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/engine"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

type GameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)

	GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)

	Hint(ctx context.Context, board entity.Board) (*Hint, error)
}

// Hint is the engine's answer for a board that is not bound to any stored game.
type Hint struct {
	Mark  entity.Mark         `json:"mark"`
	Cell  int                 `json:"cell"`
	Moves []engine.ScoredMove `json:"moves"`
}

type playerService interface {
	CreatePlayer(ctx context.Context) (*entity.Player, error)
	GetPlayerByID(ctx context.Context, id string) (*entity.Player, error)
}

type gamePlayService interface {
	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetOrCreateGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, error)
	GetGameState(ctx context.Context, player *entity.Player) (*entity.Game, error)
	CleanupGame(ctx context.Context, game *entity.Game)
}

type searchEngine interface {
	Score(ctx context.Context, board entity.Board, mark entity.Mark) ([]engine.ScoredMove, error)
	NextMove(ctx context.Context, board entity.Board, mark entity.Mark) (int, error)
}

type gameUseCase struct {
	playerService   playerService
	gamePlayService gamePlayService
	engine          searchEngine
}

func NewGameUseCase(playerService playerService, gamePlayService gamePlayService, engine searchEngine) GameUseCase {
	return &gameUseCase{
		playerService:   playerService,
		gamePlayService: gamePlayService,
		engine:          engine,
	}
}

// GetOrCreatePlayer - an empty or unknown playerID gets a new player.
func (that *gameUseCase) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	if playerID == "" {
		player, err := that.playerService.CreatePlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not create player: %w", err)
		}

		return player, nil
	}

	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if errors.Is(err, apperror.ErrNotFound) {
		return that.GetOrCreatePlayer(ctx, "")
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

func (that *gameUseCase) GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	game, err := that.gamePlayService.GetOrCreateGame(ctx, player, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	game, err := that.gamePlayService.GetGameState(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.JoinGameByID(ctx, gameID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to game: %w", err)
	}

	return game, nil
}

// MakeTurn - applies the player's turn (and the bot's answer), a finished game is removed from storage.
func (that *gameUseCase) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	game, err := that.gamePlayService.MakeTurn(ctx, playerID, cell)
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if game.IsFinished() {
		that.gamePlayService.CleanupGame(ctx, game)
	}

	return game, nil
}

// Hint - scores the board for the side to move and returns the engine's choice.
func (that *gameUseCase) Hint(ctx context.Context, board entity.Board) (*Hint, error) {
	if err := board.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate board: %w", err)
	}

	mark := board.NextMark()

	cell, err := that.engine.NextMove(ctx, board, mark)
	if err != nil {
		return nil, fmt.Errorf("failed to choose move: %w", err)
	}

	moves, err := that.engine.Score(ctx, board, mark)
	if err != nil {
		return nil, fmt.Errorf("failed to score moves: %w", err)
	}

	return &Hint{
		Mark:  mark,
		Cell:  cell,
		Moves: moves,
	}, nil
}
