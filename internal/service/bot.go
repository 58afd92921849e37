package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

var ErrBotNotFound = errors.New("bot player not found")

type BotService interface {
	MakeTurn(ctx context.Context, game *entity.Game) error
}

type moveChooser interface {
	NextMove(ctx context.Context, board entity.Board, mark entity.Mark) (int, error)
}

type botService struct {
	logger *slog.Logger
	engine moveChooser
}

func NewBotService(logger *slog.Logger, engine moveChooser) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
		engine: engine,
	}
}

func (that *botService) MakeTurn(ctx context.Context, game *entity.Game) error {
	log := that.logger.With("method", "MakeTurn", "gameID", game.ID)

	botPlayer := game.BotPlayer()
	if botPlayer == nil {
		return ErrBotNotFound
	}

	if err := game.ConfirmOngoingState(); err != nil {
		return fmt.Errorf("bot can't move: %w", err)
	}

	cell, err := that.engine.NextMove(ctx, game.Board, botPlayer.Mark)
	if err != nil {
		return fmt.Errorf("failed to choose bot move: %w", err)
	}

	if err = game.MakeTurn(botPlayer.Mark, cell); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	log.Info("bot made turn", "cell", cell, "mark", botPlayer.Mark.String())

	return nil
}
