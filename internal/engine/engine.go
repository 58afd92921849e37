package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

// Engine is the automated player. It keeps no state between calls.
type Engine struct {
	logger   *slog.Logger
	parallel bool
}

func New(logger *slog.Logger, parallel bool) *Engine {
	return &Engine{
		logger:   logger.With("component", "engine"),
		parallel: parallel,
	}
}

// Score - returns the scored moves for mark on the board.
func (that *Engine) Score(ctx context.Context, board entity.Board, mark entity.Mark) ([]ScoredMove, error) {
	if err := checkPlayable(board, mark); err != nil {
		return nil, err
	}

	return that.score(ctx, board, mark)
}

func (that *Engine) score(ctx context.Context, board entity.Board, mark entity.Mark) ([]ScoredMove, error) {
	if !that.parallel {
		return ScoreMoves(board, mark, mark), nil
	}

	moves, err := ScoreMovesConcurrent(ctx, board, mark)
	if err != nil {
		return nil, fmt.Errorf("failed to score moves: %w", err)
	}

	return moves, nil
}

// NextMove - picks the cell for mark and logs the moves that were considered.
func (that *Engine) NextMove(ctx context.Context, board entity.Board, mark entity.Mark) (int, error) {
	log := that.logger.With("method", "NextMove", "board", board.String(), "mark", mark.String())

	if err := checkPlayable(board, mark); err != nil {
		return 0, err
	}

	cell, err := choose(board, mark, func() ([]ScoredMove, error) {
		moves, err := that.score(ctx, board, mark)
		if err != nil {
			return nil, err
		}

		log.Debug("available moves", "moves", moves)

		return moves, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to choose move: %w", err)
	}

	log.Debug("move chosen", "cell", cell)

	return cell, nil
}
