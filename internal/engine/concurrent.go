package engine

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"golang.org/x/sync/errgroup"
)

// ScoreMovesConcurrent - same result as ScoreMoves(board, mark, mark), every top-level move is scored in its own goroutine.
func ScoreMovesConcurrent(ctx context.Context, board entity.Board, mark entity.Mark) ([]ScoredMove, error) {
	cells := board.EmptyCells()
	moves := make([]ScoredMove, len(cells))

	group, ctx := errgroup.WithContext(ctx)
	for i, cell := range cells {
		i, cell := i, cell
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("scoring cell %d: %w", cell, err)
			}

			moves[i] = ScoredMove{
				Score: scoreMove(board, cell, mark, mark),
				Cell:  cell,
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return moves, nil
}
