package engine

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

var ErrNoLegalMoves = errors.New("no legal moves")

// ScoredMove is a cell together with the aggregated outcome of playing it.
type ScoredMove struct {
	Score int `json:"score"`
	Cell  int `json:"cell"`
}

// ScoreMoves scores every empty cell of the board, in ascending cell order, for the side to move.
//
// A move completing a line scores +1 when toMove is the baseline mark and -1 otherwise.
// Any other move scores the sum of all the replies' scores, or 0 when the board is full after it.
// The baseline never changes during the recursion, only toMove alternates.
func ScoreMoves(board entity.Board, toMove, baseline entity.Mark) []ScoredMove {
	cells := board.EmptyCells()
	moves := make([]ScoredMove, 0, len(cells))

	for _, cell := range cells {
		moves = append(moves, ScoredMove{
			Score: scoreMove(board, cell, toMove, baseline),
			Cell:  cell,
		})
	}

	return moves
}

func scoreMove(board entity.Board, cell int, toMove, baseline entity.Mark) int {
	// cell comes from EmptyCells, the board is a copy
	board[cell] = toMove

	if board.HasLine(toMove) {
		if toMove == baseline {
			return 1
		}
		return -1
	}

	replies := ScoreMoves(board, toMove.Opposite(), baseline)

	sum := 0
	for _, reply := range replies {
		sum += reply.Score
	}

	return sum
}

// BestMove - returns the first move with the highest score.
func BestMove(moves []ScoredMove) (ScoredMove, error) {
	if len(moves) == 0 {
		return ScoredMove{}, ErrNoLegalMoves
	}

	best := moves[0]
	for _, move := range moves[1:] {
		if move.Score > best.Score {
			best = move
		}
	}

	return best, nil
}

// NextMove - chooses the cell the given mark should play on the board.
//
// A move that completes a line is taken first, then a move that stops the opponent from
// completing one. Otherwise the best scored move wins, ties going to the lowest cell.
func NextMove(board entity.Board, mark entity.Mark) (int, error) {
	if err := checkPlayable(board, mark); err != nil {
		return 0, err
	}

	return choose(board, mark, func() ([]ScoredMove, error) {
		return ScoreMoves(board, mark, mark), nil
	})
}

// choose - applies the line checks, the search only runs when neither side can complete a line.
func choose(board entity.Board, mark entity.Mark, score func() ([]ScoredMove, error)) (int, error) {
	if cell, ok := completingCell(board, mark); ok {
		return cell, nil
	}

	if cell, ok := completingCell(board, mark.Opposite()); ok {
		return cell, nil
	}

	moves, err := score()
	if err != nil {
		return 0, err
	}

	best, err := BestMove(moves)
	if err != nil {
		return 0, err
	}

	return best.Cell, nil
}

func checkPlayable(board entity.Board, mark entity.Mark) error {
	if !mark.IsPlayer() {
		return fmt.Errorf("%w: %q", entity.ErrInvalidMark, mark.String())
	}

	if board.HasLine(entity.MarkX) || board.HasLine(entity.MarkO) {
		return apperror.ErrGameFinished
	}

	if board.IsFull() {
		return ErrNoLegalMoves
	}

	return nil
}

// completingCell - returns the lowest empty cell where mark would complete a line.
func completingCell(board entity.Board, mark entity.Mark) (int, bool) {
	for _, cell := range board.EmptyCells() {
		proposal, err := board.Place(cell, mark)
		if err != nil {
			continue
		}

		if proposal.HasLine(mark) {
			return cell, true
		}
	}

	return 0, false
}
