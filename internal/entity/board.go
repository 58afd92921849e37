package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
)

const BoardSize = 9

var (
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrInvalidBoard = errors.New("invalid board")
	ErrBothMarksWin = errors.New("both marks have a complete line")

	// Lines are ordered rows, columns, diagonals.
	Lines = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Board is the 3x3 grid, cell index = col + row*3.
// It is a value type: copying a Board copies every cell.
type Board [BoardSize]Mark

// CellIndex - converts a row and a column into a cell index.
func CellIndex(row, col int) (int, error) {
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return 0, fmt.Errorf("%w: row %d col %d", ErrInvalidCell, row, col)
	}

	return col + row*3, nil
}

// ParseBoard - reads a board from a 9 character string like "XX_OO____".
func ParseBoard(value string) (Board, error) {
	var board Board

	value = strings.NewReplacer(" ", "", "\n", "", "|", "", "/", "").Replace(value)
	if len(value) != BoardSize {
		return board, fmt.Errorf("%w: expected %d cells, got %d", ErrInvalidBoard, BoardSize, len(value))
	}

	for i, r := range value {
		mark, err := ParseMark(string(r))
		if err != nil {
			return board, fmt.Errorf("%w: cell %d", err, i)
		}
		board[i] = mark
	}

	return board, nil
}

// EmptyCells - returns the empty cell indices in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == Empty {
			cells = append(cells, i)
		}
	}

	return cells
}

// Place - returns a copy of the board with the mark put into the cell.
func (that Board) Place(cell int, mark Mark) (Board, error) {
	if cell < 0 || cell >= BoardSize {
		return that, fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if !mark.IsPlayer() {
		return that, fmt.Errorf("%w: cannot place %q", ErrInvalidMark, mark.String())
	}

	if that[cell] != Empty {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that[cell] = mark

	return that, nil
}

func (that Board) HasLine(mark Mark) bool {
	if !mark.IsPlayer() {
		return false
	}

	for _, line := range Lines {
		if that[line[0]] == mark && that[line[1]] == mark && that[line[2]] == mark {
			return true
		}
	}

	return false
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

func (that Board) IsTerminal() bool {
	return that.IsFull() || that.HasLine(MarkX) || that.HasLine(MarkO)
}

// Winner - returns the mark owning a complete line, or Empty when there is none.
func (that Board) Winner() (Mark, error) {
	xWins, oWins := that.HasLine(MarkX), that.HasLine(MarkO)

	switch {
	case xWins && oWins:
		return Empty, ErrBothMarksWin
	case xWins:
		return MarkX, nil
	case oWins:
		return MarkO, nil
	default:
		return Empty, nil
	}
}

func (that Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}

	return count
}

// NextMark - X moves whenever both marks have been placed equally often.
func (that Board) NextMark() Mark {
	if that.Count(MarkX) > that.Count(MarkO) {
		return MarkO
	}

	return MarkX
}

// Validate - checks that the board could have been reached by alternating turns starting with X.
func (that Board) Validate() error {
	xCount, oCount := that.Count(MarkX), that.Count(MarkO)
	if xCount != oCount && xCount != oCount+1 {
		return fmt.Errorf("%w: %d X against %d O", ErrInvalidBoard, xCount, oCount)
	}

	if _, err := that.Winner(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}

	return nil
}

// String - renders the board as 9 characters, "_" for empty cells.
func (that Board) String() string {
	var sb strings.Builder
	for _, cell := range that {
		if cell == Empty {
			sb.WriteByte('_')
			continue
		}
		sb.WriteString(cell.String())
	}

	return sb.String()
}
