package entity

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_HasLine(t *testing.T) {
	for _, line := range Lines {
		for _, mark := range []Mark{MarkX, MarkO} {
			// Given: a board with a single line filled by the mark
			var board Board
			for _, cell := range line {
				board[cell] = mark
			}

			// Then: only that mark has a line
			assert.True(t, board.HasLine(mark), "line %v mark %s", line, mark)
			assert.False(t, board.HasLine(mark.Opposite()), "line %v mark %s", line, mark)
		}
	}

	t.Run("Empty never has a line", func(t *testing.T) {
		assert.False(t, Board{}.HasLine(Empty))
	})

	t.Run("Two of three is not a line", func(t *testing.T) {
		board := mustBoard(t, "XX_OO____")

		assert.False(t, board.HasLine(MarkX))
		assert.False(t, board.HasLine(MarkO))
	})
}

func TestBoard_FullWithoutLineIsDraw(t *testing.T) {
	// Given: a full board without any line
	board := mustBoard(t, "XOXXOOOXX")

	// Then: it is full and nobody has a line
	assert.True(t, board.IsFull())
	assert.True(t, board.IsTerminal())
	assert.False(t, board.HasLine(MarkX))
	assert.False(t, board.HasLine(MarkO))

	winner, err := board.Winner()
	require.NoError(t, err)
	assert.Equal(t, Empty, winner)
}

func TestBoard_EmptyCells(t *testing.T) {
	t.Run("Ascending order", func(t *testing.T) {
		board := mustBoard(t, "_X_O_X_O_")

		assert.Equal(t, []int{0, 2, 4, 6, 8}, board.EmptyCells())
	})

	t.Run("Full board has no empty cells", func(t *testing.T) {
		board := mustBoard(t, "XOXXOOOXX")

		assert.Empty(t, board.EmptyCells())
	})

	t.Run("Fresh board", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, Board{}.EmptyCells())
	})
}

func TestBoard_Place(t *testing.T) {
	t.Run("Returns a new board and keeps the receiver", func(t *testing.T) {
		// Given: an empty board
		board := Board{}

		// When: X is placed in the center
		next, err := board.Place(4, MarkX)

		// Then: only the copy changes
		require.NoError(t, err)
		assert.Equal(t, MarkX, next[4])
		assert.Equal(t, Empty, board[4])
	})

	t.Run("Occupied cell", func(t *testing.T) {
		board := mustBoard(t, "X________")

		_, err := board.Place(0, MarkO)

		assert.ErrorIs(t, err, apperror.ErrCellOccupied)
	})

	t.Run("Out of range cell", func(t *testing.T) {
		for _, cell := range []int{-1, 9, 42} {
			_, err := Board{}.Place(cell, MarkX)

			assert.ErrorIs(t, err, ErrInvalidCell, "cell %d", cell)
		}
	})

	t.Run("Empty mark", func(t *testing.T) {
		_, err := Board{}.Place(0, Empty)

		assert.ErrorIs(t, err, ErrInvalidMark)
	})
}

func TestBoard_Winner(t *testing.T) {
	testCases := []struct {
		board    string
		expected Mark
	}{
		{board: "X__X__X__", expected: MarkX},
		{board: "__O_O_O__", expected: MarkO},
		{board: "XO_XO____", expected: Empty},
	}

	for _, tc := range testCases {
		t.Run(tc.board, func(t *testing.T) {
			winner, err := mustBoard(t, tc.board).Winner()

			require.NoError(t, err)
			assert.Equal(t, tc.expected, winner)
		})
	}

	t.Run("Both marks", func(t *testing.T) {
		_, err := mustBoard(t, "XXX___OOO").Winner()

		assert.ErrorIs(t, err, ErrBothMarksWin)
	})
}

func TestBoard_NextMarkAndValidate(t *testing.T) {
	assert.Equal(t, MarkX, Board{}.NextMark())
	assert.Equal(t, MarkO, mustBoard(t, "X________").NextMark())
	assert.Equal(t, MarkX, mustBoard(t, "XO_______").NextMark())

	require.NoError(t, mustBoard(t, "XX_OO____").Validate())
	assert.ErrorIs(t, mustBoard(t, "XXX______").Validate(), ErrInvalidBoard)
	assert.ErrorIs(t, mustBoard(t, "O________").Validate(), ErrInvalidBoard)
	assert.ErrorIs(t, mustBoard(t, "XXXOOO_X_").Validate(), ErrInvalidBoard)
}

func TestParseBoard(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		board, err := ParseBoard("XX_|OO_|___")

		require.NoError(t, err)
		assert.Equal(t, Board{MarkX, MarkX, Empty, MarkO, MarkO}, board)
		assert.Equal(t, "XX_OO____", board.String())
	})

	t.Run("Wrong length", func(t *testing.T) {
		_, err := ParseBoard("XX")

		assert.ErrorIs(t, err, ErrInvalidBoard)
	})

	t.Run("Unknown mark", func(t *testing.T) {
		_, err := ParseBoard("XX_OO___Z")

		assert.ErrorIs(t, err, ErrInvalidMark)
	})
}

func TestCellIndex(t *testing.T) {
	cell, err := CellIndex(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, cell)

	_, err = CellIndex(3, 0)
	assert.ErrorIs(t, err, ErrInvalidCell)
}
