package entity

import (
	"errors"
	"fmt"
)

var ErrInvalidMark = errors.New("invalid mark")

// Mark is the content of a single board cell.
type Mark uint8

const (
	Empty Mark = iota
	MarkX
	MarkO
)

func (that Mark) String() string {
	switch that {
	case MarkX:
		return PlayerX
	case MarkO:
		return PlayerO
	default:
		return EmptyCell
	}
}

// Opposite returns the mark of the other side. Empty stays Empty.
func (that Mark) Opposite() Mark {
	switch that {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return Empty
	}
}

func (that Mark) IsPlayer() bool {
	return that == MarkX || that == MarkO
}

func (that Mark) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Mark) UnmarshalText(text []byte) error {
	mark, err := ParseMark(string(text))
	if err != nil {
		return err
	}

	*that = mark

	return nil
}

// ParseMark - converts "X", "O" or "" into a Mark.
func ParseMark(value string) (Mark, error) {
	switch value {
	case PlayerX, "x":
		return MarkX, nil
	case PlayerO, "o":
		return MarkO, nil
	case EmptyCell, "_", ".":
		return Empty, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrInvalidMark, value)
	}
}
