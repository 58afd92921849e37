package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

const (
	PrivateType = "private"
	WithBotType = "bot"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

type Game struct {
	ID      string    `json:"id"`
	Board   Board     `json:"board"`
	Winner  string    `json:"winner"`
	Status  string    `json:"status"`
	Turn    Mark      `json:"player_turn"`
	Players []*Player `json:"players,omitempty"`
	Type    string    `json:"type,omitempty"`
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:     id,
		Board:  Board{},
		Turn:   MarkX,
		Status: StatusWaiting,
		Type:   gameType,
	}
}

func IsKnownType(gameType string) bool {
	return gameType == PrivateType || gameType == WithBotType
}

// DetermineGameResult - returns "X" or "O" for a winner, "-" for a tie and "" while the game continues.
func (that *Game) DetermineGameResult() (string, error) {
	winner, err := that.Board.Winner()
	if err != nil {
		return EmptyCell, fmt.Errorf("failed to determine winner: %w", err)
	}

	if winner != Empty {
		return winner.String(), nil
	}

	// the game will continue until all the squares are full
	if !that.Board.IsFull() {
		return EmptyCell, nil
	}

	return PlayerTie, nil
}

func (that *Game) UpdateGameState() error {
	winner, err := that.DetermineGameResult()
	if err != nil {
		return err
	}

	switch winner {
	// one player wins or tie
	case PlayerX, PlayerO, PlayerTie:
		that.Winner = winner
		that.Status = StatusFinished
		that.Turn = Empty
	// game continue
	default:
		that.Status = StatusOngoing
	}

	return nil
}

func (that *Game) MakeTurn(mark Mark, cell int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	board, err := that.Board.Place(cell, mark)
	if err != nil {
		return err
	}

	that.Board = board
	that.Turn = mark.Opposite()

	return that.UpdateGameState()
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

func (that *Game) BotPlayer() *Player {
	for _, player := range that.Players {
		if player.IsBot() {
			return player
		}
	}

	return nil
}

func (that *Game) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

func (that *Game) GetRandomMarks() (Mark, Mark) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return MarkX, MarkO
	}
	return MarkO, MarkX
}
