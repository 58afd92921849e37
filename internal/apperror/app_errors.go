package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrNoActiveGames     = errors.New("no active games")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrGameAlreadyExists = errors.New("player already has an active game")
	ErrGameIsFull        = errors.New("game already has two players")
	ErrNotFound          = errors.New("not found")
	ErrUnknownGameType   = errors.New("unknown game type")
)
