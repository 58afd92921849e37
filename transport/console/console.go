package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/pkg"
)

const consolePlayerID = "console"

var (
	ErrQuit       = errors.New("player quit")
	ErrBadCommand = errors.New("enter a cell 0-8, a row and a column, or q")
)

type moveChooser interface {
	NextMove(ctx context.Context, board entity.Board, mark entity.Mark) (int, error)
}

// Console plays one game between a terminal user and the engine.
type Console struct {
	logger *slog.Logger
	engine moveChooser

	in  *bufio.Scanner
	out *termenv.Output
}

func New(logger *slog.Logger, engine moveChooser, in io.Reader, out io.Writer, opts ...termenv.OutputOption) *Console {
	return &Console{
		logger: logger.With("component", "console"),
		engine: engine,
		in:     bufio.NewScanner(in),
		out:    termenv.NewOutput(out, opts...),
	}
}

// Play - runs a game where the user holds human, the engine plays the other mark.
func (that *Console) Play(ctx context.Context, human entity.Mark) (*entity.Game, error) {
	log := that.logger.With("method", "Play", "human", human.String())

	if !human.IsPlayer() {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidMark, human.String())
	}

	game := entity.NewGame(pkg.GenerateGameID(), entity.WithBotType)
	game.Status = entity.StatusOngoing
	game.Players = []*entity.Player{
		{ID: consolePlayerID, Mark: human, GameID: game.ID},
		entity.NewBotPlayer(game.ID, human.Opposite()),
	}

	log.Debug("game started", "gameID", game.ID)

	for !game.IsFinished() {
		if game.Turn != human {
			cell, err := that.engine.NextMove(ctx, game.Board, game.Turn)
			if err != nil {
				return game, fmt.Errorf("engine failed to choose move: %w", err)
			}

			if err = game.MakeTurn(game.Turn, cell); err != nil {
				return game, fmt.Errorf("engine failed to make turn: %w", err)
			}

			that.printf("bot plays %d\n", cell)

			continue
		}

		that.render(game.Board)

		cell, err := that.readCell(game.Board, human)
		if err != nil {
			return game, err
		}

		if err = game.MakeTurn(human, cell); err != nil {
			return game, fmt.Errorf("failed to make turn: %w", err)
		}
	}

	that.render(game.Board)
	that.announce(game, human)

	log.Debug("game finished", "winner", game.Winner)

	return game, nil
}

// readCell - prompts until the user enters a free cell or quits.
func (that *Console) readCell(board entity.Board, human entity.Mark) (int, error) {
	for {
		that.printf("%s to move > ", that.mark(human))

		if !that.in.Scan() {
			if err := that.in.Err(); err != nil {
				return 0, fmt.Errorf("failed to read input: %w", err)
			}

			return 0, ErrQuit
		}

		cell, err := parseCell(that.in.Text())
		if errors.Is(err, ErrQuit) {
			return 0, ErrQuit
		}

		if err != nil {
			that.printf("%v\n", err)
			continue
		}

		if _, err = board.Place(cell, human); err != nil {
			that.printf("%v\n", err)
			continue
		}

		return cell, nil
	}
}

// parseCell - accepts "4", "1 1" (row and column) or "q".
func parseCell(line string) (int, error) {
	fields := strings.Fields(strings.ToLower(line))

	switch len(fields) {
	case 1:
		if fields[0] == "q" || fields[0] == "quit" {
			return 0, ErrQuit
		}

		cell, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, ErrBadCommand
		}

		return cell, nil
	case 2:
		row, rowErr := strconv.Atoi(fields[0])
		col, colErr := strconv.Atoi(fields[1])
		if rowErr != nil || colErr != nil {
			return 0, ErrBadCommand
		}

		return entity.CellIndex(row, col)
	default:
		return 0, ErrBadCommand
	}
}

func (that *Console) render(board entity.Board) {
	var sb strings.Builder

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			cell := col + row*3
			sb.WriteString(" " + that.cell(board, cell) + " ")
			if col < 2 {
				sb.WriteString("|")
			}
		}

		sb.WriteString("\n")
		if row < 2 {
			sb.WriteString("---+---+---\n")
		}
	}

	that.printf("%s", sb.String())
}

func (that *Console) cell(board entity.Board, cell int) string {
	if board[cell] == entity.Empty {
		return that.out.String(strconv.Itoa(cell)).Faint().String()
	}

	return that.mark(board[cell])
}

func (that *Console) mark(mark entity.Mark) string {
	color := "4"
	if mark == entity.MarkX {
		color = "1"
	}

	return that.out.String(mark.String()).Foreground(that.out.Color(color)).Bold().String()
}

func (that *Console) announce(game *entity.Game, human entity.Mark) {
	switch game.Winner {
	case human.String():
		that.printf("%s\n", that.out.String("you win").Bold())
	case entity.PlayerTie:
		that.printf("draw\n")
	default:
		that.printf("%s\n", that.out.String("bot wins").Bold())
	}
}

func (that *Console) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
