package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-bot/internal/config"
	"github.com/rocketscienceinc/tictactoe-bot/internal/engine"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/transport/console"
)

func main() {
	configPath := flag.String("config", "./config.yml", "path to the config file")
	markFlag := flag.String("mark", "", "your mark, X or O (random when empty)")
	flag.Parse()

	conf, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// the board owns stdout, logs go to stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: conf.SlogLevel()}))

	human, err := entity.ParseMark(*markFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse mark: %v\n", err)
		os.Exit(1)
	}

	if human == entity.Empty {
		human, _ = (&entity.Game{}).GetRandomMarks()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	eng := engine.New(logger, conf.Engine.Parallel)
	game, err := console.New(logger, eng, os.Stdin, os.Stdout).Play(ctx, human)
	if errors.Is(err, console.ErrQuit) {
		fmt.Println("bye")
		return
	}

	if err != nil {
		logger.Error("game failed", "error", err)
		os.Exit(1)
	}

	logger.Debug("game over", "board", game.Board.String(), "winner", game.Winner)
}

// loadConfig - the console needs no redis, so a missing file falls back to the environment.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config.LoadEnv()
	}

	return config.Load(path)
}
