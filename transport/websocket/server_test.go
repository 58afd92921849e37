package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

type mockGameUseCase struct {
	mock.Mock
}

func (that *mockGameUseCase) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	args := that.Called(ctx, playerID)
	player, _ := args.Get(0).(*entity.Player)

	return player, args.Error(1)
}

func (that *mockGameUseCase) GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error) {
	args := that.Called(ctx, playerID, gameType)
	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameUseCase) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	args := that.Called(ctx, playerID)
	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameUseCase) JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	args := that.Called(ctx, gameID, playerID)
	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameUseCase) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	args := that.Called(ctx, playerID, cell)
	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func startServer(t *testing.T, useCase *mockGameUseCase) string {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(New(logger, useCase).Router(context.Background()))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: raw}))
}

func receive(t *testing.T, conn *websocket.Conn) (string, Payload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))

	var payload Payload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))

	return msg.Action, payload
}

func intPtr(v int) *int {
	return &v
}

func TestServer_Connect(t *testing.T) {
	t.Run("New player", func(t *testing.T) {
		// Given: a client without a player id
		useCase := &mockGameUseCase{}
		useCase.On("GetOrCreatePlayer", mock.Anything, "").Return(&entity.Player{ID: "p1"}, nil).Once()
		conn := dial(t, startServer(t, useCase))

		// When: it connects
		send(t, conn, actionConnect, Payload{})

		// Then: it gets a fresh player
		action, payload := receive(t, conn)
		assert.Equal(t, actionConnect, action)
		require.NotNil(t, payload.Player)
		assert.Equal(t, "p1", payload.Player.ID)
		assert.Nil(t, payload.Game)
	})

	t.Run("Player in a game gets the game back", func(t *testing.T) {
		useCase := &mockGameUseCase{}
		player := &entity.Player{ID: "p1", GameID: "G1", Mark: entity.MarkO}
		useCase.On("GetOrCreatePlayer", mock.Anything, "p1").Return(player, nil).Once()
		useCase.On("GetGameByPlayerID", mock.Anything, "p1").Return(&entity.Game{ID: "G1", Status: entity.StatusOngoing}, nil).Once()
		conn := dial(t, startServer(t, useCase))

		send(t, conn, actionConnect, Payload{Player: &entity.Player{ID: "p1"}})

		_, payload := receive(t, conn)
		require.NotNil(t, payload.Game)
		assert.Equal(t, "G1", payload.Game.ID)
		assert.Equal(t, entity.MarkO, payload.Player.Mark)
	})
}

func TestServer_NewGameAndTurn(t *testing.T) {
	// Given: a bot game for p1
	useCase := &mockGameUseCase{}
	human := &entity.Player{ID: "p1", GameID: "G1", Mark: entity.MarkX}
	game := entity.NewGame("G1", entity.WithBotType)
	game.Status = entity.StatusOngoing
	game.Players = []*entity.Player{human, entity.NewBotPlayer("G1", entity.MarkO)}

	afterTurn := *game
	afterTurn.Board[4] = entity.MarkX
	afterTurn.Board[0] = entity.MarkO

	useCase.On("GetOrCreateGame", mock.Anything, "p1", entity.WithBotType).Return(game, nil).Once()
	useCase.On("MakeTurn", mock.Anything, "p1", 4).Return(&afterTurn, nil).Once()
	conn := dial(t, startServer(t, useCase))

	// When: the player starts a game and plays the center
	send(t, conn, actionGameNew, Payload{Player: &entity.Player{ID: "p1"}})
	action, payload := receive(t, conn)
	require.Equal(t, actionGameNew, action)
	require.NotNil(t, payload.Game)
	assert.Equal(t, "G1", payload.Game.ID)

	send(t, conn, actionGameTurn, Payload{Player: &entity.Player{ID: "p1"}, Cell: intPtr(4)})
	action, payload = receive(t, conn)

	// Then: the board carries both marks
	require.Equal(t, actionGameTurn, action)
	require.NotNil(t, payload.Game)
	assert.Equal(t, afterTurn.Board, payload.Game.Board)
	useCase.AssertExpectations(t)
}

func TestServer_JoinNotifiesBothPlayers(t *testing.T) {
	useCase := &mockGameUseCase{}
	owner := &entity.Player{ID: "p1", GameID: "G1", Mark: entity.MarkX}
	guest := &entity.Player{ID: "p2", GameID: "G1", Mark: entity.MarkO}
	game := &entity.Game{ID: "G1", Status: entity.StatusOngoing, Type: entity.PrivateType, Players: []*entity.Player{owner, guest}}

	useCase.On("GetOrCreatePlayer", mock.Anything, "p1").Return(&entity.Player{ID: "p1", GameID: "G1"}, nil).Once()
	useCase.On("GetGameByPlayerID", mock.Anything, "p1").Return(entity.NewGame("G1", entity.PrivateType), nil).Once()
	useCase.On("JoinGame", mock.Anything, "G1", "p2").Return(game, nil).Once()

	url := startServer(t, useCase)
	ownerConn := dial(t, url)
	guestConn := dial(t, url)

	send(t, ownerConn, actionConnect, Payload{Player: &entity.Player{ID: "p1"}})
	receive(t, ownerConn)

	send(t, guestConn, actionGameJoin, Payload{Player: &entity.Player{ID: "p2"}, Game: &entity.Game{ID: "G1"}})

	_, ownerPayload := receive(t, ownerConn)
	_, guestPayload := receive(t, guestConn)

	assert.Equal(t, entity.MarkX, ownerPayload.Player.Mark)
	assert.Equal(t, entity.MarkO, guestPayload.Player.Mark)
	assert.True(t, guestPayload.Game.IsOngoing())
}

func TestServer_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		action   string
		payload  Payload
		setup    func(useCase *mockGameUseCase)
		expected string
	}{
		{
			name:     "Unknown action",
			action:   "game:leave",
			payload:  Payload{},
			expected: "unknown action",
		},
		{
			name:     "Missing player",
			action:   actionGameNew,
			payload:  Payload{},
			expected: "Player is required",
		},
		{
			name:     "Missing cell",
			action:   actionGameTurn,
			payload:  Payload{Player: &entity.Player{ID: "p1"}},
			expected: "Cell is required",
		},
		{
			name:    "Occupied cell",
			action:  actionGameTurn,
			payload: Payload{Player: &entity.Player{ID: "p1"}, Cell: intPtr(0)},
			setup: func(useCase *mockGameUseCase) {
				useCase.On("MakeTurn", mock.Anything, "p1", 0).Return(nil, apperror.ErrCellOccupied).Once()
			},
			expected: apperror.ErrCellOccupied.Error(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			useCase := &mockGameUseCase{}
			if tc.setup != nil {
				tc.setup(useCase)
			}
			conn := dial(t, startServer(t, useCase))

			send(t, conn, tc.action, tc.payload)

			action, payload := receive(t, conn)
			assert.Equal(t, tc.action, action)
			assert.Contains(t, payload.Error, tc.expected)
		})
	}
}

func TestServer_BadMessageKeepsConnection(t *testing.T) {
	for _, raw := range []string{`{"action":5}`, `not json`, `{"action":"connect","payload":[1]}`} {
		t.Run(raw, func(t *testing.T) {
			// Given: a connected client
			useCase := &mockGameUseCase{}
			useCase.On("GetOrCreatePlayer", mock.Anything, "").Return(&entity.Player{ID: "p1"}, nil)
			conn := dial(t, startServer(t, useCase))

			// When: it sends a message that does not decode
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))

			// Then: it gets an error reply and can keep talking
			_, payload := receive(t, conn)
			assert.Equal(t, "invalid payload", payload.Error)

			send(t, conn, actionConnect, Payload{})
			action, payload := receive(t, conn)
			assert.Equal(t, actionConnect, action)
			require.NotNil(t, payload.Player)
			assert.Equal(t, "p1", payload.Player.ID)
		})
	}
}
