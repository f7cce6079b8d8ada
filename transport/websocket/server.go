package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	NewGame(ctx context.Context) (*tictactoe.Snapshot, error)
	Snapshot(ctx context.Context, gameID string) (*tictactoe.Snapshot, error)
	Click(ctx context.Context, gameID string, cell int) (*tictactoe.Snapshot, error)
	Jump(ctx context.Context, gameID string, step int) (*tictactoe.Snapshot, error)
	JumpToPosition(ctx context.Context, gameID string, position int) (*tictactoe.Snapshot, error)
	ToggleOrder(ctx context.Context, gameID string) (*tictactoe.Snapshot, error)
	EndGame(ctx context.Context, gameID string) error
}

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader

	handlers map[string]func(ctx context.Context, msg *Message, conn *connection) error

	// gameID -> sockets showing that game
	watchers      map[string]map[*connection]struct{}
	watchersMutex sync.RWMutex
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		watchers: make(map[string]map[*connection]struct{}),
	}

	server.handlers = map[string]func(context.Context, *Message, *connection) error{
		actionGameNew:     server.handleNewGame,
		actionGameWatch:   server.handleWatch,
		actionCellClick:   server.handleCellClick,
		actionHistoryJump: server.handleHistoryJump,
		actionOrderToggle: server.handleOrderToggle,
		actionGameLeave:   server.handleGameLeave,
	}

	return server
}

// Handler returns the HTTP handler that upgrades requests on /ws.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) upgradeToWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	socket, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := &connection{socket: socket}

	defer func() {
		that.unwatchAll(conn)
		_ = socket.Close()
	}()

	// Shutdown does not track hijacked connections.
	stop := context.AfterFunc(ctx, func() { _ = socket.Close() })
	defer stop()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Info("WebSocket connection closed", "reason", err)
	}
}

// handleMessages - processes messages from the client until the socket closes.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.socket.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			log.Warn("malformed message", "error", err)
			if err = conn.send(errorResponse("", "malformed message")); err != nil {
				return err
			}

			continue
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			log.Warn("unknown action", "action", msg.Action)
			if err := conn.send(errorResponse(msg.Action, "unknown action")); err != nil {
				return err
			}

			continue
		}

		if err := handler(ctx, &msg, conn); err != nil {
			log.Error("error processing message", "action", msg.Action, "error", err)
		}
	}
}

func (that *Server) watch(gameID string, conn *connection) {
	that.watchersMutex.Lock()
	defer that.watchersMutex.Unlock()

	conns, ok := that.watchers[gameID]
	if !ok {
		conns = make(map[*connection]struct{})
		that.watchers[gameID] = conns
	}

	conns[conn] = struct{}{}
}

func (that *Server) unwatchAll(conn *connection) {
	that.watchersMutex.Lock()
	defer that.watchersMutex.Unlock()

	for gameID, conns := range that.watchers {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(that.watchers, gameID)
		}
	}
}

// dropWatchers forgets the game and returns who was watching it.
func (that *Server) dropWatchers(gameID string) []*connection {
	that.watchersMutex.Lock()
	defer that.watchersMutex.Unlock()

	conns := make([]*connection, 0, len(that.watchers[gameID]))
	for conn := range that.watchers[gameID] {
		conns = append(conns, conn)
	}

	delete(that.watchers, gameID)

	return conns
}

func (that *Server) watchersOf(gameID string) []*connection {
	that.watchersMutex.RLock()
	defer that.watchersMutex.RUnlock()

	conns := make([]*connection, 0, len(that.watchers[gameID]))
	for conn := range that.watchers[gameID] {
		conns = append(conns, conn)
	}

	return conns
}

// broadcast sends resp to every socket watching gameID.
func (that *Server) broadcast(gameID string, resp Response) {
	log := that.logger.With("method", "broadcast", "gameID", gameID)

	for _, conn := range that.watchersOf(gameID) {
		if err := conn.send(resp); err != nil {
			log.Warn("failed to send game update", "error", err)
		}
	}
}
