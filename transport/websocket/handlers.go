package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

var (
	errGameIDRequired = errors.New("game_id is required")
	errCellRequired   = errors.New("cell is required")
	errStepRequired   = errors.New("step or position is required")
)

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *connection) error {
	snapshot, err := that.gameUseCase.NewGame(ctx)
	if err != nil {
		return that.sendError(conn, msg.Action, err)
	}

	that.watch(snapshot.GameID, conn)

	return conn.send(gameResponse(msg.Action, snapshot))
}

func (that *Server) handleWatch(ctx context.Context, msg *Message, conn *connection) error {
	var req gameRequest
	if err := decodePayload(msg, &req); err != nil {
		return that.sendError(conn, msg.Action, err)
	}

	if req.GameID == "" {
		return that.sendError(conn, msg.Action, errGameIDRequired)
	}

	snapshot, err := that.gameUseCase.Snapshot(ctx, req.GameID)
	if err != nil {
		return that.sendError(conn, msg.Action, err)
	}

	that.watch(req.GameID, conn)

	return conn.send(gameResponse(msg.Action, snapshot))
}

func (that *Server) handleCellClick(ctx context.Context, msg *Message, conn *connection) error {
	var req clickRequest
	if err := decodePayload(msg, &req); err != nil {
		return that.sendError(conn, msg.Action, err)
	}

	switch {
	case req.GameID == "":
		return that.sendError(conn, msg.Action, errGameIDRequired)
	case req.Cell == nil:
		return that.sendError(conn, msg.Action, errCellRequired)
	}

	return that.mutate(conn, msg.Action, req.GameID, func() (*tictactoe.Snapshot, error) {
		return that.gameUseCase.Click(ctx, req.GameID, *req.Cell)
	})
}

func (that *Server) handleHistoryJump(ctx context.Context, msg *Message, conn *connection) error {
	var req jumpRequest
	if err := decodePayload(msg, &req); err != nil {
		return that.sendError(conn, msg.Action, err)
	}

	switch {
	case req.GameID == "":
		return that.sendError(conn, msg.Action, errGameIDRequired)
	case req.Step == nil && req.Position == nil:
		return that.sendError(conn, msg.Action, errStepRequired)
	}

	return that.mutate(conn, msg.Action, req.GameID, func() (*tictactoe.Snapshot, error) {
		if req.Step != nil {
			return that.gameUseCase.Jump(ctx, req.GameID, *req.Step)
		}

		return that.gameUseCase.JumpToPosition(ctx, req.GameID, *req.Position)
	})
}

func (that *Server) handleOrderToggle(ctx context.Context, msg *Message, conn *connection) error {
	var req gameRequest
	if err := decodePayload(msg, &req); err != nil {
		return that.sendError(conn, msg.Action, err)
	}

	if req.GameID == "" {
		return that.sendError(conn, msg.Action, errGameIDRequired)
	}

	return that.mutate(conn, msg.Action, req.GameID, func() (*tictactoe.Snapshot, error) {
		return that.gameUseCase.ToggleOrder(ctx, req.GameID)
	})
}

func (that *Server) handleGameLeave(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameLeave")

	var req gameRequest
	if err := decodePayload(msg, &req); err != nil {
		return that.sendError(conn, msg.Action, err)
	}

	if req.GameID == "" {
		return that.sendError(conn, msg.Action, errGameIDRequired)
	}

	if err := that.gameUseCase.EndGame(ctx, req.GameID); err != nil {
		return that.sendError(conn, msg.Action, err)
	}

	resp := Response{Action: msg.Action, Payload: ResponsePayload{GameID: req.GameID}}

	for _, watcher := range that.dropWatchers(req.GameID) {
		if watcher == conn {
			continue
		}

		if err := watcher.send(resp); err != nil {
			log.Warn("failed to notify watcher", "gameID", req.GameID, "error", err)
		}
	}

	return conn.send(resp)
}

// mutate runs a state change and pushes the new snapshot to everyone watching
// the game, the sender included.
func (that *Server) mutate(conn *connection, action, gameID string, apply func() (*tictactoe.Snapshot, error)) error {
	snapshot, err := apply()
	if err != nil {
		return that.sendError(conn, action, err)
	}

	that.watch(gameID, conn)
	that.broadcast(gameID, gameResponse(action, snapshot))

	return nil
}

// sendError reports err to the client. Only failures that are not the
// client's fault are returned for logging.
func (that *Server) sendError(conn *connection, action string, err error) error {
	var text string

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		text = apperror.ErrGameNotFound.Error()
	case errors.Is(err, apperror.ErrInvalidStep),
		errors.Is(err, errGameIDRequired),
		errors.Is(err, errCellRequired),
		errors.Is(err, errStepRequired):
		text = err.Error()
	case errors.As(err, new(*decodeError)):
		text = err.Error()
	default:
		if sendErr := conn.send(errorResponse(action, "internal error")); sendErr != nil {
			return errors.Join(err, sendErr)
		}

		return err
	}

	return conn.send(errorResponse(action, text))
}

func gameResponse(action string, snapshot *tictactoe.Snapshot) Response {
	return Response{Action: action, Payload: ResponsePayload{Game: snapshot}}
}

func errorResponse(action, text string) Response {
	return Response{Action: action, Payload: ResponsePayload{Error: text}}
}

type decodeError struct {
	err error
}

func (that *decodeError) Error() string {
	return fmt.Sprintf("invalid payload: %v", that.err)
}

func (that *decodeError) Unwrap() error {
	return that.err
}
