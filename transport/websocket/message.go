package websocket

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"

	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

const (
	actionGameNew     = "game:new"
	actionGameWatch   = "game:watch"
	actionCellClick   = "cell:click"
	actionHistoryJump = "history:jump"
	actionOrderToggle = "order:toggle"
	actionGameLeave   = "game:leave"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string                 `json:"action"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Response is what the server sends back, echoing the action it answers.
type Response struct {
	Action  string          `json:"action"`
	Payload ResponsePayload `json:"payload"`
}

type ResponsePayload struct {
	Game   *tictactoe.Snapshot `json:"game,omitempty"`
	GameID string              `json:"game_id,omitempty"`
	Error  string              `json:"error,omitempty"`
}

type gameRequest struct {
	GameID string `mapstructure:"game_id"`
}

type clickRequest struct {
	GameID string `mapstructure:"game_id"`
	Cell   *int   `mapstructure:"cell"`
}

type jumpRequest struct {
	GameID   string `mapstructure:"game_id"`
	Step     *int   `mapstructure:"step"`
	Position *int   `mapstructure:"position"`
}

var errNotInteger = errors.New("expected an integer")

func decodePayload(msg *Message, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: wholeNumberHook,
		Result:     out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err = decoder.Decode(msg.Payload); err != nil {
		return &decodeError{err: err}
	}

	return nil
}

// wholeNumberHook refuses JSON numbers with a fraction where an int is
// expected, mapstructure would truncate them otherwise.
func wholeNumberHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.Int {
		return data, nil
	}

	if from.Kind() != reflect.Float64 && from.Kind() != reflect.Float32 {
		return data, nil
	}

	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%w, got %v", errNotInteger, f)
	}

	return data, nil
}

// connection serialises writes, gorilla allows one concurrent writer only.
type connection struct {
	socket  *websocket.Conn
	writeMu sync.Mutex
}

func (that *connection) send(resp Response) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err := that.socket.WriteJSON(resp); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
