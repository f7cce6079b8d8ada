package rest

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

type gameUseCase interface {
	NewGame(ctx context.Context) (*tictactoe.Snapshot, error)
	Snapshot(ctx context.Context, gameID string) (*tictactoe.Snapshot, error)
	Click(ctx context.Context, gameID string, cell int) (*tictactoe.Snapshot, error)
	Jump(ctx context.Context, gameID string, step int) (*tictactoe.Snapshot, error)
	ToggleOrder(ctx context.Context, gameID string) (*tictactoe.Snapshot, error)
}

type handlers struct {
	logger *slog.Logger
	games  gameUseCase
	tpl    *templates
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) index(w http.ResponseWriter, _ *http.Request) {
	that.writeHTML(w, that.tpl.index, nil)
}

func (that *handlers) create(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.games.NewGame(r.Context())
	if err != nil {
		that.writeError(w, "create", err)
		return
	}

	http.Redirect(w, r, gamePath(snapshot.GameID), http.StatusSeeOther)
}

func (that *handlers) view(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.games.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "view", err)
		return
	}

	that.writeHTML(w, that.tpl.game, newPageData(snapshot))
}

func (that *handlers) state(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.games.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "state", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(snapshot); err != nil {
		that.logger.Error("failed to encode snapshot", "error", err)
	}
}

func (that *handlers) click(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")

	cell, err := strconv.Atoi(chi.URLParam(r, "cell"))
	if err != nil {
		http.Error(w, "invalid cell", http.StatusBadRequest)
		return
	}

	if _, err = that.games.Click(r.Context(), gameID, cell); err != nil {
		that.writeError(w, "click", err)
		return
	}

	http.Redirect(w, r, gamePath(gameID), http.StatusSeeOther)
}

func (that *handlers) jump(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")

	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		http.Error(w, "invalid step", http.StatusBadRequest)
		return
	}

	if _, err = that.games.Jump(r.Context(), gameID, step); err != nil {
		that.writeError(w, "jump", err)
		return
	}

	http.Redirect(w, r, gamePath(gameID), http.StatusSeeOther)
}

func (that *handlers) toggle(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")

	if _, err := that.games.ToggleOrder(r.Context(), gameID); err != nil {
		that.writeError(w, "toggle", err)
		return
	}

	http.Redirect(w, r, gamePath(gameID), http.StatusSeeOther)
}

func (that *handlers) writeHTML(w http.ResponseWriter, t *template.Template, data any) {
	page, err := render(t, data)
	if err != nil {
		that.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

func (that *handlers) writeError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		http.Error(w, "game not found", http.StatusNotFound)
	case errors.Is(err, apperror.ErrInvalidStep):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func gamePath(gameID string) string {
	return "/game/" + gameID
}
