package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"drawpoker/internal/auth"
	"drawpoker/internal/deck"
	"drawpoker/internal/game"
	"drawpoker/internal/offline"
	"drawpoker/internal/service"
	"drawpoker/internal/store"
	"drawpoker/pkg/types"
)

func AnonymousAuth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AnonymousAuthRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req) // empty body is fine
		}
		writeJSON(w, http.StatusCreated, auth.Anonymous(req.DisplayName))
	}
}

func CreateGame(svc *service.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		actor, _ := auth.FromContext(r.Context())
		snap, err := svc.CreateGame(r.Context(), actor, req.Name)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, snap)
	}
}

func ListGames(svc *service.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := svc.ListAvailable(r.Context())
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, games)
	}
}

func GetGame(svc *service.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.GetGame(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func JoinGame(svc *service.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := auth.FromContext(r.Context())
		snap, err := svc.JoinGame(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func StartGame(svc *service.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := auth.FromContext(r.Context())
		snap, err := svc.StartGame(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func LeaveGame(svc *service.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := auth.FromContext(r.Context())
		snap, err := svc.LeaveGame(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		if snap == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func ExchangeCards(svc *service.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ExchangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		actor, _ := auth.FromContext(r.Context())
		snap, err := svc.ExchangeCards(r.Context(), actor, chi.URLParam(r, "id"), req.Indices)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func OfflineExchange(rec *offline.Reconciler, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ExchangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		actor, _ := auth.FromContext(r.Context())
		snap, err := rec.ApplyOfflineTurn(r.Context(), actor, chi.URLParam(r, "id"), req.Indices)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func OfflinePlayable(rec *offline.Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := auth.FromContext(r.Context())
		ok := rec.CanPlayOffline(r.Context(), actor, chi.URLParam(r, "id"))
		writeJSON(w, http.StatusOK, map[string]bool{"playable": ok})
	}
}

func SyncNow(rec *offline.Reconciler, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := rec.Drain(r.Context()); err != nil {
			writeError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, game.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrNotFound), errors.Is(err, offline.ErrNotFoundLocally):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrAlreadyStarted),
		errors.Is(err, game.ErrNotInProgress),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrAlreadyExchanged),
		errors.Is(err, game.ErrInsufficientPlayers),
		errors.Is(err, game.ErrCannotLeaveStarted),
		errors.Is(err, deck.ErrExhausted):
		status = http.StatusConflict
	case errors.Is(err, store.ErrStorage):
		if log != nil {
			log.Error("storage failure", zap.Error(err))
		}
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
