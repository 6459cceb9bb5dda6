package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"drawpoker/internal/auth"
	"drawpoker/internal/offline"
	"drawpoker/internal/service"
	"drawpoker/internal/watch"
	"drawpoker/internal/ws"
)

func SetupRoutes(svc *service.Service, rec *offline.Reconciler, h *watch.Hub, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.Middleware)

	r.Post("/auth/anonymous", AnonymousAuth())

	r.Post("/games", CreateGame(svc, log))
	r.Get("/games", ListGames(svc, log))
	r.Get("/games/{id}", GetGame(svc, log))
	r.Post("/games/{id}/join", JoinGame(svc, log))
	r.Post("/games/{id}/start", StartGame(svc, log))
	r.Post("/games/{id}/leave", LeaveGame(svc, log))
	r.Post("/games/{id}/exchange", ExchangeCards(svc, log))

	if rec != nil {
		r.Post("/offline/games/{id}/exchange", OfflineExchange(rec, log))
		r.Get("/offline/games/{id}/playable", OfflinePlayable(rec))
		r.Post("/sync", SyncNow(rec, log))
	}

	r.Get("/ws/game", ws.GameHandler(h, log))
	r.Get("/ws/games", ws.ListHandler(h, log))
	r.Get("/healthz", Healthz)
	return r
}
