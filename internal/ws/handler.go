package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"drawpoker/internal/game"
	"drawpoker/internal/watch"
	"drawpoker/pkg/types"
)

const writeTimeout = 3 * time.Second

// GameHandler streams one game's snapshots. The client only ever
// reads; mutations go through the HTTP surface.
func GameHandler(h *watch.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.URL.Query().Get("id")
		if gameID == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan *game.Session, 8)
		cancel := h.ObserveGame(gameID, randID(6), out)
		defer cancel()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{Type: "GameSnapshot", Game: snap}
				if snap == nil {
					msg = types.ServerMessage{Type: "GameDeleted"}
				}
				if err := write(writeCtx, conn, msg); err != nil {
					return
				}
			}
		}()

		readUntilClose(r.Context(), conn, log)
	}
}

// ListHandler streams the waiting-games list.
func ListHandler(h *watch.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan []*game.Session, 8)
		cancel := h.ObserveGames(randID(6), out)
		defer cancel()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for games := range out {
				if err := write(writeCtx, conn, types.ServerMessage{Type: "GameList", Games: games}); err != nil {
					return
				}
			}
		}()

		readUntilClose(r.Context(), conn, log)
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, _ := json.Marshal(msg)
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(wctx, websocket.MessageText, payload)
}

// readUntilClose drains client frames until the peer goes away.
func readUntilClose(ctx context.Context, conn *websocket.Conn, log *zap.Logger) {
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				if log != nil && ctx.Err() == nil {
					log.Debug("ws read ended", zap.Error(err))
				}
			}
			return
		}
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
