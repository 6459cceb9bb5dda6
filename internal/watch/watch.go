// Package watch fans game snapshots out to observers. One goroutine
// owns all subscription state and talks to the world through a typed
// message inbox.
package watch

import (
	"context"

	"drawpoker/internal/game"
)

type Msg interface{ isWatchMsg() }

type Observe struct {
	GameID   string
	ClientID string
	Outbox   chan *game.Session // nil snapshot means the game was deleted
}

type Unobserve struct {
	GameID   string
	ClientID string
}

type ObserveList struct {
	ClientID string
	Outbox   chan []*game.Session
}

type UnobserveList struct{ ClientID string }

type Publish struct{ Snapshot *game.Session }

type PublishDelete struct{ GameID string }

type PublishList struct{ Games []*game.Session }

type Shutdown struct{}

func (Observe) isWatchMsg()       {}
func (Unobserve) isWatchMsg()     {}
func (ObserveList) isWatchMsg()   {}
func (UnobserveList) isWatchMsg() {}
func (Publish) isWatchMsg()       {}
func (PublishDelete) isWatchMsg() {}
func (PublishList) isWatchMsg()   {}
func (Shutdown) isWatchMsg()      {}

type Hub struct {
	inbox      chan Msg
	games      map[string]map[string]chan *game.Session
	latest     map[string]*game.Session
	list       map[string]chan []*game.Session
	latestList []*game.Session
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan Msg, 64),
		games:  make(map[string]map[string]chan *game.Session),
		latest: make(map[string]*game.Session),
		list:   make(map[string]chan []*game.Session),
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

// ObserveGame subscribes to one game's snapshots. The last published
// snapshot, if any, arrives immediately. The returned func cancels the
// subscription and closes the outbox.
func (h *Hub) ObserveGame(gameID, clientID string, out chan *game.Session) func() {
	h.inbox <- Observe{GameID: gameID, ClientID: clientID, Outbox: out}
	return func() { h.inbox <- Unobserve{GameID: gameID, ClientID: clientID} }
}

// ObserveGames subscribes to the waiting-games list.
func (h *Hub) ObserveGames(clientID string, out chan []*game.Session) func() {
	h.inbox <- ObserveList{ClientID: clientID, Outbox: out}
	return func() { h.inbox <- UnobserveList{ClientID: clientID} }
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Observe:
				if h.games[msg.GameID] == nil {
					h.games[msg.GameID] = make(map[string]chan *game.Session)
				}
				h.games[msg.GameID][msg.ClientID] = msg.Outbox
				if snap := h.latest[msg.GameID]; snap != nil {
					msg.Outbox <- snap
				}

			case Unobserve:
				if ch, ok := h.games[msg.GameID][msg.ClientID]; ok {
					delete(h.games[msg.GameID], msg.ClientID)
					close(ch)
				}

			case ObserveList:
				h.list[msg.ClientID] = msg.Outbox
				if h.latestList != nil {
					msg.Outbox <- h.latestList
				}

			case UnobserveList:
				if ch, ok := h.list[msg.ClientID]; ok {
					delete(h.list, msg.ClientID)
					close(ch)
				}

			case Publish:
				h.latest[msg.Snapshot.ID] = msg.Snapshot
				h.broadcast(msg.Snapshot.ID, msg.Snapshot)

			case PublishDelete:
				delete(h.latest, msg.GameID)
				h.broadcast(msg.GameID, nil)

			case PublishList:
				h.latestList = msg.Games
				for id, ch := range h.list {
					select {
					case ch <- msg.Games:
					default:
						// Slow/full client - drop them.
						close(ch)
						delete(h.list, id)
					}
				}

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) broadcast(gameID string, snap *game.Session) {
	for id, ch := range h.games[gameID] {
		select {
		case ch <- snap:
		default:
			close(ch)
			delete(h.games[gameID], id)
		}
	}
}

func (h *Hub) shutdown() {
	for _, clients := range h.games {
		for id, ch := range clients {
			close(ch)
			delete(clients, id)
		}
	}
	for id, ch := range h.list {
		close(ch)
		delete(h.list, id)
	}
	h.cancel()
}
