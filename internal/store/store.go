// Package store persists game snapshots and the pending-action queue.
// A snapshot is always read and written whole; callers never see a
// partial write.
package store

import (
	"context"
	"errors"
	"time"

	"drawpoker/internal/game"
)

var ErrNotFound = errors.New("game not found")
var ErrStorage = errors.New("storage failure")

const ActionExchangeCards = "EXCHANGE_CARDS"

// PendingAction is a locally recorded intent to mutate a game, queued
// for replay against the authoritative store. The id is assigned by
// the queue on append.
type PendingAction struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	GameID    string    `json:"gameId"`
	UserID    string    `json:"userId"`
	Indices   []int     `json:"cardsToExchangeIndices"`
	Timestamp time.Time `json:"timestamp"`
}

type SnapshotStore interface {
	Load(ctx context.Context, gameID string) (*game.Session, error)
	Save(ctx context.Context, s *game.Session) error
	Delete(ctx context.Context, gameID string) error
	// ListWaiting returns joinable games, newest first.
	ListWaiting(ctx context.Context) ([]*game.Session, error)
}

type ActionQueue interface {
	Append(ctx context.Context, a PendingAction) (int64, error)
	// List returns all pending actions ordered by timestamp ascending.
	List(ctx context.Context) ([]PendingAction, error)
	Remove(ctx context.Context, id int64) error
}
