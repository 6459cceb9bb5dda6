// Package offline lets a turn be played against the locally cached
// snapshot while the authoritative store is unreachable, and replays
// the recorded intent once connectivity returns.
package offline

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"drawpoker/internal/auth"
	"drawpoker/internal/game"
	"drawpoker/internal/store"
)

var ErrNotFoundLocally = errors.New("game not cached locally")

// Exchanger is the one online call the reconciler replays. The online
// service satisfies it.
type Exchanger interface {
	ExchangeCards(ctx context.Context, actor auth.User, gameID string, indices []int) (*game.Session, error)
}

type Reconciler struct {
	local    store.SnapshotStore
	queue    store.ActionQueue
	online   Exchanger
	log      *zap.Logger
	now      func() time.Time
	draining atomic.Bool
}

func NewReconciler(local store.SnapshotStore, queue store.ActionQueue, online Exchanger, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		local:  local,
		queue:  queue,
		online: online,
		log:    log,
		now:    time.Now,
	}
}

// ApplyOfflineTurn runs the same exchange transition as the online
// path, but against the cached snapshot, and records the raw intent
// for later replay.
func (r *Reconciler) ApplyOfflineTurn(ctx context.Context, actor auth.User, gameID string, indices []int) (*game.Session, error) {
	if actor.ID == "" {
		return nil, game.ErrNotAuthenticated
	}
	snap, err := r.local.Load(ctx, gameID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFoundLocally
	}
	if err != nil {
		return nil, err
	}

	next, err := game.Exchange(snap, actor.ID, indices, r.now())
	if err != nil {
		return nil, err
	}
	if err := r.local.Save(ctx, next); err != nil {
		return nil, err
	}

	_, err = r.queue.Append(ctx, store.PendingAction{
		Type:      store.ActionExchangeCards,
		GameID:    gameID,
		UserID:    actor.ID,
		Indices:   indices,
		Timestamp: r.now(),
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// Drain replays pending actions against the authoritative store in
// timestamp order. A failing action never blocks the ones behind it.
// Only one drain runs at a time; a concurrent call is a no-op.
func (r *Reconciler) Drain(ctx context.Context) error {
	if !r.draining.CompareAndSwap(false, true) {
		return nil
	}
	defer r.draining.Store(false)

	actions, err := r.queue.List(ctx)
	if err != nil {
		return err
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].Timestamp.Before(actions[j].Timestamp) })

	for _, a := range actions {
		if err := r.replay(ctx, a); err != nil {
			if replayable(err) {
				r.log.Warn("sync failed, action kept",
					zap.Int64("action", a.ID), zap.String("game", a.GameID), zap.Error(err))
				continue
			}
			// The game moved past this turn; replaying can never
			// succeed, so the action is cleared rather than retried
			// forever.
			r.log.Warn("sync action dropped",
				zap.Int64("action", a.ID), zap.String("game", a.GameID), zap.Error(err))
		}
		if err := r.queue.Remove(ctx, a.ID); err != nil {
			r.log.Warn("failed to remove synced action", zap.Int64("action", a.ID), zap.Error(err))
		}
	}
	return nil
}

func (r *Reconciler) replay(ctx context.Context, a store.PendingAction) error {
	switch a.Type {
	case store.ActionExchangeCards:
		_, err := r.online.ExchangeCards(ctx, auth.User{ID: a.UserID}, a.GameID, a.Indices)
		return err
	default:
		r.log.Warn("unknown pending action type", zap.String("type", a.Type))
		return nil
	}
}

// replayable reports whether a failure could still succeed on a later
// drain. Storage hiccups can; game-rule rejections cannot, the
// authoritative game has simply moved on.
func replayable(err error) bool {
	return errors.Is(err, store.ErrStorage)
}

// Run drains once per connectivity-regained signal. Probing the
// network is the caller's business.
func (r *Reconciler) Run(ctx context.Context, online <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-online:
			if !ok {
				return
			}
			if err := r.Drain(ctx); err != nil {
				r.log.Warn("drain failed", zap.Error(err))
			}
		}
	}
}

// CanPlayOffline reports whether the game is cached locally and the
// actor is one of its players. Callers gate on it; the reconciler
// itself does not enforce it.
func (r *Reconciler) CanPlayOffline(ctx context.Context, actor auth.User, gameID string) bool {
	if actor.ID == "" {
		return false
	}
	snap, err := r.local.Load(ctx, gameID)
	if err != nil {
		return false
	}
	_, ok := snap.Players[actor.ID]
	return ok
}
