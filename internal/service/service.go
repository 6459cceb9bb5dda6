// Package service is the online surface of the engine: every lifecycle
// and gameplay call loads the authoritative snapshot, runs the pure
// transition, and writes the result back whole.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"drawpoker/internal/auth"
	"drawpoker/internal/deck"
	"drawpoker/internal/game"
	"drawpoker/internal/store"
	"drawpoker/internal/watch"
)

type Service struct {
	store  store.SnapshotStore
	mirror store.SnapshotStore // optional local cache for offline play
	hub    *watch.Hub         // optional observation fan-out
	log    *zap.Logger
	now    func() time.Time
	newID  func() string
}

func New(st store.SnapshotStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store: st,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// AttachMirror makes the service write-through every snapshot it reads
// or writes to a local store, so the game stays playable offline.
func (s *Service) AttachMirror(m store.SnapshotStore) { s.mirror = m }

// AttachHub makes the service publish snapshots to observers.
func (s *Service) AttachHub(h *watch.Hub) { s.hub = h }

func (s *Service) CreateGame(ctx context.Context, actor auth.User, name string) (*game.Session, error) {
	shuffled := deck.Shuffle(deck.New())
	snap, err := game.Create(s.newID(), name, actor.ID, actor.DisplayName, shuffled, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return nil, err
	}
	s.published(ctx, snap)
	return snap, nil
}

func (s *Service) GetGame(ctx context.Context, gameID string) (*game.Session, error) {
	snap, err := s.store.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, snap)
	return snap, nil
}

func (s *Service) JoinGame(ctx context.Context, actor auth.User, gameID string) (*game.Session, error) {
	return s.mutate(ctx, gameID, func(snap *game.Session) (*game.Session, error) {
		return game.Join(snap, actor.ID, actor.DisplayName, s.now())
	})
}

func (s *Service) StartGame(ctx context.Context, actor auth.User, gameID string) (*game.Session, error) {
	return s.mutate(ctx, gameID, func(snap *game.Session) (*game.Session, error) {
		return game.Start(snap, actor.ID, s.now())
	})
}

func (s *Service) ExchangeCards(ctx context.Context, actor auth.User, gameID string, indices []int) (*game.Session, error) {
	return s.mutate(ctx, gameID, func(snap *game.Session) (*game.Session, error) {
		return game.Exchange(snap, actor.ID, indices, s.now())
	})
}

// LeaveGame removes the actor from a waiting game. An owner leaving
// deletes the game outright, in which case the returned snapshot is nil.
func (s *Service) LeaveGame(ctx context.Context, actor auth.User, gameID string) (*game.Session, error) {
	snap, err := s.store.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	next, deleted, err := game.Leave(snap, actor.ID, s.now())
	if err != nil {
		return nil, err
	}
	if deleted {
		if err := s.store.Delete(ctx, gameID); err != nil {
			return nil, err
		}
		s.deleted(ctx, gameID)
		return nil, nil
	}
	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}
	s.published(ctx, next)
	return next, nil
}

func (s *Service) ListAvailable(ctx context.Context) ([]*game.Session, error) {
	return s.store.ListWaiting(ctx)
}

func (s *Service) mutate(ctx context.Context, gameID string, apply func(*game.Session) (*game.Session, error)) (*game.Session, error) {
	snap, err := s.store.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	next, err := apply(snap)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}
	s.published(ctx, next)
	return next, nil
}

func (s *Service) published(ctx context.Context, snap *game.Session) {
	s.cache(ctx, snap)
	if s.hub == nil {
		return
	}
	s.hub.Inbox() <- watch.Publish{Snapshot: snap}
	s.refreshList(ctx)
}

func (s *Service) deleted(ctx context.Context, gameID string) {
	if s.mirror != nil {
		if err := s.mirror.Delete(ctx, gameID); err != nil {
			s.log.Warn("mirror delete failed", zap.String("game", gameID), zap.Error(err))
		}
	}
	if s.hub == nil {
		return
	}
	s.hub.Inbox() <- watch.PublishDelete{GameID: gameID}
	s.refreshList(ctx)
}

func (s *Service) refreshList(ctx context.Context) {
	games, err := s.store.ListWaiting(ctx)
	if err != nil {
		s.log.Warn("list refresh failed", zap.Error(err))
		return
	}
	s.hub.Inbox() <- watch.PublishList{Games: games}
}

// cache is best-effort: a failed local write never fails the call.
func (s *Service) cache(ctx context.Context, snap *game.Session) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Save(ctx, snap); err != nil {
		s.log.Warn("mirror save failed", zap.String("game", snap.ID), zap.Error(err))
	}
}
