package game

import (
	"errors"
	"slices"
	"time"

	"drawpoker/internal/deck"
	"drawpoker/internal/poker"
)

var ErrNotAuthenticated = errors.New("not authenticated")
var ErrForbidden = errors.New("only the game owner may do that")
var ErrAlreadyStarted = errors.New("game has already started")
var ErrNotInProgress = errors.New("game is not in progress")
var ErrNotYourTurn = errors.New("not your turn")
var ErrAlreadyExchanged = errors.New("cards already exchanged")
var ErrInsufficientPlayers = errors.New("at least 2 players required")
var ErrCannotLeaveStarted = errors.New("cannot leave a started game")

// Create builds a fresh waiting session owned by the actor. The deck
// is expected to be pre-shuffled by the caller.
func Create(id, name, actorID, actorName string, shuffled []deck.Card, now time.Time) (*Session, error) {
	if actorID == "" {
		return nil, ErrNotAuthenticated
	}
	return &Session{
		ID:     id,
		Name:   name,
		Owner:  actorID,
		Status: StatusWaiting,
		Players: map[string]Player{
			actorID: {ID: actorID, DisplayName: actorName, IsOwner: true},
		},
		PlayerOrder: []string{actorID},
		Deck:        slices.Clone(shuffled),
		Hands:       map[string][]deck.Card{},
		CreatedAt:   now,
		LastUpdated: now,
	}, nil
}

// Join appends the actor to the session. Joining a game the actor is
// already in returns the snapshot unchanged.
func Join(s *Session, actorID, actorName string, now time.Time) (*Session, error) {
	if actorID == "" {
		return nil, ErrNotAuthenticated
	}
	if s.Status != StatusWaiting {
		return nil, ErrAlreadyStarted
	}
	if _, ok := s.Players[actorID]; ok {
		return s.Clone(), nil
	}

	next := s.Clone()
	next.Players[actorID] = Player{ID: actorID, DisplayName: actorName}
	next.PlayerOrder = append(next.PlayerOrder, actorID)
	next.LastUpdated = now
	return next, nil
}

// Start deals five cards to every player in seat order and hands the
// first turn to the first seat.
func Start(s *Session, actorID string, now time.Time) (*Session, error) {
	if actorID == "" {
		return nil, ErrNotAuthenticated
	}
	if s.Owner != actorID {
		return nil, ErrForbidden
	}
	if s.Status != StatusWaiting {
		return nil, ErrAlreadyStarted
	}
	if len(s.PlayerOrder) < 2 {
		return nil, ErrInsufficientPlayers
	}

	hands, remaining, err := deck.Deal(s.Deck, len(s.PlayerOrder), CardsPerPlayer)
	if err != nil {
		return nil, err
	}

	next := s.Clone()
	for i, id := range next.PlayerOrder {
		next.Hands[id] = hands[i]
	}
	next.Deck = remaining
	next.Status = StatusPlaying
	next.CurrentTurn = next.PlayerOrder[0]
	next.LastUpdated = now
	return next, nil
}

// Exchange swaps out the actor's cards at the given indices, marks the
// actor as having exchanged, and advances the turn cyclically. Once
// every player has exchanged the game completes and results are ranked.
func Exchange(s *Session, actorID string, indices []int, now time.Time) (*Session, error) {
	if actorID == "" {
		return nil, ErrNotAuthenticated
	}
	if s.Status != StatusPlaying {
		return nil, ErrNotInProgress
	}
	if s.CurrentTurn != actorID {
		return nil, ErrNotYourTurn
	}
	if s.Players[actorID].HasExchanged {
		return nil, ErrAlreadyExchanged
	}

	next := s.Clone()
	newHand, remaining := deck.Exchange(next.Hands[actorID], indices, next.Deck)
	next.Hands[actorID] = newHand
	next.Deck = remaining

	p := next.Players[actorID]
	p.HasExchanged = true
	next.Players[actorID] = p

	seat := slices.Index(next.PlayerOrder, actorID)
	next.CurrentTurn = next.PlayerOrder[(seat+1)%len(next.PlayerOrder)]
	next.LastUpdated = now

	for _, id := range next.PlayerOrder {
		if !next.Players[id].HasExchanged {
			return next, nil
		}
	}

	// Everyone has exchanged: rank the showdown.
	hands := make([][]deck.Card, len(next.PlayerOrder))
	for i, id := range next.PlayerOrder {
		hands[i] = next.Hands[id]
	}
	next.Results = make([]Result, 0, len(hands))
	for _, r := range poker.Rank(hands) {
		next.Results = append(next.Results, Result{
			PlayerID: next.PlayerOrder[r.Player],
			HandRank: r.Evaluation.Rank,
			HandName: r.Evaluation.Name,
		})
	}
	next.Status = StatusCompleted
	next.CurrentTurn = ""
	return next, nil
}

// Leave removes the actor from a still-waiting session. When the owner
// leaves the whole game goes away; the second return reports that.
func Leave(s *Session, actorID string, now time.Time) (*Session, bool, error) {
	if actorID == "" {
		return nil, false, ErrNotAuthenticated
	}
	if s.Status != StatusWaiting {
		return nil, false, ErrCannotLeaveStarted
	}
	if s.Owner == actorID {
		return nil, true, nil
	}
	if _, ok := s.Players[actorID]; !ok {
		return s.Clone(), false, nil
	}

	next := s.Clone()
	delete(next.Players, actorID)
	next.PlayerOrder = slices.DeleteFunc(next.PlayerOrder, func(id string) bool { return id == actorID })
	next.LastUpdated = now
	return next, false, nil
}
