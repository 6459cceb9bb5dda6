package game

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"drawpoker/internal/deck"
)

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusPlaying   Status = "playing"
	StatusCompleted Status = "completed"
)

const CardsPerPlayer = 5

type Player struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	IsOwner      bool   `json:"isOwner"`
	HasExchanged bool   `json:"hasExchanged"`
}

type Result struct {
	PlayerID string `json:"playerId"`
	HandRank int    `json:"handRank"`
	HandName string `json:"handName"`
}

// Session is the full state of one game. Transitions never mutate a
// session in place; they clone, change the clone, and hand it back.
type Session struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Owner       string                 `json:"owner"`
	Status      Status                 `json:"status"`
	Players     map[string]Player      `json:"players"`
	PlayerOrder []string               `json:"playerOrder"`
	CurrentTurn string                 `json:"currentTurn,omitempty"`
	Deck        []deck.Card            `json:"deck"`
	Hands       map[string][]deck.Card `json:"hands,omitempty"`
	Results     []Result               `json:"results,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	LastUpdated time.Time              `json:"lastUpdated"`
}

func (s *Session) Clone() *Session {
	out := *s
	out.Players = maps.Clone(s.Players)
	out.PlayerOrder = slices.Clone(s.PlayerOrder)
	out.Deck = slices.Clone(s.Deck)
	out.Results = slices.Clone(s.Results)
	out.Hands = make(map[string][]deck.Card, len(s.Hands))
	for id, hand := range s.Hands {
		out.Hands[id] = slices.Clone(hand)
	}
	return &out
}

// Validate checks the per-status invariants. Stores call it at the
// persistence boundary so a malformed snapshot is rejected on read or
// write instead of trusted at point of use.
func (s *Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("session has no id")
	}
	if len(s.Players) != len(s.PlayerOrder) {
		return fmt.Errorf("players and playerOrder disagree: %d vs %d", len(s.Players), len(s.PlayerOrder))
	}
	owners := 0
	for _, id := range s.PlayerOrder {
		p, ok := s.Players[id]
		if !ok {
			return fmt.Errorf("playerOrder references unknown player %s", id)
		}
		if p.IsOwner {
			owners++
		}
	}
	if owners != 1 {
		return fmt.Errorf("session must have exactly one owner, has %d", owners)
	}

	switch s.Status {
	case StatusWaiting:
		if len(s.Hands) != 0 || s.CurrentTurn != "" {
			return fmt.Errorf("waiting session has dealt state")
		}
	case StatusPlaying:
		if !slices.Contains(s.PlayerOrder, s.CurrentTurn) {
			return fmt.Errorf("currentTurn %q not in playerOrder", s.CurrentTurn)
		}
		for _, id := range s.PlayerOrder {
			if len(s.Hands[id]) != CardsPerPlayer {
				return fmt.Errorf("player %s has %d cards", id, len(s.Hands[id]))
			}
		}
	case StatusCompleted:
		if len(s.Results) != len(s.PlayerOrder) {
			return fmt.Errorf("results cover %d of %d players", len(s.Results), len(s.PlayerOrder))
		}
		seen := make(map[string]bool, len(s.Results))
		for _, r := range s.Results {
			if _, ok := s.Players[r.PlayerID]; !ok {
				return fmt.Errorf("results reference unknown player %s", r.PlayerID)
			}
			if seen[r.PlayerID] {
				return fmt.Errorf("results list player %s twice", r.PlayerID)
			}
			seen[r.PlayerID] = true
		}
	default:
		return fmt.Errorf("unknown status %q", s.Status)
	}
	return nil
}
