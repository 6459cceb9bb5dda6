package types

import "drawpoker/internal/game"

// ServerMessage is what the observation sockets push.
type ServerMessage struct {
	Type  string          `json:"type"` // "GameSnapshot" | "GameDeleted" | "GameList" | "Error"
	Game  *game.Session   `json:"game,omitempty"`
	Games []*game.Session `json:"games,omitempty"`
	Error string          `json:"error,omitempty"`
}

type CreateGameRequest struct {
	Name string `json:"name"`
}

type ExchangeRequest struct {
	Indices []int `json:"cardsToExchangeIndices"`
}

type AnonymousAuthRequest struct {
	DisplayName string `json:"displayName"`
}
