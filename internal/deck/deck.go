package deck

import (
	"errors"
	"math/rand"
	"slices"
)

var ErrExhausted = errors.New("deck exhausted")

type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

type Value string

const (
	Two   Value = "2"
	Three Value = "3"
	Four  Value = "4"
	Five  Value = "5"
	Six   Value = "6"
	Seven Value = "7"
	Eight Value = "8"
	Nine  Value = "9"
	Ten   Value = "10"
	Jack  Value = "J"
	Queen Value = "Q"
	King  Value = "K"
	Ace   Value = "A"
)

var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

var Values = []Value{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// Card is an immutable value object; its identity is derived from
// value and suit, never assigned separately.
type Card struct {
	Suit  Suit  `json:"suit"`
	Value Value `json:"value"`
}

func (c Card) ID() string {
	return string(c.Value) + "_of_" + string(c.Suit)
}

// Rank returns the comparison rank of the card, Ace high.
func (c Card) Rank() int {
	switch c.Value {
	case Jack:
		return 11
	case Queen:
		return 12
	case King:
		return 13
	case Ace:
		return 14
	case Ten:
		return 10
	default:
		return int(c.Value[0] - '0')
	}
}

// New returns the full 52-card deck in suit-major order.
func New() []Card {
	cards := make([]Card, 0, 52)
	for _, s := range Suits {
		for _, v := range Values {
			cards = append(cards, Card{Suit: s, Value: v})
		}
	}
	return cards
}

// Shuffle returns a shuffled copy of the given deck. The input is
// left untouched so callers may reuse it.
func Shuffle(cards []Card) []Card {
	out := slices.Clone(cards)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal draws from the tail of the deck, filling each hand in turn.
// It fails with ErrExhausted when the deck cannot fill every hand;
// it never returns short hands.
func Deal(cards []Card, numPlayers, cardsPerPlayer int) ([][]Card, []Card, error) {
	if len(cards) < numPlayers*cardsPerPlayer {
		return nil, cards, ErrExhausted
	}

	remaining := slices.Clone(cards)
	hands := make([][]Card, numPlayers)
	for i := range hands {
		hand := make([]Card, 0, cardsPerPlayer)
		for j := 0; j < cardsPerPlayer; j++ {
			hand = append(hand, remaining[len(remaining)-1])
			remaining = remaining[:len(remaining)-1]
		}
		hands[i] = hand
	}
	return hands, remaining, nil
}

// Exchange replaces the cards at the given hand indices with cards
// popped from the deck. An index is only replaced when it is in range
// and a card remains; anything else is skipped.
func Exchange(hand []Card, indices []int, cards []Card) ([]Card, []Card) {
	newHand := slices.Clone(hand)
	remaining := slices.Clone(cards)
	for _, idx := range indices {
		if idx < 0 || idx >= len(newHand) || len(remaining) == 0 {
			continue
		}
		newHand[idx] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
	}
	return newHand, remaining
}
