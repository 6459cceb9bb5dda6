package poker

import (
	"testing"

	"drawpoker/internal/deck"
)

func card(v deck.Value, s deck.Suit) deck.Card { return deck.Card{Suit: s, Value: v} }

func hand(cards ...deck.Card) []deck.Card { return cards }

func TestEvaluateCategories(t *testing.T) {
	cases := []struct {
		name     string
		hand     []deck.Card
		wantRank int
		wantName string
	}{
		{
			name: "royal flush",
			hand: hand(
				card(deck.Ten, deck.Hearts), card(deck.Jack, deck.Hearts),
				card(deck.Queen, deck.Hearts), card(deck.King, deck.Hearts),
				card(deck.Ace, deck.Hearts)),
			wantRank: 10, wantName: "Royal Flush",
		},
		{
			name: "straight flush",
			hand: hand(
				card(deck.Five, deck.Clubs), card(deck.Six, deck.Clubs),
				card(deck.Seven, deck.Clubs), card(deck.Eight, deck.Clubs),
				card(deck.Nine, deck.Clubs)),
			wantRank: 9, wantName: "Straight Flush",
		},
		{
			name: "four of a kind",
			hand: hand(
				card(deck.Nine, deck.Hearts), card(deck.Nine, deck.Clubs),
				card(deck.Nine, deck.Spades), card(deck.Nine, deck.Diamonds),
				card(deck.Two, deck.Hearts)),
			wantRank: 8, wantName: "Four of a Kind",
		},
		{
			name: "full house",
			hand: hand(
				card(deck.King, deck.Hearts), card(deck.King, deck.Clubs),
				card(deck.King, deck.Spades), card(deck.Four, deck.Diamonds),
				card(deck.Four, deck.Hearts)),
			wantRank: 7, wantName: "Full House",
		},
		{
			name: "flush",
			hand: hand(
				card(deck.Two, deck.Spades), card(deck.Five, deck.Spades),
				card(deck.Nine, deck.Spades), card(deck.Jack, deck.Spades),
				card(deck.King, deck.Spades)),
			wantRank: 6, wantName: "Flush",
		},
		{
			name: "straight",
			hand: hand(
				card(deck.Six, deck.Hearts), card(deck.Seven, deck.Clubs),
				card(deck.Eight, deck.Spades), card(deck.Nine, deck.Diamonds),
				card(deck.Ten, deck.Hearts)),
			wantRank: 5, wantName: "Straight",
		},
		{
			name: "wheel straight",
			hand: hand(
				card(deck.Ace, deck.Hearts), card(deck.Two, deck.Clubs),
				card(deck.Three, deck.Diamonds), card(deck.Four, deck.Hearts),
				card(deck.Five, deck.Spades)),
			wantRank: 5, wantName: "Straight",
		},
		{
			name: "three of a kind",
			hand: hand(
				card(deck.Seven, deck.Hearts), card(deck.Seven, deck.Clubs),
				card(deck.Seven, deck.Spades), card(deck.Two, deck.Diamonds),
				card(deck.Nine, deck.Hearts)),
			wantRank: 4, wantName: "Three of a Kind",
		},
		{
			name: "two pair",
			hand: hand(
				card(deck.Jack, deck.Hearts), card(deck.Jack, deck.Clubs),
				card(deck.Four, deck.Spades), card(deck.Four, deck.Diamonds),
				card(deck.Nine, deck.Hearts)),
			wantRank: 3, wantName: "Two Pair",
		},
		{
			name: "one pair",
			hand: hand(
				card(deck.Queen, deck.Hearts), card(deck.Queen, deck.Clubs),
				card(deck.Four, deck.Spades), card(deck.Seven, deck.Diamonds),
				card(deck.Nine, deck.Hearts)),
			wantRank: 2, wantName: "One Pair",
		},
		{
			name: "high card",
			hand: hand(
				card(deck.Two, deck.Hearts), card(deck.Five, deck.Clubs),
				card(deck.Nine, deck.Spades), card(deck.Jack, deck.Diamonds),
				card(deck.King, deck.Hearts)),
			wantRank: 1, wantName: "High Card",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.hand)
			if got.Rank != tc.wantRank || got.Name != tc.wantName {
				t.Fatalf("got %d/%s, want %d/%s", got.Rank, got.Name, tc.wantRank, tc.wantName)
			}
		})
	}
}

// A flush that is also a straight must never evaluate as plain Flush
// or plain Straight.
func TestStraightFlushIsNotPlainFlush(t *testing.T) {
	h := hand(
		card(deck.Four, deck.Diamonds), card(deck.Five, deck.Diamonds),
		card(deck.Six, deck.Diamonds), card(deck.Seven, deck.Diamonds),
		card(deck.Eight, deck.Diamonds))
	got := Evaluate(h)
	if got.Rank != 9 {
		t.Fatalf("straight flush evaluated as %s", got.Name)
	}
}

func TestRankOrdersByCategory(t *testing.T) {
	pair := hand(
		card(deck.Two, deck.Hearts), card(deck.Two, deck.Clubs),
		card(deck.Five, deck.Spades), card(deck.Seven, deck.Diamonds),
		card(deck.Nine, deck.Hearts))
	flush := hand(
		card(deck.Two, deck.Spades), card(deck.Five, deck.Spades),
		card(deck.Nine, deck.Spades), card(deck.Jack, deck.Spades),
		card(deck.King, deck.Spades))

	ranked := Rank([][]deck.Card{pair, flush})
	if ranked[0].Player != 1 || ranked[1].Player != 0 {
		t.Fatalf("flush should beat pair, got order %d,%d", ranked[0].Player, ranked[1].Player)
	}
}

// Equal pair rank, ace kicker vs king kicker: the ace kicker wins.
func TestRankBreaksTiesByKicker(t *testing.T) {
	kingKicker := hand(
		card(deck.Eight, deck.Hearts), card(deck.Eight, deck.Clubs),
		card(deck.King, deck.Spades), card(deck.Four, deck.Diamonds),
		card(deck.Two, deck.Hearts))
	aceKicker := hand(
		card(deck.Eight, deck.Spades), card(deck.Eight, deck.Diamonds),
		card(deck.Ace, deck.Hearts), card(deck.Four, deck.Clubs),
		card(deck.Two, deck.Spades))

	ranked := Rank([][]deck.Card{kingKicker, aceKicker})
	if ranked[0].Player != 1 {
		t.Fatalf("ace kicker should rank first, got player %d", ranked[0].Player)
	}
}

// Identical ranks keep their input order.
func TestRankIsStableOnFullTies(t *testing.T) {
	a := hand(
		card(deck.Eight, deck.Hearts), card(deck.Eight, deck.Clubs),
		card(deck.King, deck.Spades), card(deck.Four, deck.Diamonds),
		card(deck.Two, deck.Hearts))
	b := hand(
		card(deck.Eight, deck.Spades), card(deck.Eight, deck.Diamonds),
		card(deck.King, deck.Hearts), card(deck.Four, deck.Clubs),
		card(deck.Two, deck.Spades))

	ranked := Rank([][]deck.Card{a, b})
	if ranked[0].Player != 0 || ranked[1].Player != 1 {
		t.Fatalf("tie should preserve input order, got %d,%d", ranked[0].Player, ranked[1].Player)
	}
	if ranked[0].Evaluation != ranked[1].Evaluation {
		t.Fatalf("equal hands should produce equal evaluations")
	}
}
