package poker

import (
	"slices"
	"sort"

	"drawpoker/internal/deck"
)

// Evaluation is the category a five-card hand falls into. Rank totally
// orders categories; ties within a rank are broken by comparing the
// hands themselves, highest card first.
type Evaluation struct {
	Rank int    `json:"rank"`
	Name string `json:"name"`
}

// Ranked ties a hand back to its position in the input of Rank.
type Ranked struct {
	Player     int         `json:"playerId"`
	Evaluation Evaluation  `json:"evaluation"`
	Hand       []deck.Card `json:"hand"`
}

// Evaluate returns the highest category the hand satisfies.
func Evaluate(hand []deck.Card) Evaluation {
	switch {
	case isRoyalFlush(hand):
		return Evaluation{Rank: 10, Name: "Royal Flush"}
	case isFlush(hand) && isStraight(hand):
		return Evaluation{Rank: 9, Name: "Straight Flush"}
	case isFourOfAKind(hand):
		return Evaluation{Rank: 8, Name: "Four of a Kind"}
	case isFullHouse(hand):
		return Evaluation{Rank: 7, Name: "Full House"}
	case isFlush(hand):
		return Evaluation{Rank: 6, Name: "Flush"}
	case isStraight(hand):
		return Evaluation{Rank: 5, Name: "Straight"}
	case isThreeOfAKind(hand):
		return Evaluation{Rank: 4, Name: "Three of a Kind"}
	case isTwoPair(hand):
		return Evaluation{Rank: 3, Name: "Two Pair"}
	case isOnePair(hand):
		return Evaluation{Rank: 2, Name: "One Pair"}
	default:
		return Evaluation{Rank: 1, Name: "High Card"}
	}
}

// Rank orders hands strongest first: by category rank, then by
// comparing each hand's cards sorted by rank descending, position by
// position. Full ties keep their input order.
func Rank(hands [][]deck.Card) []Ranked {
	ranked := make([]Ranked, len(hands))
	for i, hand := range hands {
		ranked[i] = Ranked{Player: i, Evaluation: Evaluate(hand), Hand: hand}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Evaluation.Rank != b.Evaluation.Rank {
			return a.Evaluation.Rank > b.Evaluation.Rank
		}
		ar, br := ranksDescending(a.Hand), ranksDescending(b.Hand)
		for k := range ar {
			if ar[k] != br[k] {
				return ar[k] > br[k]
			}
		}
		return false
	})
	return ranked
}

func ranksDescending(hand []deck.Card) []int {
	ranks := make([]int, len(hand))
	for i, c := range hand {
		ranks[i] = c.Rank()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))
	return ranks
}

func countValues(hand []deck.Card) map[deck.Value]int {
	counts := make(map[deck.Value]int, len(hand))
	for _, c := range hand {
		counts[c.Value]++
	}
	return counts
}

func hasCount(hand []deck.Card, n int) bool {
	for _, count := range countValues(hand) {
		if count == n {
			return true
		}
	}
	return false
}

func isRoyalFlush(hand []deck.Card) bool {
	if !isFlush(hand) || !isStraight(hand) {
		return false
	}
	return ranksDescending(hand)[0] == 14
}

func isFourOfAKind(hand []deck.Card) bool { return hasCount(hand, 4) }

func isFullHouse(hand []deck.Card) bool { return hasCount(hand, 3) && hasCount(hand, 2) }

func isThreeOfAKind(hand []deck.Card) bool { return hasCount(hand, 3) }

func isTwoPair(hand []deck.Card) bool {
	pairs := 0
	for _, count := range countValues(hand) {
		if count == 2 {
			pairs++
		}
	}
	return pairs == 2
}

func isOnePair(hand []deck.Card) bool { return hasCount(hand, 2) }

func isFlush(hand []deck.Card) bool {
	for _, c := range hand[1:] {
		if c.Suit != hand[0].Suit {
			return false
		}
	}
	return true
}

func isStraight(hand []deck.Card) bool {
	ranks := make([]int, len(hand))
	for i, c := range hand {
		ranks[i] = c.Rank()
	}
	slices.Sort(ranks)

	// Ace counts low only in the wheel, A-2-3-4-5.
	if slices.Equal(ranks, []int{2, 3, 4, 5, 14}) {
		return true
	}

	for i := 1; i < len(ranks); i++ {
		if ranks[i] != ranks[i-1]+1 {
			return false
		}
	}
	return true
}
