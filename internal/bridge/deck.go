package bridge

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sort"
)

// Cards are two-character rank+suit codes: "AS" is the ace of spades,
// "7H" the seven of hearts. This is also the wire format agents see.

// Suits in deal-sort order: spades, hearts, diamonds, clubs.
var Suits = []string{"S", "H", "D", "C"}

// Ranks from high to low. "T" is ten.
var Ranks = []string{"A", "K", "Q", "J", "T", "9", "8", "7", "6", "5", "4", "3", "2"}

var rankValues = map[byte]int{
	'A': 14, 'K': 13, 'Q': 12, 'J': 11, 'T': 10,
	'9': 9, '8': 8, '7': 7, '6': 6, '5': 5, '4': 4, '3': 3, '2': 2,
}

var suitOrder = map[byte]int{'S': 0, 'H': 1, 'D': 2, 'C': 3}

// NewDeck returns the full 52-card deck.
func NewDeck() []string {
	deck := make([]string, 0, 52)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck = append(deck, rank+suit)
		}
	}
	return deck
}

// CardSuit returns the suit character of a card, e.g. "S" for "AS".
func CardSuit(card string) string {
	return card[1:2]
}

// CardRank returns the rank character of a card, e.g. "A" for "AS".
func CardRank(card string) string {
	return card[0:1]
}

// RankValue returns the comparable rank value of a card (2..14).
func RankValue(card string) int {
	return rankValues[card[0]]
}

// IsValidCard reports whether card is a well-formed rank+suit code.
func IsValidCard(card string) bool {
	if len(card) != 2 {
		return false
	}
	_, rankOK := rankValues[card[0]]
	_, suitOK := suitOrder[card[1]]
	return rankOK && suitOK
}

// ShuffleAndDeal shuffles a fresh deck with the given seed and deals four
// sorted 13-card hands keyed by position 0-3. The same seed always produces
// the same deal, which is what makes simulations replayable.
func ShuffleAndDeal(seed int64) map[int][]string {
	deck := NewDeck()
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	hands := make(map[int][]string, 4)
	for pos := 0; pos < 4; pos++ {
		hand := make([]string, 13)
		copy(hand, deck[pos*13:(pos+1)*13])
		sortHand(hand)
		hands[pos] = hand
	}
	return hands
}

// sortHand orders cards by suit (S, H, D, C) then by descending rank.
func sortHand(hand []string) {
	sort.Slice(hand, func(i, j int) bool {
		si, sj := suitOrder[hand[i][1]], suitOrder[hand[j][1]]
		if si != sj {
			return si < sj
		}
		return rankValues[hand[i][0]] > rankValues[hand[j][0]]
	})
}

// CompareCards decides which of two distinct cards wins a trick given the
// trump suit ("" for notrump) and the suit that was led. Returns 1 if a
// wins, -1 if b wins. Trump beats non-trump; following the lead suit beats
// discarding; otherwise higher rank wins.
func CompareCards(a, b, trump, lead string) int {
	suitA, suitB := CardSuit(a), CardSuit(b)

	if trump != "" {
		if suitA == trump && suitB != trump {
			return 1
		}
		if suitB == trump && suitA != trump {
			return -1
		}
	}

	if suitA == lead && suitB != lead {
		return 1
	}
	if suitB == lead && suitA != lead {
		return -1
	}

	if RankValue(a) > RankValue(b) {
		return 1
	}
	if RankValue(a) < RankValue(b) {
		return -1
	}
	return 0
}

// randomSeed draws a deal seed from crypto/rand for unseeded games.
func randomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand failing is not survivable in any useful way.
		panic(err)
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
