package draw

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSeed(t *testing.T) {
	tests := []struct {
		description string
		slot        uint64
		timestamp   int64
		formId      string
		count       uint32
		expected    uint64
	}{
		{
			description: "minimal inputs",
			slot:        1,
			timestamp:   0,
			formId:      "a",
			count:       1,
			expected:    32799,
		},
		{
			description: "realistic form",
			slot:        98765,
			timestamp:   1767225600,
			formId:      "launch-survey",
			count:       12,
			expected:    11479476078605429611,
		},
	}
	a := assert.New(t)
	for _, test := range tests {
		a.Equal(test.expected, DeriveSeed(test.slot, test.timestamp, test.formId, test.count), test.description)
	}
}

func TestDeriveSeedIsInputSensitive(t *testing.T) {
	a := assert.New(t)
	base := DeriveSeed(500, 1700000000, "form-1", 4)
	a.NotEqual(base, DeriveSeed(501, 1700000000, "form-1", 4))
	a.NotEqual(base, DeriveSeed(500, 1700000001, "form-1", 4))
	a.NotEqual(base, DeriveSeed(500, 1700000000, "form-2", 4))
	a.NotEqual(base, DeriveSeed(500, 1700000000, "form-1", 5))
}

func TestPermuteKnownVectors(t *testing.T) {
	tests := []struct {
		description string
		seed        uint64
		n           int
		expected    []int
	}{
		{"seed 1, 5 entries", 1, 5, []int{0, 1, 2, 4, 3}},
		{"seed 424242, 8 entries", 424242, 8, []int{2, 3, 0, 5, 6, 1, 4, 7}},
		{"derived seed, 12 entries", 11479476078605429611, 12, []int{1, 7, 10, 5, 0, 2, 9, 11, 4, 8, 3, 6}},
	}
	a := assert.New(t)
	for _, test := range tests {
		a.Equal(test.expected, Permute(test.seed, test.n), test.description)
	}
}

func TestPermuteIsAPermutation(t *testing.T) {
	a := assert.New(t)
	for _, n := range []int{1, 2, 7, 10, 11, 100} {
		perm := Permute(0xDEADBEEFCAFEF00D, n)
		a.Len(perm, n)
		sorted := append([]int(nil), perm...)
		sort.Ints(sorted)
		for i, v := range sorted {
			a.Equal(i, v, "every arrival index appears exactly once")
		}
	}
}

func TestPermuteIsReproducible(t *testing.T) {
	a := assert.New(t)
	seed := DeriveSeed(12345, 1767225600, "repro-check", 40)
	first := Permute(seed, 40)
	for i := 0; i < 50; i++ {
		a.Equal(first, Permute(seed, 40))
	}
}

func TestWinnersCapsAtTen(t *testing.T) {
	a := assert.New(t)
	winners := Winners(0xDEADBEEFCAFEF00D, 25)
	a.Equal([]int{22, 12, 4, 8, 6, 18, 5, 1, 19, 23}, winners)
	a.Len(winners, MaxWinners)

	seen := map[int]bool{}
	for _, idx := range winners {
		a.False(seen[idx], "no index selected twice")
		a.GreaterOrEqual(idx, 0)
		a.Less(idx, 25)
		seen[idx] = true
	}
}

func TestWinnersBelowCapEveryoneWins(t *testing.T) {
	a := assert.New(t)
	for n := 1; n <= MaxWinners; n++ {
		winners := Winners(uint64(n)*7919, n)
		a.Len(winners, n)
		sorted := append([]int(nil), winners...)
		sort.Ints(sorted)
		for i, v := range sorted {
			a.Equal(i, v)
		}
	}
}

func TestWinnersCount(t *testing.T) {
	a := assert.New(t)
	a.Equal(0, WinnersCount(0))
	a.Equal(3, WinnersCount(3))
	a.Equal(10, WinnersCount(10))
	a.Equal(10, WinnersCount(11))
	a.Equal(10, WinnersCount(5000))
}

func TestShareFloorDivision(t *testing.T) {
	tests := []struct {
		description string
		pool        int64
		winners     int
		expected    int64
	}{
		{"even split", 1000, 10, 100},
		{"floor division", 1000, 3, 333},
		{"single winner", 999, 1, 999},
		{"no winners", 1000, 0, 0},
	}
	a := assert.New(t)
	for _, test := range tests {
		a.Equal(test.expected, Share(test.pool, test.winners), test.description)
	}
}

func TestShareRemainderNeverLeaks(t *testing.T) {
	a := assert.New(t)
	for _, pool := range []int64{1, 999, 1000, 123456789} {
		for w := 1; w <= MaxWinners; w++ {
			share := Share(pool, w)
			remainder := pool - share*int64(w)
			a.GreaterOrEqual(remainder, int64(0))
			a.Less(remainder, int64(w), "remainder stays below one extra share")
		}
	}
}
