/*
Package draw holds the deterministic winner-selection protocol.

Everything here is a pure function of public state: given a form's frozen
random seed and its arrival-ordered participant list, any observer must be
able to recompute the exact winner set. The constants and the mixing steps
are a wire contract, not an implementation detail. Changing them changes
past winner sets and breaks independent verification.
*/
package draw

// MaxWinners is the fixed cap of winners per form.
const MaxWinners = 10

const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
)

// DeriveSeed mixes the ledger slot, the distribution timestamp, the form id
// bytes and the participant count into the form's random seed. The slot and
// timestamp are read at distribution time, after the deadline, so neither the
// authority nor any participant can precompute the result. All arithmetic is
// 64-bit wraparound.
func DeriveSeed(slot uint64, timestamp int64, formId string, participantCount uint32) uint64 {
	seed := slot
	seed = seed*31 + uint64(timestamp)
	for _, b := range []byte(formId) {
		seed = seed*31 + uint64(b)
	}
	seed = seed*31 + uint64(participantCount)
	return seed
}

// lcg is the 32-bit signed wraparound generator driving the shuffle,
// seeded from the low 32 bits of the form seed.
type lcg struct {
	state int32
}

func newLcg(seed uint64) *lcg {
	return &lcg{state: int32(uint32(seed))}
}

func (g *lcg) next() int64 {
	g.state = int32(uint32(g.state)*lcgMultiplier + lcgIncrement)
	v := int64(g.state)
	if v < 0 {
		v = -v
	}
	return v
}

// Permute returns the seeded Fisher-Yates permutation of the arrival indices
// 0..n-1. Arrival order is the canonical selection domain: participant_index
// is assigned at submission time and never reordered.
func Permute(seed uint64, n int) []int {
	arr := make([]int, n)
	for i := range arr {
		arr[i] = i
	}
	g := newLcg(seed)
	for i := n - 1; i > 0; i-- {
		j := int(g.next() % int64(i+1))
		arr[i], arr[j] = arr[j], arr[i]
	}
	return arr
}

// WinnersCount returns how many winners a form with the given participant
// count gets: everyone when the cap is not reached.
func WinnersCount(participantCount int) int {
	if participantCount < MaxWinners {
		return participantCount
	}
	return MaxWinners
}

// Winners returns the participant indices selected as winners: the first
// min(n, MaxWinners) entries of the seeded permutation.
func Winners(seed uint64, participantCount int) []int {
	return Permute(seed, participantCount)[:WinnersCount(participantCount)]
}

// Share is the per-winner payout under floor division. The remainder stays
// in form custody and is swept back to the authority when the form closes.
func Share(prizePool int64, winners int) int64 {
	if winners == 0 {
		return 0
	}
	return prizePool / int64(winners)
}
