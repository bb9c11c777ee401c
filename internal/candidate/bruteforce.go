package candidate

import (
	"fmt"
	"math"
)

// BruteForce enumerates every string over an alphabet for each length in
// [minLen, maxLen], rightmost position varying fastest within a length —
// i.e. counting in base len(alphabet).
//
// Grounded on the teacher's recursive getPasswords/getPasswordsWithPrefix:
// the same "fix a length, vary every position over the charset" idea, but
// addressed by index instead of recursion so the search driver can hand out
// disjoint index ranges to workers without materializing anything.
type BruteForce struct {
	alphabet []rune
	minLen   int
	tiers    []int64
}

// NewBruteForce validates and constructs a brute-force generator. alphabet
// must be non-empty and 1 <= minLen <= maxLen.
func NewBruteForce(alphabet []rune, minLen, maxLen int) (*BruteForce, error) {
	if len(alphabet) == 0 {
		return nil, fmt.Errorf("candidate: brute-force requires a non-empty alphabet")
	}
	if minLen < 1 {
		return nil, fmt.Errorf("candidate: min length must be positive, got %d", minLen)
	}
	if minLen > maxLen {
		return nil, fmt.Errorf("candidate: min length %d exceeds max length %d", minLen, maxLen)
	}

	base := int64(len(alphabet))
	tiers := make([]int64, 0, maxLen-minLen+1)
	for l := minLen; l <= maxLen; l++ {
		tiers = append(tiers, saturatingPow(base, l))
	}

	return &BruteForce{alphabet: alphabet, minLen: minLen, tiers: tiers}, nil
}

// Mode implements Source.
func (b *BruteForce) Mode() Mode { return ModeBruteForce }

// Tiers implements Indexed: one tier per length, in ascending length order.
func (b *BruteForce) Tiers() []int64 { return b.tiers }

// At implements Indexed: decodes index as a base-len(alphabet) number with
// (minLen+tier) digits, most significant digit first (leftmost).
func (b *BruteForce) At(tier int, index int64) []byte {
	length := b.minLen + tier
	base := int64(len(b.alphabet))

	out := make([]rune, length)
	for i := length - 1; i >= 0; i-- {
		out[i] = b.alphabet[index%base]
		index /= base
	}
	return []byte(string(out))
}

// saturatingPow computes base^exp, saturating at math.MaxInt64 on overflow
// instead of wrapping — a brute-force space this large will never finish
// anyway, but the tier size must stay a well-formed upper bound for
// partitioning arithmetic.
func saturatingPow(base int64, exp int) int64 {
	result := int64(1)
	for i := 0; i < exp; i++ {
		if result > math.MaxInt64/base {
			return math.MaxInt64
		}
		result *= base
	}
	return result
}
