package candidate

import "fmt"

// Pattern enumerates every assignment of a template's wildcard positions to
// alphabet elements, leftmost wildcard varying slowest. A template with no
// wildcards yields itself exactly once.
type Pattern struct {
	template  []rune
	wildcards []int
	alphabet  []rune
	size      int64
}

// NewPattern validates and constructs a pattern generator. wildcard is the
// rune marking a variable position in template. If template contains at
// least one wildcard, alphabet must be non-empty.
func NewPattern(template []rune, wildcard rune, alphabet []rune) (*Pattern, error) {
	var wildcards []int
	for i, r := range template {
		if r == wildcard {
			wildcards = append(wildcards, i)
		}
	}

	if len(wildcards) > 0 && len(alphabet) == 0 {
		return nil, fmt.Errorf("candidate: pattern has wildcards but the alphabet is empty")
	}

	size := saturatingPow(int64(len(alphabet)), len(wildcards))
	if len(wildcards) == 0 {
		size = 1
	}

	return &Pattern{template: template, wildcards: wildcards, alphabet: alphabet, size: size}, nil
}

// Mode implements Source.
func (p *Pattern) Mode() Mode { return ModePattern }

// Tiers implements Indexed: a pattern has exactly one tier.
func (p *Pattern) Tiers() []int64 { return []int64{p.size} }

// At implements Indexed.
func (p *Pattern) At(tier int, index int64) []byte {
	out := make([]rune, len(p.template))
	copy(out, p.template)

	k := len(p.wildcards)
	if k == 0 {
		return []byte(string(out))
	}

	base := int64(len(p.alphabet))
	digits := make([]int64, k)
	for i := k - 1; i >= 0; i-- {
		digits[i] = index % base
		index /= base
	}

	for i, pos := range p.wildcards {
		out[pos] = p.alphabet[digits[i]]
	}
	return []byte(string(out))
}
