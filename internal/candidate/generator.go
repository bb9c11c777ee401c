// Package candidate implements the three lazy candidate generators —
// dictionary, pattern, and brute-force — plus the two small behavioral
// interfaces the search driver uses to partition and drain them without
// caring which concrete generator it was handed.
package candidate

// Mode identifies which attack mode produced a Source, for diagnostics and
// for the Orchestrator's mode-selection bookkeeping.
type Mode int

const (
	ModeDictionary Mode = iota
	ModePattern
	ModeBruteForce
)

func (m Mode) String() string {
	switch m {
	case ModeDictionary:
		return "dictionary"
	case ModePattern:
		return "pattern"
	case ModeBruteForce:
		return "brute-force"
	default:
		return "unknown"
	}
}

// Source is implemented by every candidate generator.
type Source interface {
	Mode() Mode
}

// Indexed is implemented by generators whose candidate space is addressable
// by (tier, index) pairs — pattern and brute-force. Each tier is an
// independent contiguous range of indices sized Tiers()[i]; a generator with
// a single tier (pattern) just reports one element.
type Indexed interface {
	Source
	// Tiers reports the cardinality of each tier, in enumeration order.
	Tiers() []int64
	// At materializes the candidate at the given index within the given
	// tier. It never mutates generator state and may be called concurrently
	// from multiple goroutines with disjoint or overlapping indices.
	At(tier int, index int64) []byte
}

// Ranged is implemented by generators that partition via byte ranges over a
// memory-mapped region — dictionary.
type Ranged interface {
	Source
	// Len reports the total mapped length in bytes.
	Len() int64
	// Scan calls yield once per non-empty, non-oversized entry whose
	// separator-delimited span starts at or after start and whose own start
	// is before end (the entry that begins before "end" but crosses it
	// still belongs to this range and is yielded in full). The caller is
	// responsible for not also giving an entry to two ranges: the driver
	// achieves this by having every range but the first skip forward past
	// a word it starts in the middle of, while leaving a start that
	// already lands on a word boundary untouched so that word isn't
	// skipped by either range. Scan stops early if yield returns false.
	Scan(start, end int64, yield func([]byte) bool)
}
