// Package search implements the Parallel Search Driver: partitioning a
// candidate generator across worker goroutines, invoking the Archive
// Oracle, and coordinating early termination via a shared atomic flag.
//
// Grounded on pinfinder's findPIN (_examples/Vxer-Lee-pinfinder/pinfinder.go):
// the same "split an index range across runtime.NumCPU() goroutines, first
// one to match wins" shape, but the winner is now decided by a
// compare-and-swap on an atomic flag instead of a race between an
// unbuffered channel send and a WaitGroup, and the archive's much larger
// space is chunked instead of being handed out one candidate at a time.
package search

import (
	"context"
	"fmt"
	"math/bits"
	"sync"

	"pfxrecover/internal/candidate"
	"pfxrecover/internal/oracle"
)

// DefaultChunkSize is the number of consecutive candidates a worker drains
// between Found-Flag polls.
const DefaultChunkSize = 1024

// Outcome classifies how a Search call ended.
type Outcome int

const (
	// Exhausted means the generator was fully drained without a match.
	Exhausted Outcome = iota
	// Found means some worker's Oracle call matched.
	Found
)

// Result is the Search Driver's contract: Found carries the password;
// Exhausted carries nothing else. Aborted is reported as a returned error,
// not as an Outcome value.
type Result struct {
	Outcome  Outcome
	Password []byte
}

// Driver runs one search over one generator.
type Driver struct {
	// ChunkSize is the number of candidates drained between Found-Flag
	// polls. Zero selects DefaultChunkSize.
	ChunkSize int
}

// New constructs a Driver with the given chunk size (DefaultChunkSize if
// chunkSize <= 0).
func New(chunkSize int) *Driver {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Driver{ChunkSize: chunkSize}
}

// Search partitions src across threads workers, each calling oracle.Verify
// on its share of the candidate space, and returns as soon as any worker
// matches, the space is exhausted, or ctx is canceled. A non-nil error
// means Aborted: either a HardError surfaced by the Oracle, or ctx's error.
func (d *Driver) Search(ctx context.Context, src candidate.Source, oc oracle.Oracle, threads int) (Result, error) {
	if threads <= 0 {
		threads = 1
	}

	flag := &foundFlag{}
	var wg sync.WaitGroup

	switch g := src.(type) {
	case candidate.Indexed:
		d.searchIndexed(ctx, g, oc, threads, flag, &wg)
	case candidate.Ranged:
		d.searchRanged(ctx, g, oc, threads, flag, &wg)
	default:
		return Result{}, fmt.Errorf("search: generator %T implements neither Indexed nor Ranged", src)
	}

	wg.Wait()

	if err := flag.getAbortError(); err != nil {
		return Result{}, err
	}
	if pw, ok := flag.getPassword(); ok {
		return Result{Outcome: Found, Password: pw}, nil
	}
	return Result{Outcome: Exhausted}, nil
}

// searchIndexed partitions each tier's [0, size) index range into threads
// contiguous sub-ranges and assigns worker i the i-th sub-range of every
// tier, per the spec's mixed-radix partitioning.
func (d *Driver) searchIndexed(ctx context.Context, g candidate.Indexed, oc oracle.Oracle, threads int, flag *foundFlag, wg *sync.WaitGroup) {
	tiers := g.Tiers()
	chunk := int64(d.ChunkSize)
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	for w := 0; w < threads; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			for tierIdx, size := range tiers {
				lo, hi := partitionRange(size, threads, worker)

				for start := lo; start < hi; start += chunk {
					if flag.isSet() {
						return
					}
					if err := ctx.Err(); err != nil {
						flag.trySetAborted(err)
						return
					}

					end := start + chunk
					if end > hi {
						end = hi
					}

					for idx := start; idx < end; idx++ {
						candBytes := g.At(tierIdx, idx)
						res, err := oc.Verify(candBytes)
						if err != nil {
							flag.trySetAborted(err)
							return
						}
						if res == oracle.Match {
							flag.trySetFound(candBytes)
							return
						}
					}
				}
			}
		}(w)
	}
}

// separatorSeeker is implemented by Ranged generators (Dictionary) that can
// report where word boundaries fall, letting the driver shift a worker's
// start forward past a word already owned by the previous worker without
// also skipping a word that happens to start exactly on the partition
// boundary.
type separatorSeeker interface {
	NextSeparatorAtOrAfter(from int64) int64
	AtEntryBoundary(pos int64) bool
}

// searchRanged partitions a Ranged generator's byte length into threads
// roughly-equal byte ranges, adjusting each worker's start to the next
// separator so no word is split between two workers.
func (d *Driver) searchRanged(ctx context.Context, g candidate.Ranged, oc oracle.Oracle, threads int, flag *foundFlag, wg *sync.WaitGroup) {
	total := g.Len()
	seeker, _ := g.(separatorSeeker)

	for w := 0; w < threads; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			start, end := partitionRange(total, threads, worker)
			if worker > 0 && seeker != nil && !seeker.AtEntryBoundary(start) {
				start = seeker.NextSeparatorAtOrAfter(start) + 1
			}
			if start >= total {
				return
			}

			g.Scan(start, end, func(candBytes []byte) bool {
				if flag.isSet() {
					return false
				}
				if err := ctx.Err(); err != nil {
					flag.trySetAborted(err)
					return false
				}

				res, err := oc.Verify(candBytes)
				if err != nil {
					flag.trySetAborted(err)
					return false
				}
				if res == oracle.Match {
					flag.trySetFound(candBytes)
					return false
				}
				return true
			})
		}(w)
	}
}

// partitionRange splits [0, size) into workers contiguous, non-overlapping
// sub-ranges and returns the idx-th one.
func partitionRange(size int64, workers, idx int) (lo, hi int64) {
	// size*i can exceed int64 for large brute-force tiers, so the product is
	// taken in 128 bits before dividing.
	bound := func(i int) int64 {
		h, l := bits.Mul64(uint64(size), uint64(i))
		q, _ := bits.Div64(h, l, uint64(workers))
		return int64(q)
	}
	return bound(idx), bound(idx + 1)
}
