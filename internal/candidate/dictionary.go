package candidate

import (
	"bytes"
	"fmt"

	"golang.org/x/exp/mmap"
)

// MaxEntryLen bounds a single dictionary entry; longer entries are skipped
// rather than treated as fatal, per the spec's dictionary generator design.
const MaxEntryLen = 4096

// scanBufSize is the initial read size used to hunt for the next separator.
// It grows by doubling only when an entry runs longer than this, so reading
// the dictionary stays proportional to the entry being read, not to the
// dictionary's total size.
const scanBufSize = 64 * 1024

// Dictionary is the Dictionary View: a memory-mapped wordlist split on a
// single separator byte. It implements Ranged so the search driver can
// partition it by byte range without sharing a cursor across workers.
// Scanning reads through the memory map on demand; the dictionary's
// contents are never copied into a single heap-resident buffer.
type Dictionary struct {
	reader *mmap.ReaderAt
	length int64
	sep    byte
}

// OpenDictionary memory-maps path and prepares it for separator-delimited
// scanning. The returned Dictionary owns the map and must be Closed.
func OpenDictionary(path string, sep byte) (*Dictionary, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("candidate: open dictionary: %w", err)
	}
	return &Dictionary{reader: r, length: int64(r.Len()), sep: sep}, nil
}

// Close releases the underlying memory map.
func (d *Dictionary) Close() error { return d.reader.Close() }

// Mode implements Source.
func (d *Dictionary) Mode() Mode { return ModeDictionary }

// Len implements Ranged.
func (d *Dictionary) Len() int64 { return d.length }

// Scan implements Ranged. See generator.go for the partitioning contract.
func (d *Dictionary) Scan(start, end int64, yield func([]byte) bool) {
	if start < 0 {
		start = 0
	}
	if end > d.length {
		end = d.length
	}

	pos := start
	for pos < end {
		entry, entryEnd, err := d.readEntry(pos)
		if err != nil {
			return
		}
		if len(entry) > 0 && len(entry) <= MaxEntryLen {
			if !yield(entry) {
				return
			}
		}
		if entryEnd >= d.length {
			return
		}
		pos = entryEnd + 1
	}
}

// NextSeparatorAtOrAfter reports the byte offset of the first separator at
// or after from, or Len() if the dictionary's tail has no more separators.
// Used by the search driver to shift a worker's starting offset past a word
// a previous worker already owns.
func (d *Dictionary) NextSeparatorAtOrAfter(from int64) int64 {
	if from >= d.length {
		return d.length
	}
	_, entryEnd, err := d.readEntry(from)
	if err != nil {
		return d.length
	}
	return entryEnd
}

// AtEntryBoundary reports whether pos is the start of an entry: either the
// beginning or end of the file, or the byte right after a separator. The
// search driver uses this to tell a worker whose raw range starts exactly
// on a word boundary (nothing to skip) apart from one that starts in the
// middle of a word a previous worker already owns (skip to the next word).
func (d *Dictionary) AtEntryBoundary(pos int64) bool {
	if pos <= 0 || pos >= d.length {
		return true
	}
	var prev [1]byte
	if _, err := d.reader.ReadAt(prev[:], pos-1); err != nil {
		return true
	}
	return prev[0] == d.sep
}

// readEntry reads forward from pos until it finds the separator (or runs
// off the end of the file), growing its read buffer only as far as the
// entry itself requires. It returns the entry's bytes (excluding the
// separator) and the absolute offset of that separator, or of Len() if
// the entry runs to the end of the file with no trailing separator.
func (d *Dictionary) readEntry(pos int64) ([]byte, int64, error) {
	size := int64(scanBufSize)
	for {
		remain := d.length - pos
		if remain <= 0 {
			return nil, d.length, nil
		}
		n := size
		if n > remain {
			n = remain
		}

		buf := make([]byte, n)
		if _, err := d.reader.ReadAt(buf, pos); err != nil {
			return nil, 0, fmt.Errorf("candidate: read dictionary at %d: %w", pos, err)
		}

		if idx := bytes.IndexByte(buf, d.sep); idx >= 0 {
			return buf[:idx], pos + int64(idx), nil
		}
		if n == remain {
			return buf, d.length, nil
		}
		size *= 2
	}
}
