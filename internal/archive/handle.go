// Package archive implements the Archive Handle: an immutable,
// memory-mapped, read-only view of a PKCS#12 file's bytes, shared across
// every search worker for the lifetime of a run.
package archive

import (
	"fmt"

	"golang.org/x/exp/mmap"
)

// Handle owns a memory-mapped archive file.
type Handle struct {
	reader *mmap.ReaderAt
	bytes  []byte
}

// Open memory-maps path and copies its contents into an in-process buffer
// once, so downstream PKCS#12 parsing can use plain []byte APIs without
// re-reading the map on every Oracle call. Unlike the dictionary, the
// archive is one file parsed once up front, not the candidate space itself,
// so its size never scales with the search — a single copy is cheap and
// buys pkcs12.Parse a contiguous []byte.
func Open(path string) (*Handle, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}

	data := make([]byte, r.Len())
	if r.Len() > 0 {
		if _, err := r.ReadAt(data, 0); err != nil {
			r.Close()
			return nil, fmt.Errorf("archive: read %s: %w", path, err)
		}
	}

	return &Handle{reader: r, bytes: data}, nil
}

// Bytes returns the archive's contents. The returned slice must not be
// mutated; it is shared read-only with every search worker.
func (h *Handle) Bytes() []byte { return h.bytes }

// Close releases the underlying memory map.
func (h *Handle) Close() error { return h.reader.Close() }
