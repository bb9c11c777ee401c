package search

import "sync/atomic"

// foundFlag is the Shared Found Flag plus its paired Found Password and
// Abort Error slots. At most one of trySetFound/trySetAborted ever wins the
// underlying compare-and-swap; every later caller observes that the flag is
// already set and discards its own result.
type foundFlag struct {
	done     atomic.Bool
	password atomic.Pointer[[]byte]
	abortErr atomic.Pointer[error]
}

// trySetFound attempts to claim the flag for a successful match. It reports
// whether this call was the winner.
func (f *foundFlag) trySetFound(password []byte) bool {
	if !f.done.CompareAndSwap(false, true) {
		return false
	}
	owned := append([]byte(nil), password...)
	f.password.Store(&owned)
	return true
}

// trySetAborted attempts to claim the flag for a fatal Oracle or context
// error. It reports whether this call was the winner.
func (f *foundFlag) trySetAborted(err error) bool {
	if !f.done.CompareAndSwap(false, true) {
		return false
	}
	f.abortErr.Store(&err)
	return true
}

// isSet reports whether any worker has already claimed the flag, for the
// chunk-boundary poll.
func (f *foundFlag) isSet() bool {
	return f.done.Load()
}

// getPassword returns the winning password, if any worker found one.
func (f *foundFlag) getPassword() ([]byte, bool) {
	p := f.password.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// getAbortError returns the winning abort error, if any worker aborted.
func (f *foundFlag) getAbortError() error {
	e := f.abortErr.Load()
	if e == nil {
		return nil
	}
	return *e
}
