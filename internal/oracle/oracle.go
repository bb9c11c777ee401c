// Package oracle implements the Archive Oracle: the single primitive that
// decides whether a candidate byte string is the password protecting a
// PKCS#12 archive.
package oracle

import (
	"errors"
	"fmt"

	"github.com/gematik/zero-lab/go/pkcs12"
)

// Result classifies a Verify call that did not hit a structural problem
// with the archive itself.
type Result int

const (
	// NoMatch means the candidate is not the archive's password.
	NoMatch Result = iota
	// Match means the candidate is the archive's password.
	Match
)

func (r Result) String() string {
	if r == Match {
		return "match"
	}
	return "no-match"
}

// ErrNoMAC is returned when the archive carries no MacData to verify a
// password against; there is nothing for the Oracle to check.
var ErrNoMAC = errors.New("oracle: archive has no integrity MAC to verify")

// Oracle answers "does this password open this archive?" It must be safe
// to call Verify concurrently from many goroutines.
type Oracle interface {
	// Verify classifies candidate. A non-nil error means the archive could
	// not be checked at all (a HardError per the search driver's contract);
	// it is never returned for a simply-wrong password.
	Verify(candidate []byte) (Result, error)
}

type pkcs12Oracle struct {
	pfx *pkcs12.PFX
}

// New parses archiveBytes once and returns an Oracle backed by the parsed
// structure. It fails fast with a parse error (ArchiveOpenError-class) if the
// bytes do not parse as a PKCS#12 PFX, and with ErrNoMAC
// (HardOracleError-class) if the PFX carries no MacData.
func New(archiveBytes []byte) (Oracle, error) {
	pfx, err := pkcs12.Parse(archiveBytes)
	if err != nil {
		return nil, fmt.Errorf("oracle: parse archive: %w", err)
	}
	if pfx.MacData == nil {
		return nil, ErrNoMAC
	}
	return &pkcs12Oracle{pfx: pfx}, nil
}

// Verify recomputes the archive's MAC with candidate as the password and
// compares it against the stored digest. It never re-parses the archive.
func (o *pkcs12Oracle) Verify(candidate []byte) (Result, error) {
	err := pkcs12.VerifyMAC(o.pfx, candidate)
	switch {
	case err == nil:
		return Match, nil
	case errors.Is(err, pkcs12.ErrAuthentication):
		return NoMatch, nil
	default:
		// Anything else (unsupported MAC algorithm, malformed MacData) is
		// independent of the candidate and therefore fatal to the whole run.
		return NoMatch, fmt.Errorf("oracle: verify MAC: %w", err)
	}
}
