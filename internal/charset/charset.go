// Package charset implements the Charset Resolver: turning the user's
// --charset selector and --custom-chars string into a deduplicated, ordered
// search alphabet.
package charset

import (
	"fmt"
)

// Special is the fixed punctuation set denoted by the "s" selector.
const Special = "!@#$%^&*()-_=+[]{}|;:,.<>?/"

const lower = "abcdefghijklmnopqrstuvwxyz"
const upper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
const digits = "0123456789"

// Alphabet is the Effective Alphabet: an ordered, deduplicated sequence of
// Unicode scalar values used by the pattern and brute-force generators.
type Alphabet []rune

// Len reports the alphabet's cardinality.
func (a Alphabet) Len() int { return len(a) }

// InvalidSelectorError reports a --charset selector containing a character
// outside {a, A, n, s, x}.
type InvalidSelectorError struct {
	Rune rune
}

func (e *InvalidSelectorError) Error() string {
	return fmt.Sprintf("charset: invalid selector character %q (want one of a,A,n,s,x)", e.Rune)
}

// Resolve builds the Effective Alphabet from the raw --charset selector and
// --custom-chars value. It returns the empty alphabet iff both inputs are
// empty. Order and duplicates within selector do not affect the result: the
// output is always ordered lowercase, uppercase, digits, special, followed
// by custom characters not already present, in their input order.
func Resolve(selector, customChars string) (Alphabet, error) {
	var wantLower, wantUpper, wantDigits, wantSpecial bool

	for _, r := range selector {
		switch r {
		case 'a':
			wantLower = true
		case 'A':
			wantUpper = true
		case 'n':
			wantDigits = true
		case 's':
			wantSpecial = true
		case 'x':
			wantLower, wantUpper, wantDigits, wantSpecial = true, true, true, true
		default:
			return nil, &InvalidSelectorError{Rune: r}
		}
	}

	seen := make(map[rune]bool)
	var alphabet Alphabet

	appendNew := func(s string) {
		for _, r := range s {
			if seen[r] {
				continue
			}
			seen[r] = true
			alphabet = append(alphabet, r)
		}
	}

	if wantLower {
		appendNew(lower)
	}
	if wantUpper {
		appendNew(upper)
	}
	if wantDigits {
		appendNew(digits)
	}
	if wantSpecial {
		appendNew(Special)
	}
	appendNew(customChars)

	return alphabet, nil
}
