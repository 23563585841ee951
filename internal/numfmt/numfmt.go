// Package numfmt implements Kolibri's canonical, locale-independent double
// formatter: a %.17g equivalent in the C locale, with -0 normalized to 0.
// Every ledger byte that derives from a float64 goes through this package so
// that two conforming implementations produce byte-identical output (P12).
package numfmt

import (
	"errors"
	"math"
	"strconv"
)

// ErrNotFinite is returned by Double when asked to format NaN or an
// infinity, neither of which has a canonical textual form in this schema.
var ErrNotFinite = errors.New("numfmt: value is not finite")

// Double renders f the way a C-locale `%.17g` would: up to 17 significant
// decimal digits, trailing zeros trimmed, decimal point dropped when the
// value is integral, and -0 normalized to "0". The result always re-parses
// (via strconv.ParseFloat) to the exact same float64 bit pattern (P12),
// since 17 significant digits is always sufficient to round-trip an
// IEEE-754 double.
func Double(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", ErrNotFinite
	}
	if f == 0 {
		return "0", nil
	}
	return strconv.FormatFloat(f, 'g', 17, 64), nil
}

// MustDouble is Double but panics on a non-finite input. Use only where the
// caller has already validated finiteness (e.g. values clamped to [0,1]
// earlier in the pipeline) and a panic indicates a logic bug, not bad input.
func MustDouble(f float64) string {
	s, err := Double(f)
	if err != nil {
		panic(err)
	}
	return s
}
