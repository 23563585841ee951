// Package facodec implements the fractal-address (FA) codec: encoding a
// 10-vote vector into a 10-digit ASCII string, decoding that string back
// into a sequence of expression transforms via an optional FractalMap, and
// measuring prefix stability across a sliding window of addresses (§4.5).
package facodec

import (
	"math"
)

// Digits is the fixed FA length (one digit per vote component).
const Digits = 10

// Encode maps a votes vector to its 10-digit fractal address: each
// component rounds clamp01(v)*9 to the nearest digit 0-9 (§4.5, P9).
func Encode(votes [10]float64) string {
	buf := make([]byte, Digits)
	for i, v := range votes {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		d := int(math.Round(9 * v))
		buf[i] = byte('0' + d)
	}
	return string(buf)
}

// Stability returns the length of the longest common prefix shared by every
// address in window. An empty window yields 0. Used for the fa_stab field
// (P10); this computes the LCP of the whole set, which is equivalent to the
// most-recent-reference variant mandated in §9/§4.5 since prefix agreement
// is symmetric regardless of which window entry anchors the comparison.
func Stability(window []string) int {
	if len(window) == 0 {
		return 0
	}
	maxLen := len(window[0])
	for _, w := range window[1:] {
		if len(w) < maxLen {
			maxLen = len(w)
		}
	}
	for pos := 0; pos < maxLen; pos++ {
		c := window[0][pos]
		for _, w := range window[1:] {
			if w[pos] != c {
				return pos
			}
		}
	}
	return maxLen
}
