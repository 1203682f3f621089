// Package visual derives deterministic presentation data (poses, palettes,
// geometry) from scene text. Every function is pure.
package visual

import "unicode/utf16"

// HashModulus bounds every value returned by Hash.
const HashModulus = 9973

const hashSeed = 7

// Hash folds text into [0, HashModulus) over its UTF-16 code units.
func Hash(text string) int {
	h := hashSeed
	for _, c := range utf16.Encode([]rune(text)) {
		h = (h*31 + int(c)) % HashModulus
	}
	return h
}

// Orbit maps seed onto [0, 100) using bound as the period.
func Orbit(seed, bound int) float64 {
	if bound <= 0 {
		return 0
	}
	return float64(seed%bound) / float64(bound) * 100
}
