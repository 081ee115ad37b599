package simhash

import (
	"hash/fnv"
	"math/bits"
	"strings"
	"unicode"
)

// Fingerprint computes a 64-bit SimHash of the given text.
// Tokens are case-folded and stripped of punctuation before hashing so that
// paragraphs differing only in casing or punctuation collapse to (near-)
// identical fingerprints. Uses FNV-64a on word-level tokens with bit vector
// accumulation.
func Fingerprint(text string) uint64 {
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var vector [64]int

	for _, word := range words {
		h := fnv.New64a()
		h.Write([]byte(word))
		hash := h.Sum64()

		for i := 0; i < 64; i++ {
			if hash&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}

	var fingerprint uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			fingerprint |= 1 << uint(i)
		}
	}

	return fingerprint
}

// Distance returns the Hamming distance between two SimHash fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar returns true if the Hamming distance between two fingerprints
// is less than or equal to the threshold.
func Similar(a, b uint64, threshold int) bool {
	return Distance(a, b) <= threshold
}

// Index tracks fingerprints seen so far and answers near-duplicate queries.
// Lookup is linear in the number of stored fingerprints, which is fine for
// the per-document paragraph counts this is used on. Not goroutine-safe;
// one Index belongs to one pipeline invocation.
type Index struct {
	threshold    int
	fingerprints []uint64
}

// NewIndex creates an Index that treats fingerprints within threshold
// Hamming distance as duplicates.
func NewIndex(threshold int) *Index {
	return &Index{threshold: threshold}
}

// SeenSimilar reports whether a near-duplicate of text was already added,
// and records text's fingerprint if not. Empty/whitespace-only text is
// never considered a duplicate.
func (ix *Index) SeenSimilar(text string) bool {
	fp := Fingerprint(text)
	if fp == 0 {
		return false
	}
	for _, seen := range ix.fingerprints {
		if Similar(seen, fp, ix.threshold) {
			return true
		}
	}
	ix.fingerprints = append(ix.fingerprints, fp)
	return false
}

// tokenize lowercases and splits text into alphanumeric word tokens.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
