// Package titles implements title sanitizing and similarity scoring.
// The talkers use it to decide when a search result still resembles the
// query and pagination can stop.
package titles

import (
	"strings"
	"unicode"
)

// Sanitize normalizes a title for comparison: lowercased, punctuation
// stripped, whitespace collapsed. Literal titles are only trimmed, so an
// exact search matches exactly what the user typed.
func Sanitize(title string, literal bool) string {
	if literal {
		return strings.TrimSpace(title)
	}

	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || unicode.IsPunct(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Match reports whether two titles score at or above the threshold
// (0-100) after sanitizing both.
func Match(title1, title2 string, threshold int) bool {
	score := CompareStrings(Sanitize(title1, false), Sanitize(title2, false))

	return int(score*100) >= threshold
}

// CompareStrings compares two strings using a bigram-based similarity algorithm
func CompareStrings(str1, str2 string) float64 {
	if str1 == str2 {
		return 1
	}

	len1 := len(str1)
	len2 := len(str2)
	if len1 < 2 || len2 < 2 {
		return 0
	}

	bigramCounts := make(map[string]int)
	commonBigramsCount := 0
	totalBigrams := 0

	for i := 0; i < len1-1; i++ {
		bigram := str1[i : i+2]
		bigramCounts[bigram]++
	}

	for i := 0; i < len2-1; i++ {
		bigram := str2[i : i+2]
		if bigramCounts[bigram] > 0 {
			commonBigramsCount++
			bigramCounts[bigram]--
		}
		totalBigrams++
	}

	totalBigrams += len1 - 1

	return (2.0 * float64(commonBigramsCount)) / float64(totalBigrams)
}
