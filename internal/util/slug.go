// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
)

var (
	// Matches spaces, underscores, and slashes (for replacement with dashes).
	wordSeparatorRe = regexp.MustCompile(`[\s_/]+`)
	// Matches characters outside letters, digits, and dashes. Letters from any
	// script are kept so tags written in Korean or other languages survive.
	nonWordRe = regexp.MustCompile(`[^\pL\pN-]`)
	// Matches multiple consecutive dashes.
	multipleDashRe = regexp.MustCompile(`-+`)
)

// NormalizeTag converts user input to a canonical tag slug.
// The slug is the source of truth for tag identity.
//
// Normalization rules:
//  1. Trim whitespace and lowercase
//  2. Replace spaces, underscores, and slashes with dashes
//  3. Remove everything that is not a letter, digit, or dash
//  4. Collapse multiple dashes
//  5. Trim leading/trailing dashes
//
// Examples:
//
//	"Slow Morning"  → "slow-morning"
//	"slow_morning"  → "slow-morning"
//	"가을 산책"      → "가을-산책"
//	"  multi   word " → "multi-word"
//	"--leading--"   → "leading"
func NormalizeTag(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonWordRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}

// NormalizeTags normalizes a tag list, dropping empties and duplicates while
// preserving first-seen order.
func NormalizeTags(inputs []string) []string {
	if len(inputs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(inputs))
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		tag := NormalizeTag(in)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
