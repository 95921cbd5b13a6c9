package id

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// sortableAlphabet excludes '-' and '_' so sortable IDs stay unambiguous
// when split on the prefix separator.
const sortableAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "user-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when you're certain the system entropy is available,
// or when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// GenerateSortable creates a prefixed ID whose lexicographic order matches
// creation order: a fixed-width hex timestamp followed by a random tail.
// Format: prefix-<16 hex unix-nanos><8 random chars>.
//
// Feed pagination depends on this property: "older than" is a plain string
// comparison between IDs sharing a prefix.
func GenerateSortable(prefix string) (string, error) {
	tail, err := gonanoid.Generate(sortableAlphabet, 8)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return fmt.Sprintf("%s-%016x%s", prefix, uint64(time.Now().UnixNano()), tail), nil
}

// MustGenerateSortable is like GenerateSortable but panics on failure.
func MustGenerateSortable(prefix string) string {
	id, err := GenerateSortable(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
