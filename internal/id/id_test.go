package id

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_HasPrefix(t *testing.T) {
	got, err := Generate("user")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "user-"))
	assert.Greater(t, len(got), len("user-"))
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		got, err := Generate("x")
		require.NoError(t, err)
		assert.False(t, seen[got], "duplicate ID generated: %s", got)
		seen[got] = true
	}
}

func TestGenerateSortable_OrderMatchesCreation(t *testing.T) {
	ids := make([]string, 0, 50)
	for range 50 {
		got, err := GenerateSortable("art")
		require.NoError(t, err)
		ids = append(ids, got)
	}

	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	assert.Equal(t, sorted, ids, "sortable IDs must be generated in ascending lexicographic order")
}

func TestGenerateSortable_FixedWidth(t *testing.T) {
	a, err := GenerateSortable("art")
	require.NoError(t, err)
	b, err := GenerateSortable("art")
	require.NoError(t, err)
	assert.Equal(t, len(a), len(b))
}

func TestMustGenerate_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = MustGenerate("test")
		_ = MustGenerateSortable("test")
	})
}
