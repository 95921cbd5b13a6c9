package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Slow Morning", "slow-morning"},
		{"slow_morning", "slow-morning"},
		{"SLOW-MORNING", "slow-morning"},
		{"  multi   word ", "multi-word"},
		{"--leading--", "leading"},
		{"가을 산책", "가을-산책"},
		{"rain/storm", "rain-storm"},
		{"!!!@@@###", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTag(tt.input))
		})
	}
}

func TestNormalizeTags_DropsDuplicatesAndEmpties(t *testing.T) {
	got := NormalizeTags([]string{"Autumn", "autumn", "  ", "Rain", "AUTUMN"})
	assert.Equal(t, []string{"autumn", "rain"}, got)
}

func TestNormalizeTags_Nil(t *testing.T) {
	assert.Nil(t, NormalizeTags(nil))
}
