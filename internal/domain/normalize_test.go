package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReplaceSentinels(t *testing.T) {
	table := Table{
		Columns: []string{"a", "b", "c"},
		Rows: [][]string{
			{"-999", "0.42", "-999.0"},
			{"-999.000000", "SiteA", "12"},
			{"", "-998", "-999.5"},
		},
	}

	replaced := ReplaceSentinels(&table)

	assert.Equal(t, 3, replaced)
	assert.Equal(t, [][]string{
		{"", "0.42", ""},
		{"", "SiteA", "12"},
		{"", "-998", "-999.5"}, // near-misses are data, not sentinels
	}, table.Rows)
}

func TestParseNumber(t *testing.T) {
	t.Run("valid values", func(t *testing.T) {
		assert.Equal(t, 0.42, ParseNumber("0.42"))
		assert.Equal(t, -12.5, ParseNumber(" -12.5 "))
		assert.Equal(t, 0.0, ParseNumber("0"))
	})

	t.Run("missing and malformed become NaN", func(t *testing.T) {
		assert.True(t, math.IsNaN(ParseNumber("")))
		assert.True(t, math.IsNaN(ParseNumber("n/a")))
		assert.True(t, math.IsNaN(ParseNumber("12,5")))
	})
}

func TestParseDate(t *testing.T) {
	t.Run("dd:mm:yyyy", func(t *testing.T) {
		expected := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, expected, ParseDate("01:01:2020"))
	})

	t.Run("unparseable becomes zero time", func(t *testing.T) {
		assert.True(t, ParseDate("").IsZero())
		assert.True(t, ParseDate("2020-01-01").IsZero())
		assert.True(t, ParseDate("32:01:2020").IsZero())
	})
}
