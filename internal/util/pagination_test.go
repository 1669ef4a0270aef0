package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, size    int
		offset, limit int
	}{
		{page: 0, size: 0, offset: 0, limit: DefaultPageSize},
		{page: 1, size: 20, offset: 0, limit: 20},
		{page: 3, size: 20, offset: 40, limit: 20},
		{page: 2, size: 500, offset: DefaultPageSize, limit: DefaultPageSize},
	}

	for _, tt := range tests {
		offset, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.offset, offset)
		assert.Equal(t, tt.limit, limit)
	}
}

func TestParseIntDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, ParseIntDefault("", 5))
	assert.Equal(t, 5, ParseIntDefault("x", 5))
	assert.Equal(t, 12, ParseIntDefault("12", 5))
}

func TestParseIDs(t *testing.T) {
	t.Parallel()

	ids, bad := ParseIDs([]string{"1", "2,3", ""})
	assert.Empty(t, bad)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	ids, bad = ParseIDs([]string{"1", "abc"})
	assert.Nil(t, ids)
	assert.Equal(t, "abc", bad)
}
