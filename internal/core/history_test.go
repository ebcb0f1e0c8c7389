package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListBatch(t *testing.T) {
	t.Parallel()

	items := []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}

	tests := []struct {
		name        string
		start       int
		limit       int
		wantItems   []int
		wantHasMore bool
	}{
		{"first page", 0, 4, []int{10, 9, 8, 7}, true},
		{"middle page", 4, 4, []int{6, 5, 4, 3}, true},
		{"last page", 8, 4, []int{2, 1}, false},
		{"exact end", 6, 4, []int{4, 3, 2, 1}, false},
		{"past the end", 20, 4, []int{}, false},
		{"no limit means everything", 0, 0, items, false},
		{"negative start clamps", -3, 2, []int{10, 9}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := ListBatch(items, tt.start, tt.limit)
			assert.Equal(t, tt.wantItems, b.Items)
			assert.Equal(t, tt.wantHasMore, b.HasMore)
			assert.Equal(t, len(items), b.Total)
		})
	}
}

func TestListBatch_Empty(t *testing.T) {
	t.Parallel()

	b := ListBatch([]string{}, 0, 4)
	assert.Empty(t, b.Items)
	assert.False(t, b.HasMore)
	assert.Zero(t, b.Total)
}
