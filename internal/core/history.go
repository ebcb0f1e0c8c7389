package core

// Batch is one page of a user's stored artifacts, ordered as stored
// (most-recent-first, since the store prepends new artifacts).
type Batch[T any] struct {
	Items   []T  `json:"items"`
	HasMore bool `json:"hasMore"`
	Total   int  `json:"total"`
}

// ListBatch slices a window out of items for incremental loading.
// A limit of zero or less means "everything from start".
func ListBatch[T any](items []T, start, limit int) Batch[T] {
	total := len(items)
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	if limit <= 0 {
		limit = total - start
	}
	end := start + limit
	if end > total {
		end = total
	}
	return Batch[T]{
		Items:   items[start:end],
		HasMore: start+limit < total,
		Total:   total,
	}
}
