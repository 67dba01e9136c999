package pagination

// Page is one slice of an in-memory ordered sequence.
type Page[T any] struct {
	Items      []T
	NextCursor *string
	HasMore    bool
}

// Window slices items after the entry whose id equals cursor.
//
// Behavior:
//   - Empty cursor, or a cursor no longer present in items, starts at index 0.
//   - limit+1 entries are taken; HasMore is true when the extra one exists.
//   - NextCursor is the id of the last returned entry, nil once exhausted.
//
// Example:
//
//	Window([]string{"a", "b", "c"}, idOf, "a", 1) // Items [b], NextCursor "b", HasMore true
func Window[T any](items []T, id func(T) string, cursor string, limit int) Page[T] {
	if limit < 1 {
		limit = 1
	}

	start := 0
	if cursor != "" {
		for i, it := range items {
			if id(it) == cursor {
				start = i + 1
				break
			}
		}
	}

	end := min(start+limit+1, len(items))
	slice := items[start:end]

	page := Page[T]{HasMore: len(slice) > limit}
	if page.HasMore {
		slice = slice[:limit]
	}
	page.Items = slice

	if page.HasMore && len(slice) > 0 {
		next := id(slice[len(slice)-1])
		page.NextCursor = &next
	}
	return page
}
