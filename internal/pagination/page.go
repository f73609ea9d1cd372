package pagination

import "time"

type Page[T any] struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Build assembles a page from rows fetched with limit size+1 starting at in.
// Rows fetched for a reverse cursor arrive nearest-first and are flipped back
// into display order.
func Build[T any](rows []T, size int, in *Cursor, key func(T) (time.Time, int64)) Page[T] {
	extra := len(rows) > size
	if extra {
		rows = rows[:size]
	}
	reverse := in != nil && in.Reverse
	if reverse {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}

	page := Page[T]{Results: rows}
	if page.Results == nil {
		page.Results = []T{}
	}
	if len(rows) == 0 {
		return page
	}

	first, last := rows[0], rows[len(rows)-1]
	hasNext := extra
	hasPrev := in != nil
	if reverse {
		hasNext, hasPrev = true, extra
	}
	if hasNext {
		t, id := key(last)
		s := Encode(Cursor{CreatedAt: t, ID: id})
		page.Next = &s
	}
	if hasPrev {
		t, id := key(first)
		s := Encode(Cursor{CreatedAt: t, ID: id, Reverse: true})
		page.Previous = &s
	}
	return page
}

// Map converts the results of a page while keeping its cursors.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := Page[U]{Next: p.Next, Previous: p.Previous, Results: make([]U, len(p.Results))}
	for i, v := range p.Results {
		out.Results[i] = fn(v)
	}
	return out
}
