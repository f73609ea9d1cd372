package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id int64
	at time.Time
}

func rowKey(r row) (time.Time, int64) { return r.at, r.id }

func rows(ids ...int64) []row {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]row, 0, len(ids))
	for _, id := range ids {
		out = append(out, row{id: id, at: base.Add(time.Duration(id) * time.Minute)})
	}
	return out
}

func TestCursor_RoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Date(2026, 3, 4, 5, 6, 7, 123000, time.UTC), ID: 42, Reverse: true}

	out, err := Decode(Encode(in))
	require.NoError(t, err)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, in.ID, out.ID)
	assert.True(t, out.Reverse)
}

func TestDecode_Invalid(t *testing.T) {
	for _, s := range []string{"", "!!!", "bm90LWpzb24", Encode(Cursor{})} {
		_, err := Decode(s)
		assert.ErrorIs(t, err, ErrInvalidCursor, "cursor %q", s)
	}
}

func TestKeyset(t *testing.T) {
	tests := []struct {
		name      string
		ascending bool
		cursor    *Cursor
		wantCmp   string
		wantDesc  bool
	}{
		{"default first page", false, nil, "", true},
		{"ascending first page", true, nil, "", false},
		{"default forward", false, &Cursor{ID: 1}, "<", true},
		{"default backward", false, &Cursor{ID: 1, Reverse: true}, ">", false},
		{"ascending forward", true, &Cursor{ID: 1}, ">", false},
		{"ascending backward", true, &Cursor{ID: 1, Reverse: true}, "<", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, desc := Keyset(tt.ascending, tt.cursor)
			assert.Equal(t, tt.wantCmp, cmp)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestBuild_FirstPage(t *testing.T) {
	page := Build(rows(9, 8, 7, 6), 3, nil, rowKey)

	require.Len(t, page.Results, 3)
	assert.Equal(t, int64(9), page.Results[0].id)
	assert.Nil(t, page.Previous)
	require.NotNil(t, page.Next)

	next, err := Decode(*page.Next)
	require.NoError(t, err)
	assert.Equal(t, int64(7), next.ID)
	assert.False(t, next.Reverse)
}

func TestBuild_LastPage(t *testing.T) {
	page := Build(rows(3, 2), 3, &Cursor{ID: 4}, rowKey)

	require.Len(t, page.Results, 2)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)

	prev, err := Decode(*page.Previous)
	require.NoError(t, err)
	assert.Equal(t, int64(3), prev.ID)
	assert.True(t, prev.Reverse)
}

func TestBuild_ReversePage(t *testing.T) {
	// nearest-first as a store returns them for a reverse cursor
	page := Build(rows(4, 5, 6, 7), 3, &Cursor{ID: 3, Reverse: true}, rowKey)

	require.Len(t, page.Results, 3)
	assert.Equal(t, []int64{6, 5, 4}, []int64{page.Results[0].id, page.Results[1].id, page.Results[2].id})
	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)

	next, _ := Decode(*page.Next)
	assert.Equal(t, int64(4), next.ID)
	prev, _ := Decode(*page.Previous)
	assert.Equal(t, int64(6), prev.ID)
}

func TestBuild_Empty(t *testing.T) {
	page := Build[row](nil, 5, nil, rowKey)

	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
}

func TestMap(t *testing.T) {
	page := Build(rows(2, 1), 5, nil, rowKey)
	ids := Map(page, func(r row) int64 { return r.id })

	assert.Equal(t, []int64{2, 1}, ids.Results)
	assert.Equal(t, page.Next, ids.Next)
}
