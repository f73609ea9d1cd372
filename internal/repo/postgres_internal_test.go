package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"milk", "%milk%"},
		{"50%", `%50\%%`},
		{"a_b", `%a\_b%`},
		{`c:\tmp`, `%c:\\tmp%`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ContainsPattern(tt.in), tt.in)
	}
}

func TestWhereBuilder(t *testing.T) {
	var w where
	assert.Empty(t, w.sql())

	w.add("t.owner_id = ?", int64(7))
	w.add("(t.title ILIKE ? OR t.description ILIKE ?)", "%a%", "%a%")
	assert.Equal(t, " WHERE t.owner_id = $1 AND (t.title ILIKE $2 OR t.description ILIKE $3)", w.sql())
	assert.Equal(t, "$4", w.arg(10))
	assert.Equal(t, []any{int64(7), "%a%", "%a%", 10}, w.args)
}
