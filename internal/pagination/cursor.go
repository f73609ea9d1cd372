// Package pagination implements keyset (cursor) paging over (created_at, id).
//
// A cursor never exposes an offset or a total count: it only names the
// position of the last item seen and the direction to continue in.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

var ErrInvalidCursor = errors.New("invalid cursor")

type Cursor struct {
	CreatedAt time.Time `json:"t"`
	ID        int64     `json:"id"`
	Reverse   bool      `json:"r,omitempty"`
}

func Encode(c Cursor) string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

func Decode(s string) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil || c.ID <= 0 {
		return nil, ErrInvalidCursor
	}
	return &c, nil
}

// Keyset returns the comparison operator stores apply to (created_at, id)
// and whether rows must be scanned in descending order.
// cmp is empty when there is no cursor.
func Keyset(ascending bool, c *Cursor) (cmp string, desc bool) {
	desc = !ascending
	if c == nil {
		return "", desc
	}
	if c.Reverse {
		desc = !desc
	}
	if desc {
		return "<", desc
	}
	return ">", desc
}
