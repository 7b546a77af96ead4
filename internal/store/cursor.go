package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// cursor marks the last row of a returned page. Listing orders by recordedAt
// descending with id descending as the tie-breaker, so the pair is enough to
// resume without repeating or skipping rows even while writes land in
// between.
type cursor struct {
	RecordedAt int64  `json:"recordedAt"`
	ID         string `json:"id"`
}

func encodeCursor(s Sermon) string {
	raw, _ := json.Marshal(cursor{
		RecordedAt: s.RecordedAt.UnixMilli(),
		ID:         s.ID,
	})
	return base64.URLEncoding.EncodeToString(raw)
}

func decodeCursor(token string) (cursor, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if c.ID == "" {
		return cursor{}, fmt.Errorf("%w: missing id", ErrInvalidCursor)
	}
	return c, nil
}
