package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Timestamp is an optional point in time. The zero value means the field is
// missing. Decoding never fails: a value that cannot be parsed is treated as
// missing so that a single bad record does not abort a whole dataset load.
type Timestamp struct {
	time.Time
}

// At wraps t as a Timestamp.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Valid reports whether the timestamp is present.
func (t Timestamp) Valid() bool {
	return !t.IsZero()
}

// MarshalJSON encodes a missing timestamp as null.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// UnmarshalJSON accepts RFC 3339 strings, null and the empty string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	t.Time = parsed
	return nil
}
