package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Distance is how far a tiebreaker guess was from the actual value. The zero
// Distance is unknown: no guess or no result yet. Unknown ranks behind every
// known distance.
type Distance struct {
	value int
	known bool
}

// KnownDistance wraps a computed distance.
func KnownDistance(d int) Distance {
	return Distance{value: d, known: true}
}

// UnknownDistance is the distance of a participant without a comparable guess.
func UnknownDistance() Distance {
	return Distance{}
}

// Value returns the distance and whether it is known.
func (d Distance) Value() (int, bool) {
	return d.value, d.known
}

func (d Distance) Known() bool {
	return d.known
}

// Compare orders closer guesses first and unknown distances last.
func (d Distance) Compare(other Distance) int {
	switch {
	case d.known && !other.known:
		return -1
	case !d.known && other.known:
		return 1
	case !d.known && !other.known:
		return 0
	case d.value < other.value:
		return -1
	case d.value > other.value:
		return 1
	}
	return 0
}

func (d Distance) String() string {
	if !d.known {
		return "-"
	}
	return strconv.Itoa(d.value)
}

func (d Distance) MarshalJSON() ([]byte, error) {
	if !d.known {
		return []byte("null"), nil
	}
	return json.Marshal(d.value)
}

func (d *Distance) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Distance{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = KnownDistance(n)
	return nil
}
