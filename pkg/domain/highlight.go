package domain

import (
	"bytes"
	"encoding/json"
	"math"
)

// Sentinel is the out-of-range index meaning "nothing highlighted".
const Sentinel = math.MaxInt

// Highlight is the index pair touched by the most recent step.
type Highlight struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

// NoHighlight is the sentinel pair.
var NoHighlight = Highlight{First: Sentinel, Second: Sentinel}

// IsNone reports whether h is the sentinel pair.
func (h Highlight) IsNone() bool {
	return h.First == Sentinel && h.Second == Sentinel
}

// Valid reports whether h is either the sentinel pair or a pair of indices
// strictly inside a sequence of length n.
func (h Highlight) Valid(n int) bool {
	if h.IsNone() {
		return true
	}
	return h.First >= 0 && h.Second >= 0 && h.First < n && h.Second < n
}

// Contains reports whether index i is one of the highlighted positions.
func (h Highlight) Contains(i int) bool {
	return !h.IsNone() && (h.First == i || h.Second == i)
}

// highlightJSON has the wire shape of Highlight without its methods.
type highlightJSON struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

// MarshalJSON encodes the sentinel pair as null. math.MaxInt does not
// survive a round trip through a float64 JSON decoder.
func (h Highlight) MarshalJSON() ([]byte, error) {
	if h.IsNone() {
		return []byte("null"), nil
	}
	return json.Marshal(highlightJSON(h))
}

// UnmarshalJSON decodes null as the sentinel pair.
func (h *Highlight) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*h = NoHighlight
		return nil
	}
	var v highlightJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*h = Highlight(v)
	return nil
}
