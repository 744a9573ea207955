package domain

import (
	"encoding/json"
	"fmt"
)

// Reason classifies what the most recent step did.
type Reason uint8

const (
	// Comparing means the step only inspected elements; nothing moved.
	Comparing Reason = iota
	// Switching means the step exchanged or moved at least one element.
	Switching
)

// String returns the lower-case name of the reason.
func (r Reason) String() string {
	switch r {
	case Comparing:
		return "comparing"
	case Switching:
		return "switching"
	default:
		return fmt.Sprintf("reason(%d)", uint8(r))
	}
}

// MarshalJSON encodes the reason as its name.
func (r Reason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a reason from its name.
func (r *Reason) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "comparing":
		*r = Comparing
	case "switching":
		*r = Switching
	default:
		return fmt.Errorf("unknown reason %q", s)
	}
	return nil
}
