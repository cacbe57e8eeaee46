package set

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the set as a JSON array in iteration order, each
// element in its stored spelling.
func (s *CaseInsensitive) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON decodes a JSON array of strings, collapsing caseless
// duplicates with the last spelling winning. The set is cleared first.
// This is the set's only zero-value-safe entry point; everywhere else a
// set must come from a constructor.
func (s *CaseInsensitive) UnmarshalJSON(data []byte) error {
	var items []string

	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("decoding string array: %w", err)
	}

	s.ensure()
	s.Clear()

	return s.AddAll(items...)
}
