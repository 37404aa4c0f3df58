package request

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Number captures a numeric request field as raw text so that a mistyped
// value is reported against its field by validation instead of failing the
// whole body decode. It accepts JSON numbers, numeric strings and null.
type Number struct {
	Raw  string
	Set  bool
	Null bool
}

// NumberOf builds a Number from its textual form.
func NumberOf(s string) Number {
	return Number{Raw: s, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler. It is only called when the field
// is present in the body.
func (n *Number) UnmarshalJSON(data []byte) error {
	n.Set = true
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		n.Null = true
		n.Raw = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.Raw = s
		return nil
	}
	// Numbers and anything else (booleans, objects) are kept verbatim and
	// rejected later by the field validator.
	n.Raw = string(data)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Null {
		return []byte("null"), nil
	}
	return json.Marshal(n.Raw)
}

// Empty reports whether the field was absent, null or blank.
func (n Number) Empty() bool {
	return !n.Set || n.Null || strings.TrimSpace(n.Raw) == ""
}
