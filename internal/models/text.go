package models

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Text is a request field that accepts a JSON string or number and keeps
// it as text. Identifiers like AMKA are often sent unquoted.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return &json.UnmarshalTypeError{Value: string(data), Type: reflect.TypeOf("")}
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string {
	return string(t)
}
