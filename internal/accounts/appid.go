package accounts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ApplicationID is an opaque application identifier. It keeps the JSON
// literal it was decoded from, so 1 and "1" stay distinct identifiers while
// 1 and 1.0 compare equal.
type ApplicationID string

func (id *ApplicationID) UnmarshalJSON(data []byte) error {
	lit, err := canonicalLiteral(data)
	if err != nil {
		return err
	}
	*id = ApplicationID(lit)
	return nil
}

func (id ApplicationID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	return []byte(id), nil
}

// String renders the identifier for humans: strings unquoted, numbers as is.
func (id ApplicationID) String() string {
	if len(id) > 0 && id[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(id), &s); err == nil {
			return s
		}
	}
	return string(id)
}

// canonicalLiteral accepts a JSON string or number and returns its canonical
// literal. Numbers compare as float64 values: integral numbers lose any
// fraction or exponent form, and integers beyond 2^53 round like any other
// float64.
func canonicalLiteral(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", fmt.Errorf("empty identifier")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		b, _ := json.Marshal(s)
		return string(b), nil
	case 'n', 't', 'f', '{', '[':
		return "", fmt.Errorf("identifier must be a string or number, got %s", data)
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	if i, err := n.Int64(); err == nil && i > -1<<53 && i < 1<<53 {
		return strconv.FormatInt(i, 10), nil
	}
	f, err := n.Float64()
	if err != nil {
		return n.String(), nil
	}
	if f == 0 {
		return "0", nil
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}
