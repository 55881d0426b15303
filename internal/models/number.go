package models

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// FlexInt is an integer that also decodes from a numeric JSON string.
// HTML forms submit every field as a string.
type FlexInt int64

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		return nil
	}

	text := raw
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			*n = 0
			return nil
		}
	}

	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return &json.UnmarshalTypeError{Value: raw, Type: reflect.TypeOf(*n)}
	}

	*n = FlexInt(v)
	return nil
}
