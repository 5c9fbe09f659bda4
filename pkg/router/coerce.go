package router

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CoerceBool normalizes the heterogeneous toggle values clients send.
// Precedence, first match wins:
//  1. native bool → itself
//  2. string (case-insensitive, trimmed): "true"/"1"/"yes"/"on" → true,
//     "false"/"0"/"no"/"off"/"" → false
//  3. any numeric type → nonzero is true
//
// ok is false for anything unrecognized (nil, objects, unparseable strings);
// callers treat that as "toggle absent".
func CoerceBool(v interface{}) (value, ok bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off", "":
			return false, true
		}
		return false, false
	default:
		if n, numeric := CoerceNumber(v); numeric {
			return n != 0, true
		}
		return false, false
	}
}

// CoerceNumber extracts a float64 from the numeric shapes JSON decoding and
// direct construction produce, including numeric strings.
func CoerceNumber(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		n, err := t.Float64()
		return n, err == nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return n, err == nil
	default:
		return 0, false
	}
}
