package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseID converts an identifier received from a path, query or JSON body to int.
// It accepts integer kinds, integral floats (JSON numbers) and decimal strings,
// and rejects everything else instead of coercing it to zero.
func ParseID(val any) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, fmt.Errorf("id %d is out of range", v)
		}
		return int(v), nil
	case int32:
		return int(v), nil
	case uint:
		if v > math.MaxInt {
			return 0, fmt.Errorf("id %d is out of range", v)
		}
		return int(v), nil
	case uint64:
		if v > math.MaxInt {
			return 0, fmt.Errorf("id %d is out of range", v)
		}
		return int(v), nil
	case uint32:
		return int(v), nil
	case float64:
		if math.Trunc(v) != v || math.IsInf(v, 0) {
			return 0, fmt.Errorf("id %v is not an integer", v)
		}
		// -MinInt is 2^63 on 64-bit, exactly representable unlike MaxInt.
		if v < float64(math.MinInt) || v >= -float64(math.MinInt) {
			return 0, fmt.Errorf("id %v is out of range", v)
		}
		return int(v), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("id %q is not an integer", v)
		}
		return i, nil
	case []byte:
		return ParseID(string(v))
	default:
		return 0, fmt.Errorf("id of type %T is not an integer", val)
	}
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, uint, uint64, uint32:
		id, _ := ParseID(v)
		return id == 1
	case string:
		return v == "1" || strings.ToLower(v) == "true"
	case []byte:
		s := string(v)
		return s == "1" || strings.ToLower(s) == "true"
	default:
		return false
	}
}

// CollapseSpace trims s and replaces every internal run of whitespace with one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
