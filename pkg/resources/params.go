package resources

import (
	"encoding/json"
	"math"
)

// ValidatedParams holds the arguments of one tool invocation after schema
// validation and default filling.
type ValidatedParams map[string]interface{}

// String returns a string parameter, or "" when absent
func (p ValidatedParams) String(name string) string {
	s, _ := p.OptionalString(name)
	return s
}

// OptionalString returns a string parameter and whether it was set to a non-empty value
func (p ValidatedParams) OptionalString(name string) (string, bool) {
	s, ok := p[name].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Int returns a numeric parameter truncated to int, or 0 when absent
func (p ValidatedParams) Int(name string) int {
	n, _ := p.OptionalInt(name)
	return n
}

// OptionalInt returns a numeric parameter truncated to int and whether it was
// present. Values outside the int32 range count as absent.
func (p ValidatedParams) OptionalInt(name string) (int, bool) {
	switch v := p[name].(type) {
	case float64:
		return truncInt(v)
	case float32:
		return truncInt(float64(v))
	case int:
		return truncInt(float64(v))
	case int64:
		return truncInt(float64(v))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return truncInt(f)
		}
	}
	return 0, false
}

func truncInt(f float64) (int, bool) {
	if math.IsNaN(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(math.Trunc(f)), true
}
