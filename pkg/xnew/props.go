package xnew

import "time"

// Props is the property bag passed to a component.
// Getters fall back to def when the key is missing or has another type;
// numeric kinds convert, so values decoded from YAML or TOML work.
type Props map[string]any

// Float returns key as a float64.
func (p Props) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	default:
		return def
	}
}

// Int returns key as an int.
func (p Props) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// String returns key as a string.
func (p Props) String(key, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}

// Bool returns key as a bool.
func (p Props) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// Duration returns key as a duration. Strings are parsed with
// time.ParseDuration; bare numbers are milliseconds.
func (p Props) Duration(key string, def time.Duration) time.Duration {
	switch v := p[key].(type) {
	case time.Duration:
		return v
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		return def
	case int, int64, uint64, float64:
		return time.Duration(p.Float(key, 0) * float64(time.Millisecond))
	default:
		return def
	}
}
