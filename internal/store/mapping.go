package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Decoding helpers for raw documents. A field of an unexpected shape yields
// the zero value rather than an error, so a single malformed document
// degrades its own fields instead of failing the view.

// Str returns a string field or "".
func Str(d bson.M, key string) string {
	s, _ := d[key].(string)
	return s
}

// Bool returns a bool field or false.
func Bool(d bson.M, key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Int returns a numeric field as int, accepting the integer widths the
// driver may hand back.
func Int(d bson.M, key string) int {
	switch v := d[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Float returns a numeric field as float64.
func Float(d bson.M, key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Time returns a time field or the zero time.
func Time(d bson.M, key string) time.Time {
	switch v := d[key].(type) {
	case time.Time:
		return v
	case primitive.DateTime:
		return v.Time()
	}
	return time.Time{}
}

// TimePtr returns a pointer to a time field, nil when absent or null.
func TimePtr(d bson.M, key string) *time.Time {
	t := Time(d, key)
	if t.IsZero() {
		return nil
	}
	return &t
}

// StrSlice returns a []string field, tolerating the driver's []interface{}.
func StrSlice(d bson.M, key string) []string {
	switch v := d[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case primitive.A:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// DocSlice returns a []bson.M field.
func DocSlice(d bson.M, key string) []bson.M {
	switch v := d[key].(type) {
	case []bson.M:
		return v
	case []interface{}:
		out := make([]bson.M, 0, len(v))
		for _, e := range v {
			if m, ok := e.(bson.M); ok {
				out = append(out, m)
			}
		}
		return out
	case primitive.A:
		out := make([]bson.M, 0, len(v))
		for _, e := range v {
			if m, ok := e.(bson.M); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}
