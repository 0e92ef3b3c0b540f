package domain

import "time"

// Record is the plain-record boundary shape shared with collaborators: inbound
// construction data maps entity field names to optional values, and Serialize
// produces the same shape enriched with computed fields. Reference-typed keys
// (author, sender, receiver, instructor) hold live User values inbound and
// nested Records outbound.
type Record map[string]any

func (r Record) stringOr(key, fallback string) string {
	if v, ok := r[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func (r Record) intOr(key string, fallback int) int {
	switch v := r[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

func (r Record) boolOr(key string, fallback bool) bool {
	if v, ok := r[key].(bool); ok {
		return v
	}
	return fallback
}

func (r Record) timeOr(key string, fallback time.Time) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return parsed
		}
	}
	return fallback
}

func (r Record) stringsOr(key string, fallback []string) []string {
	switch v := r[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return fallback
}

// sub returns the nested record stored under key, or nil when absent. Reads on
// a nil Record fall through to their fallbacks, so callers can chain safely.
func (r Record) sub(key string) Record {
	switch v := r[key].(type) {
	case Record:
		return v
	case map[string]any:
		return Record(v)
	}
	return nil
}

// user returns the live User reference stored under key, or nil.
func (r Record) user(key string) User {
	if v, ok := r[key].(User); ok {
		return v
	}
	return nil
}

// videos returns the live Video references stored under key.
func (r Record) videos(key string) []*Video {
	switch v := r[key].(type) {
	case []*Video:
		out := make([]*Video, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]*Video, 0, len(v))
		for _, item := range v {
			if vid, ok := item.(*Video); ok {
				out = append(out, vid)
			}
		}
		return out
	}
	return nil
}

func serializeRef(u User) any {
	if u == nil {
		return nil
	}
	return u.Serialize()
}
