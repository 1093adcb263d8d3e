package quest

import (
	"reflect"
	"strings"
)

// Metadata keys with special meaning.
const (
	// KeyValidator names a config validator; it is never compared.
	KeyValidator = "validator"
	// KeySubjContains is tested as a substring of the payload field.
	KeySubjContains = "subj_contains"
)

// MatchesMetadata reports whether payload satisfies every key of meta.
// Empty metadata matches any payload.
func MatchesMetadata(meta, payload map[string]any) bool {
	for k, want := range meta {
		switch k {
		case KeyValidator:
			continue
		case KeySubjContains:
			got, ok := payload[k].(string)
			needle, _ := want.(string)
			if !ok || !strings.Contains(got, needle) {
				return false
			}
		default:
			got, ok := payload[k]
			if !ok || !valuesEqual(want, got) {
				return false
			}
		}
	}
	return true
}

// valuesEqual compares with numeric kinds normalized, since Lua content
// yields float64 while handlers publish ints.
func valuesEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
