package dispatch

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Params is the raw parameter bag from the request body.
type Params map[string]any

var idRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// truthy reports whether a JSON parameter carries a value at all: null,
// empty string, zero and false count as absent and skip validation.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return true
	}
}

// validate hard-rejects malformed identifiers and oversized queries, and
// clamps numeric pagination values in place. Clamping is deliberate: bad
// pagination input silently falls back to defaults instead of erroring,
// unlike identifiers which always reject. A present identifier must be a
// string; any other type fails the format check.
func (p Params) validate() error {
	for _, key := range []string{"id", "series_id", "chapter_id"} {
		v := p[key]
		if !truthy(v) {
			continue
		}
		s, isStr := v.(string)
		if !isStr || !idRe.MatchString(s) {
			return fmt.Errorf("Invalid %s format", key)
		}
	}

	if v := p["search_query"]; truthy(v) {
		s, isStr := v.(string)
		if !isStr || len(s) > 200 {
			return errors.New("Search query too long")
		}
	}

	if _, ok := p["result_limit"]; ok {
		n, valid := toNumber(p["result_limit"])
		if !valid || n < 1 || n > 100 {
			p["result_limit"] = float64(20)
		}
	}
	if _, ok := p["result_offset"]; ok {
		n, valid := toNumber(p["result_offset"])
		if !valid || n < 0 {
			p["result_offset"] = float64(0)
		}
	}
	if _, ok := p["page"]; ok {
		n, valid := toNumber(p["page"])
		if !valid || n < 0 {
			p["page"] = float64(0)
		}
	}
	return nil
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (p Params) str(key string) string {
	s, _ := p[key].(string)
	return s
}

func (p Params) strPtr(key string) *string {
	if v, ok := p[key]; ok && v != nil {
		if s, isStr := v.(string); isStr {
			return &s
		}
	}
	return nil
}

func (p Params) intDefault(key string, def int) int {
	if v, ok := p[key]; ok {
		if n, valid := toNumber(v); valid {
			return int(n)
		}
	}
	return def
}

func (p Params) float(key string) float64 {
	n, _ := toNumber(p[key])
	return n
}

func (p Params) floatPtr(key string) *float64 {
	if v, ok := p[key]; ok && v != nil {
		if n, valid := toNumber(v); valid {
			return &n
		}
	}
	return nil
}

func (p Params) boolVal(key string) bool {
	b, _ := p[key].(bool)
	return b
}

func (p Params) boolPtr(key string) *bool {
	if v, ok := p[key]; ok && v != nil {
		if b, isBool := v.(bool); isBool {
			return &b
		}
	}
	return nil
}

func (p Params) strSlice(key string) []string {
	v, ok := p[key]
	if !ok || v == nil {
		return nil
	}
	raw, isSlice := v.([]any)
	if !isSlice {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, isStr := item.(string); isStr {
			out = append(out, s)
		}
	}
	return out
}
