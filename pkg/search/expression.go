package search

import (
	"math"
	"strconv"
	"strings"
)

// Expression is a parsed query facet or filter expression. Either a numeric
// range written as [min TO max] (with * for an open bound) or an exact value.
type Expression struct {
	IsRange bool
	Min     float64
	Max     float64
	Value   string
}

func ParseExpression(expr string) Expression {
	trimmed := strings.TrimSpace(expr)
	if len(trimmed) < 2 || trimmed[0] != '[' || trimmed[len(trimmed)-1] != ']' {
		return Expression{Value: expr}
	}
	parts := strings.Fields(trimmed[1 : len(trimmed)-1])
	if len(parts) != 3 || !strings.EqualFold(parts[1], "TO") {
		return Expression{Value: expr}
	}
	lo, ok := parseBound(parts[0], math.Inf(-1))
	if !ok {
		return Expression{Value: expr}
	}
	hi, ok := parseBound(parts[2], math.Inf(1))
	if !ok {
		return Expression{Value: expr}
	}
	return Expression{IsRange: true, Min: lo, Max: hi}
}

func parseBound(s string, open float64) (float64, bool) {
	if s == "*" {
		return open, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Matches reports whether a stored field value satisfies the expression.
// Multi valued fields match when any element does.
func (e Expression) Matches(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case []any:
		for _, item := range v {
			if e.Matches(item) {
				return true
			}
		}
		return false
	case []string:
		for _, item := range v {
			if e.Matches(item) {
				return true
			}
		}
		return false
	}
	if e.IsRange {
		f, ok := ToFloat(value)
		return ok && f >= e.Min && f <= e.Max
	}
	return FormatValue(value) == e.Value
}

func ToFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// FormatValue renders a stored value the way it appears in facet counts.
func FormatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}
