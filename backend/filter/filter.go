// Package filter builds expressions in the backend's filter-query grammar.
// Expressions are plain strings; these helpers exist so literal values are
// always quoted and escaped instead of injected raw.
package filter

import (
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Eq matches records whose field equals the string value.
func Eq(field, value string) string {
	return field + " eq " + quote(value)
}

// EqInt matches records whose field equals the numeric value. Numeric
// literals are unquoted in the grammar.
func EqInt(field string, value int) string {
	return field + " eq " + strconv.Itoa(value)
}

// Contains matches records whose field contains the substring.
func Contains(field, value string) string {
	return "contains(" + field + "," + quote(value) + ")"
}

// And joins the given expressions with the boolean and operator. Empty
// expressions are skipped so optional clauses compose cleanly.
func And(exprs ...string) string {
	parts := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		if expr != "" {
			parts = append(parts, expr)
		}
	}
	return strings.Join(parts, " and ")
}

// DateOnOrAfter matches records whose date field is on or after t.
func DateOnOrAfter(field string, t time.Time) string {
	return field + " ge " + quote(t.Format(dateLayout))
}

// DateOnOrBefore matches records whose date field is on or before t.
func DateOnOrBefore(field string, t time.Time) string {
	return field + " le " + quote(t.Format(dateLayout))
}

// quote wraps a literal in single quotes, doubling any embedded quote per
// the backend's escaping rule.
func quote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
