package apispec

import (
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DateRule validates that a string value matches the given date layout format.
// Use [Date] or [DateFormat] to create one, then chain [DateRule.Min] and
// [DateRule.Max] to constrain the date range.
type DateRule struct {
	validation.DateRule
	layout   string
	format   string
	now      time.Time
	min, max time.Time
}

// Date creates a date validation rule with the given Go layout. The
// property is documented as a date string.
func Date(layout string) *DateRule {
	return &DateRule{
		DateRule: validation.Date(layout),
		layout:   layout,
		format:   "date",
	}
}

// DateFormat creates a date validation rule from a PHP-style date format
// such as "Y-m-d H:i:s". The property is documented as a date-time string
// whose example is now rendered in that format.
func DateFormat(format string, now time.Time) *DateRule {
	layout := GoLayout(format)
	return &DateRule{
		DateRule: validation.Date(layout),
		layout:   layout,
		format:   "date-time",
		now:      now,
	}
}

// Min sets the minimum allowed date.
func (r *DateRule) Min(t time.Time) *DateRule {
	r.min = t
	r.DateRule = r.DateRule.Min(t)
	return r
}

// Max sets the maximum allowed date.
func (r *DateRule) Max(t time.Time) *DateRule {
	r.max = t
	r.DateRule = r.DateRule.Max(t)
	return r
}

// Describe implements [Rule] by forcing a string type with the rule's
// format, an example and the date range.
func (r *DateRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	s := ref.Value
	s.Type = &openapi3.Types{openapi3.TypeString}
	s.Format = r.format
	s.Items = nil
	s.Properties = nil
	if !r.now.IsZero() {
		s.Example = r.now.Format(r.layout)
	}
	if !r.min.IsZero() {
		appendDescription(s, "after "+r.min.Format(r.layout))
	}
	if !r.max.IsZero() {
		appendDescription(s, "before "+r.max.Format(r.layout))
	}
	return nil
}

var phpLayout = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'n': "1",
	'd': "02",
	'j': "2",
	'D': "Mon",
	'l': "Monday",
	'M': "Jan",
	'F': "January",
	'H': "15",
	'G': "15",
	'h': "03",
	'g': "3",
	'i': "04",
	's': "05",
	'v': "000",
	'u': "000000",
	'A': "PM",
	'a': "pm",
	'T': "MST",
	'e': "MST",
	'P': "-07:00",
	'p': "Z07:00",
	'O': "-0700",
	'c': time.RFC3339,
}

// GoLayout converts a PHP date format into a Go time layout. Characters
// without a PHP meaning are copied, and a backslash escapes the next one.
func GoLayout(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c == '\\' && i+1 < len(format) {
			i++
			b.WriteByte(format[i])
			continue
		}
		if l, ok := phpLayout[c]; ok {
			b.WriteString(l)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
