package manager

import "strings"

// StatusAll is the status filter value that matches every record.
const StatusAll = "all"

// Filter is the list view's text and status predicate.
type Filter struct {
	Text   string
	Status string
}

// FilterRecords returns the records matching f, in their original order.
// A record matches the text filter when the text is empty or is a
// case-insensitive substring of at least one of fields(record). Whitespace
// in the text is matched literally. It matches
// the status filter when f.Status is empty or StatusAll, when status is nil,
// or when status(record) equals f.Status.
func FilterRecords[T any](records []T, f Filter, fields func(T) []string, status func(T) string) []T {
	text := strings.ToLower(f.Text)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if f.Status != "" && f.Status != StatusAll && status != nil && status(r) != f.Status {
			continue
		}
		if text != "" && !matchesText(fields(r), text) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesText(fields []string, lowered string) bool {
	for _, v := range fields {
		if strings.Contains(strings.ToLower(v), lowered) {
			return true
		}
	}
	return false
}
