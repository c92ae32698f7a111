package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/bizdesk/internal/manager"
)

// resolveRecord finds the record named by input, which can be:
//   - its key (code, email or name; case-insensitive)
//   - its full id
//   - a unique id prefix
func resolveRecord[T any, D any](spec manager.Spec[T, D], records []T, input string) (T, error) {
	var zero T
	if strings.TrimSpace(input) == "" {
		return zero, fmt.Errorf("%s ID is required", spec.Noun)
	}

	// 1. Exact key match
	var byKey []T
	for _, r := range records {
		if strings.EqualFold(spec.Key(r), input) {
			byKey = append(byKey, r)
		}
	}
	if len(byKey) == 1 {
		return byKey[0], nil
	}

	// 2. Exact id match
	for _, r := range records {
		if spec.ID(r) == input {
			return r, nil
		}
	}
	if len(byKey) > 1 {
		return zero, fmt.Errorf("%s %q is ambiguous (%d matches); use the id", spec.Noun, input, len(byKey))
	}

	// 3. Id prefix match
	var matches []T
	for _, r := range records {
		if strings.HasPrefix(spec.ID(r), input) {
			matches = append(matches, r)
		}
	}

	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s not found: %q", spec.Noun, input)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", spec.Noun, input, len(matches))
	}
}

// resolveChoice maps a flag value to the id of a picker entry, matching the
// entry's key case-insensitively or its id exactly. An empty input clears
// the reference.
func resolveChoice(title string, choices []manager.Choice, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	for _, c := range choices {
		if strings.EqualFold(c.Key, input) || c.Value == input {
			return c.Value, nil
		}
	}
	if len(choices) == 0 {
		return "", fmt.Errorf("%s %q: no selectable records", strings.ToLower(title), input)
	}
	return "", fmt.Errorf("%s %q is not a selectable record", strings.ToLower(title), input)
}
