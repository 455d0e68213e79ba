package shell

import (
	"fmt"
	"strconv"
	"strings"
)

// Entry is one selectable item in a navigation level.
type Entry struct {
	ID    string
	Title string
}

// Resolve finds the entry an identifier names: a 1-based index, an ID
// prefix, or a case-insensitive title substring. Ambiguous identifiers
// are an error listing the candidates, never a silent first match.
func Resolve(kind, identifier string, entries []Entry) (int, error) {
	if identifier == "" {
		return 0, fmt.Errorf("empty %s identifier", kind)
	}

	if index, err := strconv.Atoi(identifier); err == nil {
		if index < 1 || index > len(entries) {
			return 0, fmt.Errorf("%s index %d out of range 1-%d", kind, index, len(entries))
		}
		return index - 1, nil
	}

	var matches []int
	lowered := strings.ToLower(identifier)
	for i, entry := range entries {
		if strings.HasPrefix(entry.ID, identifier) || strings.Contains(strings.ToLower(entry.Title), lowered) {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("no %s matches %q", kind, identifier)
	case 1:
		return matches[0], nil
	default:
		titles := make([]string, 0, len(matches))
		for _, i := range matches {
			titles = append(titles, entries[i].Title)
		}
		return 0, fmt.Errorf("%s %q is ambiguous: %s", kind, identifier, strings.Join(titles, ", "))
	}
}
