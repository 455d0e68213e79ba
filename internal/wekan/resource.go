package wekan

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// idRef is the `_id` envelope every collection and creation response uses.
type idRef struct {
	ID string `json:"_id"`
}

func idsFromList(body []byte) ([]string, error) {
	var refs []idRef
	if err := json.Unmarshal(body, &refs); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decode resource list: %v", err)}
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids, nil
}

func idFromResponse(body []byte) (string, error) {
	var ref idRef
	if err := json.Unmarshal(body, &ref); err != nil {
		return "", &APIError{Message: fmt.Sprintf("decode creation response: %v", err)}
	}
	if ref.ID == "" {
		return "", &APIError{Message: "creation response missing _id"}
	}
	return ref.ID, nil
}

// requireString enforces the field-presence policy: id, title and the
// always-sent timestamps must be present, everything else may be absent
// on resources created by older server versions.
func requireString(kind, id, field, value string) error {
	if value == "" {
		return &APIError{Message: fmt.Sprintf("%s %s: missing required field %q", kind, id, field)}
	}
	return nil
}

func parseRequiredDate(kind, id, field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &APIError{Message: fmt.Sprintf("%s %s: missing required field %q", kind, id, field)}
	}
	t, err := ParseISODate(value)
	if err != nil {
		return time.Time{}, &APIError{Message: fmt.Sprintf("%s %s: field %q: %v", kind, id, field, err)}
	}
	return t, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseISODate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// compileFilter turns a title filter into a regexp; the empty pattern
// matches everything.
func compileFilter(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = ".*"
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile title filter %q: %w", pattern, err)
	}
	return re, nil
}
