package content

import (
	"strings"

	"github.com/dt-pm-tools/jira-report/internal/jira"
)

const impediment = "impediment"

// FieldValues extracts display strings from an arbitrarily shaped custom
// field value. Strings pass through trimmed; objects contribute the first
// non-empty of value/name/displayName/title and recurse into a children
// list; lists recurse elementwise. Anything else yields nothing; callers
// apply their own "Unknown" sentinel.
func FieldValues(v any) []string {
	switch value := v.(type) {
	case string:
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return []string{trimmed}
		}
	case []any:
		var out []string
		for _, item := range value {
			out = append(out, FieldValues(item)...)
		}
		return out
	case map[string]any:
		var out []string
		for _, key := range []string{"value", "name", "displayName", "title"} {
			if s, ok := value[key].(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
				break
			}
		}
		if children, ok := value["children"].([]any); ok {
			for _, child := range children {
				out = append(out, FieldValues(child)...)
			}
		}
		return out
	}
	return nil
}

// JoinFieldValues renders the extracted values as a single display string,
// falling back to the given sentinel when the field is empty or absent.
func JoinFieldValues(v any, fallback string) string {
	values := FieldValues(v)
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

// IsImpediment reports whether the issue is flagged as an impediment:
// a flag-list entry whose name or value mentions it, any value reachable in
// the designated custom field, or a status named exactly "impediment".
// Branches are evaluated in that order and short-circuit.
func IsImpediment(issue *jira.Issue, flagField string) bool {
	fields := issue.Fields

	if flags, ok := fields.Custom["flagged"].([]any); ok {
		for _, flag := range flags {
			entry, ok := flag.(map[string]any)
			if !ok {
				continue
			}
			for _, key := range []string{"name", "value"} {
				if s, ok := entry[key].(string); ok && containsImpediment(s) {
					return true
				}
			}
		}
	}

	if flagField != "" && deepContains(fields.Custom[flagField], impediment) {
		return true
	}

	return fields.Status != nil && strings.EqualFold(fields.Status.Name, impediment)
}

// deepContains walks strings, lists, and object values recursively looking
// for the needle substring, case-insensitively.
func deepContains(v any, needle string) bool {
	switch value := v.(type) {
	case string:
		return strings.Contains(strings.ToLower(value), needle)
	case []any:
		for _, item := range value {
			if deepContains(item, needle) {
				return true
			}
		}
	case map[string]any:
		for _, item := range value {
			if deepContains(item, needle) {
				return true
			}
		}
	}
	return false
}

func containsImpediment(s string) bool {
	return strings.Contains(strings.ToLower(s), impediment)
}
