// Package content builds the normalized plain-text digest of a JIRA issue:
// markup stripping, document-node traversal, mention resolution, comment
// windowing, and the field extraction feeding the report renderer.
package content

import (
	"strings"

	"github.com/dt-pm-tools/jira-report/internal/jira"
)

// MentionCache maps a lower-cased user identifier (accountId, name, key, or
// email) to a display name. One cache is built per issue from every author
// the issue knows about, so mention tokens in free text resolve without
// extra lookups. It must not be shared across issues.
type MentionCache map[string]string

// NewMentionCache collects the assignee, reporter, and all comment authors
// of an issue. Last writer wins for duplicate identifiers.
func NewMentionCache(issue *jira.Issue) MentionCache {
	cache := MentionCache{}
	cache.Add(issue.Fields.Assignee)
	cache.Add(issue.Fields.Reporter)
	if issue.Fields.Comment != nil {
		for i := range issue.Fields.Comment.Comments {
			cache.Add(&issue.Fields.Comment.Comments[i].Author)
		}
	}
	return cache
}

// Add registers every identifier of the user under its display name.
func (m MentionCache) Add(u *jira.User) {
	if u == nil || u.DisplayName == "" {
		return
	}
	for _, id := range u.Identifiers() {
		m[strings.ToLower(id)] = u.DisplayName
	}
}

// Resolve looks up an identifier case-insensitively.
func (m MentionCache) Resolve(id string) (string, bool) {
	name, ok := m[strings.ToLower(id)]
	return name, ok
}
