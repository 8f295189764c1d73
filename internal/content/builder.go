package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dt-pm-tools/jira-report/internal/jira"
)

// Timestamp layouts JIRA emits: with and without fractional seconds.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
}

// displayTimeLayout is the locale-independent rendering used everywhere a
// timestamp reaches output.
const displayTimeLayout = "2006-01-02 15:04 MST"

// Builder assembles the per-issue descriptive text fed to the completion
// endpoint. It is safe to reuse across issues; all per-issue state (the
// mention cache) is scoped to a single Build call.
type Builder struct {
	Lookback time.Duration
	Ignored  map[string]struct{}
	Location *time.Location
	Now      func() time.Time

	log zerolog.Logger
}

// NewBuilder creates a Builder. ignoreAuthors entries may be any of a user's
// identity fields and are matched case-insensitively.
func NewBuilder(lookback time.Duration, ignoreAuthors []string, loc *time.Location, log zerolog.Logger) *Builder {
	ignored := make(map[string]struct{}, len(ignoreAuthors))
	for _, author := range ignoreAuthors {
		if author = strings.TrimSpace(author); author != "" {
			ignored[strings.ToLower(author)] = struct{}{}
		}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{
		Lookback: lookback,
		Ignored:  ignored,
		Location: loc,
		Now:      time.Now,
		log:      log,
	}
}

// IssueText is the outcome of one Build pass. Active is false when no
// comment survived the ignore-list and lookback filters; the issue still
// appears in the report, but callers can skip the completion request and
// use a placeholder narrative instead.
type IssueText struct {
	Text           string
	Active         bool
	RecentComments int
}

// Build produces the full descriptive text for one issue: identity header,
// description, and the comments inside the lookback window.
func (b *Builder) Build(issue *jira.Issue) IssueText {
	fields := issue.Fields
	mentions := NewMentionCache(issue)

	status := "Unknown"
	if fields.Status != nil && fields.Status.Name != "" {
		status = fields.Status.Name
	}
	assignee := "Unassigned"
	if fields.Assignee != nil && fields.Assignee.DisplayName != "" {
		assignee = fields.Assignee.DisplayName
	}
	reporter := "Unknown"
	if fields.Reporter != nil && fields.Reporter.DisplayName != "" {
		reporter = fields.Reporter.DisplayName
	}

	renderedDescription := ""
	if issue.RenderedFields != nil {
		renderedDescription = issue.RenderedFields.Description
	}
	description := Extract(fields.Description, renderedDescription, mentions)
	if description == "" {
		description = "<no description>"
	}

	parts := []string{
		"Issue Key: " + issue.Key,
		"Summary: " + fields.Summary,
		"Status: " + status,
		"Assignee: " + assignee,
		"Reporter: " + reporter,
	}
	if fields.Created != "" {
		parts = append(parts, "Created: "+b.formatTimestamp(fields.Created))
	}
	if fields.Updated != "" {
		parts = append(parts, "Updated: "+b.formatTimestamp(fields.Updated))
	}
	parts = append(parts, "", "Description:", description)

	comments := b.recentComments(issue, mentions)
	if len(comments) > 0 {
		parts = append(parts, "", "Comments:")
		parts = append(parts, comments...)
	}

	return IssueText{
		Text:           strings.Join(parts, "\n"),
		Active:         len(comments) > 0,
		RecentComments: len(comments),
	}
}

// recentComments returns the formatted comment lines that survive the
// ignore-list and the lookback window. Ignore filtering runs first; a
// comment without a parseable created timestamp is dropped.
func (b *Builder) recentComments(issue *jira.Issue, mentions MentionCache) []string {
	if issue.Fields.Comment == nil {
		return nil
	}

	cutoff := b.Now().Add(-b.Lookback)
	var lines []string

	for i := range issue.Fields.Comment.Comments {
		comment := &issue.Fields.Comment.Comments[i]
		if b.isIgnored(&comment.Author) {
			continue
		}

		created, ok := parseTimestamp(comment.Created)
		if !ok {
			b.log.Debug().
				Str("issue", issue.Key).
				Str("created", comment.Created).
				Msg("dropping comment with unparseable timestamp")
			continue
		}
		// boundary is inclusive: a comment at exactly now-lookback stays
		if created.Before(cutoff) {
			continue
		}

		author := comment.Author.DisplayName
		if author == "" {
			author = "Unknown"
		}
		body := Extract(comment.Body, comment.RenderedBody, mentions)
		if body == "" {
			body = "empty comment"
		}
		lines = append(lines, fmt.Sprintf("- %s – %s: %s", b.formatTimestamp(comment.Created), author, body))
	}

	return lines
}

// isIgnored reports whether any identity field of the author is on the
// ignore list.
func (b *Builder) isIgnored(author *jira.User) bool {
	if len(b.Ignored) == 0 {
		return false
	}
	for _, id := range author.Identifiers() {
		if _, ok := b.Ignored[strings.ToLower(id)]; ok {
			return true
		}
	}
	return false
}

// formatTimestamp renders a JIRA timestamp in the configured timezone.
// Values that fail both known layouts pass through verbatim.
func (b *Builder) formatTimestamp(value string) string {
	t, ok := parseTimestamp(value)
	if !ok {
		b.log.Debug().Str("value", value).Msg("unparseable timestamp passed through")
		return value
	}
	return t.In(b.Location).Format(displayTimeLayout)
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
