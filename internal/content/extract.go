package content

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/dt-pm-tools/jira-report/internal/jira"
)

// mentionPattern matches inline user references like [~accountid:abc123]
// and the older [~username] form.
var mentionPattern = regexp.MustCompile(`\[~(?:accountid:)?([^\]]+)\]`)

// blockTags are elements whose closing tag ends a line of extracted text.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "table": true,
	"ul": true, "ol": true,
}

// Extract converts a rich-text value into clean plain text. A non-empty
// pre-rendered HTML string wins over the structured body; a structured body
// wins over nothing. Mention tokens are resolved against the cache;
// unresolved identifiers stay as bare identifier text.
func Extract(body *jira.Body, rendered string, mentions MentionCache) string {
	switch {
	case strings.TrimSpace(rendered) != "":
		return extractString(rendered, mentions)
	case body.IsZero():
		return ""
	case body.Node != nil:
		var b strings.Builder
		nodeText(body.Node, &b)
		return extractString(b.String(), mentions)
	}
	return extractString(body.Raw, mentions)
}

// extractString strips markup from a string value and resolves mentions.
// Malformed markup degrades to whatever text the tokenizer produced.
func extractString(value string, mentions MentionCache) string {
	text := stripMarkup(value)
	return resolveMentions(text, mentions)
}

// stripMarkup tokenizes HTML-ish markup and keeps only text, emitting a
// newline at block-element boundaries and <br>. The tokenizer never
// fails on malformed input; it just stops, so the worst case is truncated
// plain text.
func stripMarkup(value string) string {
	tz := html.NewTokenizer(strings.NewReader(value))
	var b strings.Builder

scan:
	for {
		switch tz.Next() {
		case html.ErrorToken:
			break scan
		case html.TextToken:
			b.Write(tz.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tz.TagName()
			// a block start also separates: markup may rely on implicit
			// closing (<p>one<p>two) and never emit the end tag
			if tag := string(name); tag == "br" || blockTags[tag] {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := tz.TagName()
			if blockTags[string(name)] {
				b.WriteByte('\n')
			}
		}
	}

	return collapseLines(b.String())
}

// collapseLines trims every line and drops the empty ones, mirroring
// get-text-with-newline-separators behavior.
func collapseLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// resolveMentions replaces mention tokens with cached display names.
// Unknown identifiers degrade to the identifier itself, not the raw token.
func resolveMentions(text string, mentions MentionCache) string {
	return mentionPattern.ReplaceAllStringFunc(text, func(token string) string {
		id := mentionPattern.FindStringSubmatch(token)[1]
		if name, ok := mentions.Resolve(id); ok {
			return name
		}
		return id
	})
}

// nodeText walks a document-node tree in pre-order. Text nodes emit their
// literal text, hard breaks a newline, mentions their display text, and
// paragraph-like containers a trailing newline. Unknown node types are
// skipped but their children are still visited, so traversal is total.
func nodeText(n *jira.ADFNode, b *strings.Builder) {
	switch n.Type {
	case "text":
		b.WriteString(n.Text)
		return
	case "hardBreak":
		b.WriteByte('\n')
		return
	case "mention":
		b.WriteString(mentionText(n))
		return
	}

	for i := range n.Content {
		nodeText(&n.Content[i], b)
	}

	switch n.Type {
	case "paragraph", "heading", "listItem":
		b.WriteByte('\n')
	}
}

// mentionText prefers the node's display text; without one it emits a
// mention token so the string pass can resolve the identifier.
func mentionText(n *jira.ADFNode) string {
	if t, ok := n.Attrs["text"].(string); ok && t != "" {
		return t
	}
	if id, ok := n.Attrs["id"].(string); ok && id != "" {
		return fmt.Sprintf("[~accountid:%s]", id)
	}
	return ""
}
