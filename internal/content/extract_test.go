package content

// Notes:
// - Extract: markup stripping, node-tree traversal, mention resolution,
//   and the renderedBody preference order.

import (
	"testing"

	"github.com/dt-pm-tools/jira-report/internal/jira"
)

func TestExtractMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		markup   string
		expected string
	}{
		{
			name:     "empty input",
			markup:   "",
			expected: "",
		},
		{
			name:     "plain text passes through",
			markup:   "just text",
			expected: "just text",
		},
		{
			name:     "paragraphs become lines",
			markup:   "<p>one</p><p>two</p>",
			expected: "one\ntwo",
		},
		{
			name:     "list items become lines",
			markup:   "<ul><li>a</li><li>b</li></ul>",
			expected: "a\nb",
		},
		{
			name:     "inline markup is stripped without breaking lines",
			markup:   "<p><b>bold</b> and <i>italic</i></p>",
			expected: "bold and italic",
		},
		{
			name:     "br breaks a line",
			markup:   "<p>first<br>second</p>",
			expected: "first\nsecond",
		},
		{
			name:     "entities are decoded",
			markup:   "<p>a &amp; b</p>",
			expected: "a & b",
		},
		{
			name:     "headings and blank runs collapse",
			markup:   "<h2>Title</h2>\n\n<p>  body  </p>",
			expected: "Title\nbody",
		},
		{
			name:     "malformed markup degrades to text",
			markup:   "<p>open <b>never closed",
			expected: "open never closed",
		},
		{
			name:     "implicitly closed paragraphs still separate",
			markup:   "<p>one<p>two",
			expected: "one\ntwo",
		},
		{
			name:     "implicitly closed list items still separate",
			markup:   "<ul><li>a<li>b</ul>",
			expected: "a\nb",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Extract(&jira.Body{Raw: tt.markup}, "", MentionCache{})
			if got != tt.expected {
				t.Errorf("Extract(%q) = %q, want %q", tt.markup, got, tt.expected)
			}
		})
	}
}

func TestExtractMentions(t *testing.T) {
	t.Parallel()

	cache := MentionCache{"abc123": "Jane Doe"}

	tests := []struct {
		name     string
		markup   string
		expected string
	}{
		{
			name:     "cached mention resolves to display name",
			markup:   "<p>ping [~accountid:abc123]</p>",
			expected: "ping Jane Doe",
		},
		{
			name:     "lookup is case-insensitive",
			markup:   "<p>ping [~accountid:ABC123]</p>",
			expected: "ping Jane Doe",
		},
		{
			name:     "legacy username form resolves too",
			markup:   "<p>ping [~abc123]</p>",
			expected: "ping Jane Doe",
		},
		{
			name:     "unresolved mention keeps the bare identifier",
			markup:   "<p>ping [~accountid:ghost]</p>",
			expected: "ping ghost",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Extract(&jira.Body{Raw: tt.markup}, "", cache)
			if got != tt.expected {
				t.Errorf("Extract(%q) = %q, want %q", tt.markup, got, tt.expected)
			}
		})
	}
}

func TestExtractNodeTree(t *testing.T) {
	t.Parallel()

	doc := &jira.ADFNode{
		Type: "doc",
		Content: []jira.ADFNode{
			{Type: "paragraph", Content: []jira.ADFNode{
				{Type: "text", Text: "hello"},
				{Type: "hardBreak"},
				{Type: "text", Text: "world"},
			}},
			{Type: "bulletList", Content: []jira.ADFNode{
				{Type: "listItem", Content: []jira.ADFNode{
					{Type: "text", Text: "item"},
				}},
			}},
		},
	}

	got := Extract(&jira.Body{Node: doc}, "", MentionCache{})
	want := "hello\nworld\nitem"
	if got != want {
		t.Errorf("Extract(node tree) = %q, want %q", got, want)
	}
}

func TestExtractNodeTreeUnknownTypes(t *testing.T) {
	t.Parallel()

	// Unknown container types must not lose their children.
	doc := &jira.ADFNode{
		Type: "doc",
		Content: []jira.ADFNode{
			{Type: "mysteryPanel", Content: []jira.ADFNode{
				{Type: "paragraph", Content: []jira.ADFNode{
					{Type: "text", Text: "survives"},
				}},
			}},
		},
	}

	if got := Extract(&jira.Body{Node: doc}, "", MentionCache{}); got != "survives" {
		t.Errorf("Extract(unknown node) = %q, want %q", got, "survives")
	}
}

func TestExtractNodeTreeMentions(t *testing.T) {
	t.Parallel()

	cache := MentionCache{"u-1": "Sam Lee"}

	tests := []struct {
		name     string
		node     jira.ADFNode
		expected string
	}{
		{
			name: "mention with display text",
			node: jira.ADFNode{Type: "mention", Attrs: map[string]any{
				"id": "u-1", "text": "@Sam",
			}},
			expected: "@Sam",
		},
		{
			name: "mention without text resolves via cache",
			node: jira.ADFNode{Type: "mention", Attrs: map[string]any{
				"id": "u-1",
			}},
			expected: "Sam Lee",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := &jira.ADFNode{Type: "doc", Content: []jira.ADFNode{
				{Type: "paragraph", Content: []jira.ADFNode{tt.node}},
			}}
			if got := Extract(&jira.Body{Node: doc}, "", cache); got != tt.expected {
				t.Errorf("Extract(mention) = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExtractPreference(t *testing.T) {
	t.Parallel()

	node := &jira.ADFNode{Type: "doc", Content: []jira.ADFNode{
		{Type: "paragraph", Content: []jira.ADFNode{{Type: "text", Text: "from tree"}}},
	}}

	tests := []struct {
		name     string
		body     *jira.Body
		rendered string
		expected string
	}{
		{
			name:     "rendered body wins over node tree",
			body:     &jira.Body{Node: node},
			rendered: "<p>from rendered</p>",
			expected: "from rendered",
		},
		{
			name:     "blank rendered body falls back to node tree",
			body:     &jira.Body{Node: node},
			rendered: "   ",
			expected: "from tree",
		},
		{
			name:     "nil body with no rendered text is empty",
			body:     nil,
			rendered: "",
			expected: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Extract(tt.body, tt.rendered, MentionCache{}); got != tt.expected {
				t.Errorf("Extract() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestMentionCache(t *testing.T) {
	t.Parallel()

	issue := &jira.Issue{Fields: jira.Fields{
		Assignee: &jira.User{AccountID: "A-1", DisplayName: "Anna"},
		Reporter: &jira.User{Name: "bob", EmailAddress: "bob@example.com", DisplayName: "Bob"},
		Comment: &jira.Comments{Comments: []jira.Comment{
			{Author: jira.User{AccountID: "C-9", DisplayName: "Cleo"}},
		}},
	}}

	cache := NewMentionCache(issue)

	checks := map[string]string{
		"a-1":             "Anna",
		"BOB":             "Bob",
		"bob@example.com": "Bob",
		"c-9":             "Cleo",
	}
	for id, want := range checks {
		if got, ok := cache.Resolve(id); !ok || got != want {
			t.Errorf("Resolve(%q) = %q, %v; want %q, true", id, got, ok, want)
		}
	}
	if _, ok := cache.Resolve("missing"); ok {
		t.Error("Resolve(missing) unexpectedly succeeded")
	}
}
