package render

// Notes:
// - Page skeleton: toc macro, info section, filter link, totals.
// - Section rendering: linked heading, metadata row, badges, panel wrap.
// - Narrative markdown: tables and fenced code render, raw HTML does not.

import (
	"strings"
	"testing"
	"time"
)

func testMeta() PageMeta {
	return PageMeta{
		BaseURL:     "https://example.atlassian.net/",
		FilterID:    "10042",
		FilterName:  "Weekly triage",
		TotalIssues: 2,
		GeneratedAt: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderPageSkeleton(t *testing.T) {
	t.Parallel()

	r := NewRenderer(nil)
	doc := r.Render(testMeta(), nil)

	for _, want := range []string{
		`<ac:structured-macro ac:name="toc">`,
		`<ac:parameter ac:name="minLevel">3</ac:parameter>`,
		`<ac:structured-macro ac:name="info">`,
		`<strong>Generated:</strong> 2025-03-15 12:00 UTC`,
		`<a href="https://example.atlassian.net/issues/?filter=10042">10042</a> (Weekly triage)`,
		`<strong>Total issues:</strong> 2`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("page missing %q:\n%s", want, doc)
		}
	}
}

func TestRenderSection(t *testing.T) {
	t.Parallel()

	r := NewRenderer(map[string]string{"blocked": "red"})
	rec := Record{
		Key:          "PRJ-7",
		Summary:      "Tune <cache> layer",
		AssigneeName: "Jane Doe",
		AssigneeURL:  "https://example.atlassian.net/secure/ViewProfile.jspa?name=jane",
		ReporterName: "Sam Lee",
		PriorityName: "High",
		Labels:       []string{"blocked", "perf"},
		Components:   []string{"core", "api"},
		Status:       "In Progress",
		Product:      "Platform",
		Customer:     "Acme",
		Narrative:    "Work continues.",
		Panel:        true,
	}

	doc := r.Render(testMeta(), []Record{rec})

	for _, want := range []string{
		`<h3><a href="https://example.atlassian.net/browse/PRJ-7">PRJ-7</a>: Tune &lt;cache&gt; layer</h3>`,
		`<a href="https://example.atlassian.net/secure/ViewProfile.jspa?name=jane">Jane Doe</a>`,
		`<strong>Reporter:</strong> Sam Lee`,
		`<strong>Priority:</strong> High`,
		`<strong>Status:</strong> In Progress`,
		`<strong>Components:</strong> core, api`,
		`<strong>Product:</strong> Platform | <strong>Customer:</strong> Acme`,
		// the mapped label becomes a badge, the other stays plain text
		`<ac:parameter ac:name="colour">red</ac:parameter><ac:parameter ac:name="title">blocked</ac:parameter>`,
		`, perf`,
		// real narrative gets a panel
		`<ac:parameter ac:name="bgColor">#E9F2FF</ac:parameter>`,
		`<ac:rich-text-body><p>Work continues.</p>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("section missing %q:\n%s", want, doc)
		}
	}
}

func TestRenderSectionFallbacks(t *testing.T) {
	t.Parallel()

	r := NewRenderer(nil)
	doc := r.Render(testMeta(), []Record{{Key: "PRJ-8", Summary: "Bare"}})

	for _, want := range []string{
		`<strong>Assignee:</strong> Unassigned`,
		`<strong>Reporter:</strong> Unknown`,
		`<strong>Priority:</strong> None`,
		`<strong>Labels:</strong> None`,
		`<strong>Status:</strong> Unknown`,
		`<strong>Components:</strong> None`,
		`<strong>Product:</strong> Unknown | <strong>Customer:</strong> Unknown`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("fallback row missing %q:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, `ac:name="panel"`) {
		t.Error("placeholder row should not be wrapped in a panel")
	}
}

func TestFormatStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status    string
		wantBadge bool
	}{
		{"Done", true},
		{"CLOSED", true},
		{"Resolved", true},
		{"cancelled", true},
		{"In Progress", false},
		{"To Do", false},
	}

	for _, tt := range tests {
		got := formatStatus(tt.status)
		isBadge := strings.Contains(got, `ac:name="status"`)
		if isBadge != tt.wantBadge {
			t.Errorf("formatStatus(%q) badge = %v, want %v: %s", tt.status, isBadge, tt.wantBadge, got)
		}
		if tt.wantBadge && !strings.Contains(got, `<ac:parameter ac:name="colour">Green</ac:parameter>`) {
			t.Errorf("formatStatus(%q) should use the Green colour: %s", tt.status, got)
		}
	}
}

func TestImpedimentBadge(t *testing.T) {
	t.Parallel()

	r := NewRenderer(nil)
	doc := r.Render(testMeta(), []Record{{Key: "PRJ-9", Summary: "Stuck", Impediment: true}})

	if !strings.Contains(doc, `<ac:parameter ac:name="title">IMPEDIMENT</ac:parameter>`) {
		t.Errorf("impediment badge missing:\n%s", doc)
	}
}

func TestRenderNarrative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			"paragraphs and emphasis",
			"First point.\n\nSecond **bold** point.",
			[]string{"<p>First point.</p>", "<strong>bold</strong>"},
		},
		{
			"pipe table",
			"| Col |\n|-----|\n| val |",
			[]string{"<table>", "<th>Col</th>", "<td>val</td>"},
		},
		{
			"fenced code",
			"```\nselect 1;\n```",
			[]string{"<pre><code>select 1;"},
		},
		{
			"raw html stays inert",
			"before <script>alert(1)</script> after",
			[]string{"<!-- raw HTML omitted -->"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := renderNarrative(tt.in)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("renderNarrative(%q) missing %q:\n%s", tt.in, want, got)
				}
			}
		})
	}
}
