// Package render produces the report documents: Confluence storage-format
// HTML assembled from per-issue records, an advisory tag-balance validator,
// and an adapter that turns storage or exported HTML into an email-safe
// standalone document.
package render

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"
)

// PageMeta is the page-level context for one rendered report.
type PageMeta struct {
	BaseURL     string
	FilterID    string
	FilterName  string
	TotalIssues int
	GeneratedAt time.Time
}

// Record is one issue row of the report, already reduced to display values.
// Panel is true only when Narrative is real generated text; placeholder
// rows render unwrapped.
type Record struct {
	Key          string
	Summary      string
	AssigneeName string
	AssigneeURL  string
	ReporterName string
	PriorityName string
	Labels       []string
	Components   []string
	Status       string
	Impediment   bool
	Product      string
	Customer     string
	Narrative    string
	Panel        bool
}

// doneStatuses render as a green status badge; everything else is plain text.
var doneStatuses = map[string]bool{
	"done": true, "closed": true, "resolved": true, "cancelled": true,
}

// reviewDisclaimer is the fixed banner wrapped in the page's info macro.
const reviewDisclaimer = "Verify these summaries before sharing outside the team." +
	" Update the filter YAML prompt if focus areas change."

// Renderer builds storage-format pages. It is a pure transformation: all
// inputs, including the generation timestamp, arrive through arguments.
type Renderer struct {
	// LabelColors maps a label to a status-badge colour; unmapped labels
	// render as plain text.
	LabelColors map[string]string
}

// NewRenderer creates a Renderer with the given label colour mapping.
func NewRenderer(labelColors map[string]string) *Renderer {
	return &Renderer{LabelColors: labelColors}
}

// Render produces the full storage-format page body: table of contents,
// info section, then one section per record in input order.
func (r *Renderer) Render(meta PageMeta, records []Record) string {
	var b strings.Builder

	b.WriteString(tocMacro())
	r.writeInfoSection(&b, meta)

	base := strings.TrimRight(meta.BaseURL, "/")
	for i := range records {
		r.writeSection(&b, base, &records[i])
	}

	return b.String()
}

func tocMacro() string {
	return `<ac:structured-macro ac:name="toc">` +
		`<ac:parameter ac:name="minLevel">3</ac:parameter>` +
		`<ac:parameter ac:name="maxLevel">3</ac:parameter>` +
		`<ac:rich-text-body/>` +
		`</ac:structured-macro>`
}

func (r *Renderer) writeInfoSection(b *strings.Builder, meta PageMeta) {
	base := strings.TrimRight(meta.BaseURL, "/")
	filterURL := base + "/issues/?filter=" + url.QueryEscape(meta.FilterID)

	b.WriteString("<h3>Info</h3>")
	b.WriteString(`<ac:structured-macro ac:name="info">`)
	b.WriteString(`<ac:parameter ac:name="icon">information</ac:parameter>`)
	b.WriteString("<ac:rich-text-body><p>")
	b.WriteString(html.EscapeString(reviewDisclaimer))
	b.WriteString("</p></ac:rich-text-body></ac:structured-macro>")

	fmt.Fprintf(b, "<p><strong>Generated:</strong> %s</p>",
		html.EscapeString(meta.GeneratedAt.Format("2006-01-02 15:04 MST")))
	fmt.Fprintf(b, `<p><strong>Filter:</strong> <a href="%s">%s</a>`,
		html.EscapeString(filterURL), html.EscapeString(meta.FilterID))
	if meta.FilterName != "" {
		fmt.Fprintf(b, " (%s)", html.EscapeString(meta.FilterName))
	}
	b.WriteString("</p>")
	fmt.Fprintf(b, "<p><strong>Total issues:</strong> %d</p>", meta.TotalIssues)
	b.WriteString("<p>Review all generated notes for accuracy before wider sharing.</p>")
}

func (r *Renderer) writeSection(b *strings.Builder, base string, rec *Record) {
	issueURL := base + "/browse/" + rec.Key

	fmt.Fprintf(b, `<h3><a href="%s">%s</a>: %s</h3>`,
		html.EscapeString(issueURL), html.EscapeString(rec.Key), html.EscapeString(rec.Summary))

	assignee := html.EscapeString(orDefault(rec.AssigneeName, "Unassigned"))
	if rec.AssigneeURL != "" {
		assignee = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(rec.AssigneeURL), assignee)
	}

	b.WriteString("<p>")
	if rec.Impediment {
		b.WriteString(impedimentBadge())
	}
	fmt.Fprintf(b, "<strong>Assignee:</strong> %s | ", assignee)
	fmt.Fprintf(b, "<strong>Reporter:</strong> %s | ", html.EscapeString(orDefault(rec.ReporterName, "Unknown")))
	fmt.Fprintf(b, "<strong>Priority:</strong> %s | ", html.EscapeString(orDefault(rec.PriorityName, "None")))
	fmt.Fprintf(b, "<strong>Labels:</strong> %s | ", r.formatLabels(rec.Labels))
	fmt.Fprintf(b, "<strong>Status:</strong> %s | ", formatStatus(rec.Status))
	fmt.Fprintf(b, "<strong>Components:</strong> %s", formatComponents(rec.Components))
	b.WriteString("</p>")

	fmt.Fprintf(b, "<p><strong>Product:</strong> %s | <strong>Customer:</strong> %s</p>",
		html.EscapeString(orDefault(rec.Product, "Unknown")),
		html.EscapeString(orDefault(rec.Customer, "Unknown")))

	body := renderNarrative(rec.Narrative)
	if rec.Panel {
		body = wrapPanel(body)
	}
	b.WriteString(body)
}

// formatStatus renders terminal statuses as a green badge and everything
// else as escaped text.
func formatStatus(status string) string {
	normalized := strings.TrimSpace(status)
	if normalized == "" {
		return "Unknown"
	}
	if doneStatuses[strings.ToLower(normalized)] {
		return statusMacro("Green", normalized)
	}
	return html.EscapeString(normalized)
}

// formatLabels renders mapped labels as coloured badges, the rest as text.
func (r *Renderer) formatLabels(labels []string) string {
	if len(labels) == 0 {
		return "None"
	}
	formatted := make([]string, 0, len(labels))
	for _, label := range labels {
		if color, ok := r.LabelColors[label]; ok && color != "" {
			formatted = append(formatted, statusMacro(color, label))
		} else {
			formatted = append(formatted, html.EscapeString(label))
		}
	}
	return strings.Join(formatted, ", ")
}

func formatComponents(components []string) string {
	if len(components) == 0 {
		return "None"
	}
	escaped := make([]string, 0, len(components))
	for _, component := range components {
		escaped = append(escaped, html.EscapeString(component))
	}
	return strings.Join(escaped, ", ")
}

func statusMacro(color, title string) string {
	return `<ac:structured-macro ac:name="status">` +
		`<ac:parameter ac:name="colour">` + html.EscapeString(color) + `</ac:parameter>` +
		`<ac:parameter ac:name="title">` + html.EscapeString(title) + `</ac:parameter>` +
		`<ac:parameter ac:name="subtle">false</ac:parameter>` +
		`</ac:structured-macro>`
}

func impedimentBadge() string {
	return statusMacro("Red", "IMPEDIMENT") + " "
}

func wrapPanel(body string) string {
	if body == "" {
		body = "<p></p>"
	}
	return `<ac:structured-macro ac:name="panel">` +
		`<ac:parameter ac:name="borderColor">#0052CC</ac:parameter>` +
		`<ac:parameter ac:name="borderStyle">solid</ac:parameter>` +
		`<ac:parameter ac:name="bgColor">#E9F2FF</ac:parameter>` +
		`<ac:rich-text-body>` + body + `</ac:rich-text-body>` +
		`</ac:structured-macro>`
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
