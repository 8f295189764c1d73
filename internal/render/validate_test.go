package render

// Notes:
// - Validate over balanced documents, mismatches, stray closers, void
//   elements, and the unclosed-stack report ordering.

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{"empty", "", nil},
		{"balanced", "<p><b>bold</b> text</p>", nil},
		{
			"balanced with macros",
			`<ac:structured-macro ac:name="status"><ac:parameter ac:name="title">Done</ac:parameter></ac:structured-macro>`,
			nil,
		},
		{"void elements ignored", "<p>a<br>b<hr>c</p>", nil},
		{"self-closing ignored", "<p>a<br/>b</p>", nil},
		{
			"mismatched close leaves stack intact",
			"<p><b>x</p>",
			[]string{
				"closing tag </p> does not match open <b>",
				"unclosed tag <b>",
				"unclosed tag <p>",
			},
		},
		{
			"stray closer",
			"text</p>",
			[]string{"closing tag </p> with no open element"},
		},
		{
			"unclosed reported innermost first",
			"<div><p><span>x",
			[]string{
				"unclosed tag <span>",
				"unclosed tag <p>",
				"unclosed tag <div>",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := Validate(tt.doc)
			if len(errs) != len(tt.want) {
				t.Fatalf("Validate() returned %d errors, want %d: %v", len(errs), len(tt.want), errs)
			}
			for i, want := range tt.want {
				if got := errs[i].Error(); got != want {
					t.Errorf("error %d = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestValidateRenderedPage(t *testing.T) {
	t.Parallel()

	r := NewRenderer(map[string]string{"blocked": "red"})
	meta := PageMeta{
		BaseURL:     "https://example.atlassian.net",
		FilterID:    "10042",
		FilterName:  "Weekly triage",
		TotalIssues: 1,
		GeneratedAt: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	records := []Record{{
		Key:          "PRJ-1",
		Summary:      "Fix login bug",
		AssigneeName: "Jane Doe",
		AssigneeURL:  "https://example.atlassian.net/secure/ViewProfile.jspa?name=jane",
		Status:       "Done",
		Labels:       []string{"blocked", "auth"},
		Impediment:   true,
		Narrative:    "All clear.\n\n| a | b |\n|---|---|\n| 1 | 2 |",
		Panel:        true,
	}}

	doc := r.Render(meta, records)
	if errs := Validate(doc); len(errs) != 0 {
		t.Fatalf("rendered page failed validation: %v\n%s", errs, doc)
	}
	if !strings.Contains(doc, "PRJ-1") {
		t.Error("rendered page missing issue key")
	}
}
