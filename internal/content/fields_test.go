package content

// Notes:
// - FieldValues over the shapes JIRA custom fields actually take: bare
//   strings, option objects, cascading selects with children, lists.
// - IsImpediment across its three detection branches.

import (
	"reflect"
	"testing"

	"github.com/dt-pm-tools/jira-report/internal/jira"
)

func TestFieldValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"bare string", "  Platform  ", []string{"Platform"}},
		{"empty string", "   ", nil},
		{"nil", nil, nil},
		{"number", 42.0, nil},
		{
			"option object",
			map[string]any{"value": "Mobile", "id": "10001"},
			[]string{"Mobile"},
		},
		{
			"object prefers value over name",
			map[string]any{"name": "fallback", "value": "primary"},
			[]string{"primary"},
		},
		{
			"object falls through to displayName",
			map[string]any{"displayName": "Jane Doe"},
			[]string{"Jane Doe"},
		},
		{
			"cascading select",
			map[string]any{
				"value": "Hardware",
				"children": []any{
					map[string]any{"value": "Sensors"},
				},
			},
			[]string{"Hardware", "Sensors"},
		},
		{
			"list of options",
			[]any{
				map[string]any{"value": "EMEA"},
				map[string]any{"value": "APAC"},
				"  NA ",
			},
			[]string{"EMEA", "APAC", "NA"},
		},
		{
			"list skips empty entries",
			[]any{"", map[string]any{"id": "10001"}},
			nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FieldValues(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FieldValues(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestJoinFieldValues(t *testing.T) {
	t.Parallel()

	multi := []any{
		map[string]any{"value": "EMEA"},
		map[string]any{"value": "APAC"},
	}
	if got := JoinFieldValues(multi, "Unknown"); got != "EMEA, APAC" {
		t.Errorf("JoinFieldValues() = %q, want %q", got, "EMEA, APAC")
	}
	if got := JoinFieldValues(nil, "Unknown"); got != "Unknown" {
		t.Errorf("JoinFieldValues(nil) = %q, want fallback", got)
	}
}

func TestIsImpediment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fields    jira.Fields
		flagField string
		want      bool
	}{
		{
			"flagged list entry",
			jira.Fields{Custom: map[string]any{
				"flagged": []any{map[string]any{"value": "Impediment"}},
			}},
			"",
			true,
		},
		{
			"flagged list without impediment",
			jira.Fields{Custom: map[string]any{
				"flagged": []any{map[string]any{"value": "Needs review"}},
			}},
			"",
			false,
		},
		{
			"designated custom field, nested value",
			jira.Fields{Custom: map[string]any{
				"customfield_10021": []any{map[string]any{"value": "Impediment"}},
			}},
			"customfield_10021",
			true,
		},
		{
			"designated custom field empty",
			jira.Fields{Custom: map[string]any{}},
			"customfield_10021",
			false,
		},
		{
			"status named impediment",
			jira.Fields{Status: &jira.Status{Name: "Impediment"}},
			"",
			true,
		},
		{
			"status merely containing the word",
			jira.Fields{Status: &jira.Status{Name: "Impediment review"}},
			"",
			false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			issue := &jira.Issue{Key: "PRJ-1", Fields: tt.fields}
			if got := IsImpediment(issue, tt.flagField); got != tt.want {
				t.Errorf("IsImpediment() = %v, want %v", got, tt.want)
			}
		})
	}
}
