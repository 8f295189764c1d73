// Package workflow sequences a report run: fetch issues, build per-issue
// text, request narratives, render and validate the page, publish it, and
// optionally produce the email copy.
package workflow

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dt-pm-tools/jira-report/internal/config"
	"github.com/dt-pm-tools/jira-report/internal/confluence"
	"github.com/dt-pm-tools/jira-report/internal/content"
	"github.com/dt-pm-tools/jira-report/internal/jira"
	"github.com/dt-pm-tools/jira-report/internal/render"
)

const systemPrompt = "You are a helpful assistant that summarizes Jira issues for engineering leadership."

// placeholderNarrative stands in for completion output in placeholder mode.
const placeholderNarrative = "This is where the LLM response is"

// noActivityNarrative is the fixed text for issues without recent comments.
// Sections carrying it are never wrapped in a panel.
const noActivityNarrative = "No recent activity in the reporting window."

// searchFields are the issue fields requested from the search API, plus the
// configured custom fields.
var searchFields = []string{
	"summary", "description", "status", "assignee", "reporter",
	"priority", "labels", "components", "created", "updated", "comment",
}

// IssueSource fetches filters and issues.
type IssueSource interface {
	GetFilter(filterID string) (*jira.Filter, error)
	SearchIssues(jql string, fields []string) ([]jira.Issue, error)
	BaseURL() string
}

// Completer generates narrative text for one issue.
type Completer interface {
	Complete(systemPrompt, userPrompt, model string) (string, error)
}

// Publisher creates the report page.
type Publisher interface {
	CreatePage(spaceKey string, parentPageID int, title, bodyStorage string) (*confluence.Page, error)
}

// Sender delivers the email copy of the report.
type Sender interface {
	Send(subject, htmlBody string) error
}

// RunOptions control one report run.
type RunOptions struct {
	// Limit caps the number of processed issues; 0 means no cap.
	Limit int
	// Placeholder skips completion requests and substitutes fixed text.
	Placeholder bool
	// EmailOut, when set, writes the adapted email HTML to this path.
	EmailOut string
	// SendEmail delivers the adapted email HTML through the Sender.
	SendEmail bool
}

// Workflow wires the pipeline together.
type Workflow struct {
	cfg       config.Config
	issues    IssueSource
	completer Completer
	publisher Publisher
	sender    Sender
	builder   *content.Builder
	renderer  *render.Renderer
	log       zerolog.Logger

	// Now is swappable for tests.
	Now func() time.Time
}

// New creates a Workflow. sender may be nil when email delivery is not
// configured.
func New(cfg config.Config, issues IssueSource, completer Completer, publisher Publisher, sender Sender, log zerolog.Logger) *Workflow {
	builder := content.NewBuilder(
		time.Duration(cfg.Report.LookbackHours)*time.Hour,
		cfg.Report.IgnoreAuthors,
		cfg.Location(),
		log,
	)
	return &Workflow{
		cfg:       cfg,
		issues:    issues,
		completer: completer,
		publisher: publisher,
		sender:    sender,
		builder:   builder,
		renderer:  render.NewRenderer(cfg.Report.LabelColors),
		log:       log,
		Now:       time.Now,
	}
}

// Collect fetches the filter and all issues it matches.
func (w *Workflow) Collect(filterID string) (*jira.Filter, []jira.Issue, error) {
	filter, err := w.issues.GetFilter(filterID)
	if err != nil {
		return nil, nil, err
	}
	w.log.Info().Str("filter", filterID).Str("jql", filter.JQL).Msg("executing filter")

	fields := append([]string{}, searchFields...)
	for _, custom := range []string{w.cfg.Report.FlagField, w.cfg.Report.ProductField, w.cfg.Report.CustomerField} {
		if custom != "" {
			fields = append(fields, custom)
		}
	}

	issues, err := w.issues.SearchIssues(filter.JQL, fields)
	if err != nil {
		return nil, nil, err
	}
	w.log.Info().Str("filter", filterID).Int("issues", len(issues)).Msg("filter returned issues")
	return filter, issues, nil
}

// Run executes the full pipeline for one filter and returns the published
// page.
func (w *Workflow) Run(filterID string, opts RunOptions) (*confluence.Page, error) {
	filter, issues, err := w.Collect(filterID)
	if err != nil {
		return nil, err
	}
	total := len(issues)
	if opts.Limit > 0 && opts.Limit < len(issues) {
		issues = issues[:opts.Limit]
	}

	filterCfg, err := config.ParseFilterDescription(filter.Description, w.cfg.LLM.Model)
	if err != nil {
		return nil, fmt.Errorf("reading filter configuration: %w", err)
	}

	records, err := w.buildRecords(issues, filterCfg, opts)
	if err != nil {
		return nil, err
	}

	meta := render.PageMeta{
		BaseURL:     w.issues.BaseURL(),
		FilterID:    filterID,
		FilterName:  filter.Name,
		TotalIssues: total,
		GeneratedAt: w.Now().In(w.cfg.Location()),
	}
	storage := w.renderer.Render(meta, records)
	w.persistArtifact(filepath.Join("confluence", "page.html"), storage)

	if w.cfg.Report.ValidateHTML {
		if errs := render.Validate(storage); len(errs) > 0 {
			for _, e := range errs {
				w.log.Error().Err(e).Msg("storage HTML structural error")
			}
			return nil, errors.Join(append([]error{render.ErrValidationFailed}, errs...)...)
		}
	}

	page, err := w.publisher.CreatePage(
		filterCfg.Confluence.SpaceKey,
		filterCfg.Confluence.ParentPageID,
		filterCfg.Confluence.PageName,
		storage,
	)
	if err != nil {
		return nil, fmt.Errorf("publishing page: %w", err)
	}
	w.log.Info().Str("page_id", page.ID).Str("url", page.URL()).Msg("created Confluence page")

	if opts.EmailOut != "" || opts.SendEmail {
		if err := w.emailCopy(storage, page, filterCfg.Confluence.PageName, opts); err != nil {
			return page, err
		}
	}

	return page, nil
}

// buildRecords runs the per-issue text build and completion round.
func (w *Workflow) buildRecords(issues []jira.Issue, filterCfg config.FilterConfig, opts RunOptions) ([]render.Record, error) {
	delay := time.Duration(w.cfg.LLM.RequestDelaySec) * time.Second
	records := make([]render.Record, 0, len(issues))
	start := time.Now()
	requests := 0

	for i := range issues {
		issue := &issues[i]
		text := w.builder.Build(issue)
		w.persistArtifact(filepath.Join("prompts", safeKey(issue.Key)+".txt"), content.NormalizeASCII(text.Text))

		narrative := noActivityNarrative
		panel := false
		switch {
		case !text.Active:
			w.log.Debug().Str("issue", issue.Key).Msg("no recent activity, skipping completion")
		case opts.Placeholder:
			narrative = placeholderNarrative
			panel = true
		default:
			if requests > 0 && delay > 0 {
				time.Sleep(delay)
			}
			generated, err := w.completer.Complete(systemPrompt, w.userPrompt(filterCfg, text.Text), filterCfg.LLM.Model)
			if err != nil {
				return nil, fmt.Errorf("generating narrative for %s: %w", issue.Key, err)
			}
			requests++
			narrative = generated
			panel = true
		}

		records = append(records, w.record(issue, narrative, panel))
	}

	w.log.Info().
		Int("requests", requests).
		Dur("elapsed", time.Since(start)).
		Msg("completion round finished")
	return records, nil
}

// record reduces one issue plus its narrative to display values.
func (w *Workflow) record(issue *jira.Issue, narrative string, panel bool) render.Record {
	fields := issue.Fields

	rec := render.Record{
		Key:        issue.Key,
		Summary:    fields.Summary,
		Labels:     fields.Labels,
		Narrative:  narrative,
		Panel:      panel,
		Impediment: content.IsImpediment(issue, w.cfg.Report.FlagField),
		Components: content.FieldValues(fields.Custom["components"]),
	}
	if fields.Status != nil {
		rec.Status = fields.Status.Name
	}
	if fields.Assignee != nil {
		rec.AssigneeName = fields.Assignee.DisplayName
		rec.AssigneeURL = w.profileURL(fields.Assignee)
	}
	if fields.Reporter != nil {
		rec.ReporterName = fields.Reporter.DisplayName
	}
	if fields.Priority != nil {
		rec.PriorityName = fields.Priority.Name
	}

	rec.Product = customFieldValue(fields.Custom, w.cfg.Report.ProductField)
	rec.Customer = customFieldValue(fields.Custom, w.cfg.Report.CustomerField)
	return rec
}

// customFieldValue joins a configured custom field's values, with the
// documented "Unknown" sentinel for absent configuration or values.
func customFieldValue(custom map[string]any, field string) string {
	if field == "" {
		return "Unknown"
	}
	return content.JoinFieldValues(custom[field], "Unknown")
}

func (w *Workflow) profileURL(u *jira.User) string {
	id := u.Identifier()
	if id == "" {
		return ""
	}
	return w.issues.BaseURL() + "/secure/ViewProfile.jspa?name=" + url.QueryEscape(id) + "#tab=activity-stream"
}

// userPrompt assembles the completion request text from the filter prompt,
// the current time, and the extracted issue text.
func (w *Workflow) userPrompt(filterCfg config.FilterConfig, issueText string) string {
	now := w.Now().In(w.cfg.Location()).Format("2006-01-02 15:04 MST")
	parts := []string{
		filterCfg.LLM.Prompt,
		"The current date and time is " + now + ".",
		"JIRA Extracted Text:",
		strings.TrimSpace(issueText),
	}
	return strings.Join(parts, "\n\n")
}

// emailCopy adapts the storage HTML for email, writes it if requested, and
// sends it if requested.
func (w *Workflow) emailCopy(storage string, page *confluence.Page, title string, opts RunOptions) error {
	emailHTML, err := render.AdaptEmail(storage, page.URL())
	if err != nil {
		return fmt.Errorf("adapting email HTML: %w", err)
	}

	if opts.EmailOut != "" {
		if err := os.WriteFile(opts.EmailOut, []byte(emailHTML), 0644); err != nil {
			return fmt.Errorf("writing email HTML: %w", err)
		}
		w.log.Info().Str("path", opts.EmailOut).Msg("wrote email HTML")
	}

	if opts.SendEmail {
		if w.sender == nil {
			return fmt.Errorf("email sending requested but SMTP is not configured")
		}
		if err := w.sender.Send(title, emailHTML); err != nil {
			return fmt.Errorf("sending report email: %w", err)
		}
		w.log.Info().Str("title", title).Msg("sent report email")
	}

	return nil
}

// persistArtifact writes an intermediate artifact below the output dir.
// Failures are logged, never fatal.
func (w *Workflow) persistArtifact(rel, data string) {
	if w.cfg.Report.OutputDir == "" {
		return
	}
	path := filepath.Join(w.cfg.Report.OutputDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		w.log.Warn().Err(err).Str("path", path).Msg("unable to create artifact directory")
		return
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		w.log.Warn().Err(err).Str("path", path).Msg("failed to persist artifact")
	}
}

func safeKey(key string) string {
	return strings.ReplaceAll(key, "/", "_")
}
