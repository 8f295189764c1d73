package jira

import (
	"bytes"
	"encoding/json"
)

// Issue represents a JIRA issue as returned by the search API.
type Issue struct {
	Key            string          `json:"key"`
	Fields         Fields          `json:"fields"`
	RenderedFields *RenderedFields `json:"renderedFields,omitempty"`
}

// RenderedFields carries the HTML-rendered field variants delivered when a
// search requests expand=renderedFields.
type RenderedFields struct {
	Description string            `json:"description,omitempty"`
	Comment     *RenderedComments `json:"comment,omitempty"`
}

// RenderedComments mirrors the comments array with rendered HTML bodies.
type RenderedComments struct {
	Comments []RenderedComment `json:"comments"`
}

// RenderedComment is the rendered counterpart of one comment.
type RenderedComment struct {
	Body string `json:"body"`
}

// applyRendered copies the rendered comment bodies onto the comment
// entries. The API emits both arrays in the same order, so matching is
// positional.
func (i *Issue) applyRendered() {
	if i.RenderedFields == nil || i.RenderedFields.Comment == nil || i.Fields.Comment == nil {
		return
	}
	rendered := i.RenderedFields.Comment.Comments
	for idx := range i.Fields.Comment.Comments {
		if idx < len(rendered) {
			i.Fields.Comment.Comments[idx].RenderedBody = rendered[idx].Body
		}
	}
}

// Fields contains the issue fields we care about. Anything the struct does
// not model (customfield_* values carrying flags, product, customer, ...)
// is kept in Custom for config-driven lookup.
type Fields struct {
	Summary     string
	Description *Body
	Status      *Status
	Assignee    *User
	Reporter    *User
	Priority    *Priority
	Labels      []string
	Comment     *Comments
	Created     string
	Updated     string
	Custom      map[string]any
}

type knownFields struct {
	Summary     string    `json:"summary"`
	Description *Body     `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Assignee    *User     `json:"assignee,omitempty"`
	Reporter    *User     `json:"reporter,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Labels      []string  `json:"labels,omitempty"`
	Comment     *Comments `json:"comment,omitempty"`
	Created     string    `json:"created,omitempty"`
	Updated     string    `json:"updated,omitempty"`
}

var knownFieldNames = map[string]bool{
	"summary": true, "description": true, "status": true,
	"assignee": true, "reporter": true, "priority": true,
	"labels": true, "comment": true, "created": true, "updated": true,
}

// UnmarshalJSON decodes the known fields and routes every other key into
// Custom as plain decoded JSON.
func (f *Fields) UnmarshalJSON(data []byte) error {
	var known knownFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	f.Summary = known.Summary
	f.Description = known.Description
	f.Status = known.Status
	f.Assignee = known.Assignee
	f.Reporter = known.Reporter
	f.Priority = known.Priority
	f.Labels = known.Labels
	f.Comment = known.Comment
	f.Created = known.Created
	f.Updated = known.Updated

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for name, value := range raw {
		if knownFieldNames[name] {
			continue
		}
		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			continue
		}
		if f.Custom == nil {
			f.Custom = make(map[string]any)
		}
		f.Custom[name] = decoded
	}
	return nil
}

// Status represents a JIRA status.
type Status struct {
	Name string `json:"name"`
}

// Priority represents a JIRA priority.
type Priority struct {
	Name string `json:"name"`
}

// User represents a JIRA user. Which identifier fields are populated depends
// on the server flavour (Cloud uses accountId, Server uses name/key).
type User struct {
	AccountID    string `json:"accountId,omitempty"`
	Name         string `json:"name,omitempty"`
	Key          string `json:"key,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
}

// Identifiers returns the non-empty identity fields of the user.
func (u *User) Identifiers() []string {
	if u == nil {
		return nil
	}
	var ids []string
	for _, id := range []string{u.AccountID, u.Name, u.Key, u.EmailAddress} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Identifier returns the first non-empty identity field, or "".
func (u *User) Identifier() string {
	ids := u.Identifiers()
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// Comments wraps the comments array from the JIRA API.
type Comments struct {
	Comments []Comment `json:"comments"`
}

// Comment represents a single JIRA comment. RenderedBody is not on the
// wire at this position; it is filled in from the issue's renderedFields.
type Comment struct {
	Author       User   `json:"author"`
	Body         *Body  `json:"body,omitempty"`
	RenderedBody string `json:"-"`
	Created      string `json:"created"`
}

// Body is a rich-text value that arrives either as a raw markup string
// (API v2) or as an Atlassian Document Format node tree (API v3). At most
// one of Raw or Node is set.
type Body struct {
	Raw  string
	Node *ADFNode
}

func (b *Body) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &b.Raw)
	}
	b.Node = &ADFNode{}
	return json.Unmarshal(trimmed, b.Node)
}

// IsZero reports whether the body carries no content at all.
func (b *Body) IsZero() bool {
	return b == nil || (b.Raw == "" && b.Node == nil)
}

// ADFNode represents a node in the Atlassian Document Format.
type ADFNode struct {
	Type    string         `json:"type"`
	Content []ADFNode      `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// Filter represents a saved JIRA filter.
type Filter struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	JQL         string `json:"jql"`
}

// searchResponse is one page of /rest/api/2/search results.
type searchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}
