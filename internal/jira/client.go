package jira

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// searchPageSize is the maxResults value used for paginated searches.
const searchPageSize = 100

// Client is a JIRA REST API v2 client.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new JIRA client.
func NewClient(baseURL, email, token string, timeout time.Duration, log zerolog.Logger) *Client {
	creds := base64.StdEncoding.EncodeToString([]byte(email + ":" + token))
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authHeader: "Basic " + creds,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// BaseURL returns the configured JIRA base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetFilter fetches a saved filter by ID.
func (c *Client) GetFilter(filterID string) (*Filter, error) {
	var filter Filter
	path := "/rest/api/2/filter/" + url.PathEscape(filterID)
	if err := c.get(path, &filter); err != nil {
		return nil, fmt.Errorf("fetching filter %s: %w", filterID, err)
	}
	return &filter, nil
}

// SearchIssues runs a JQL query and returns all matching issues, following
// startAt/maxResults pagination until the reported total is reached.
func (c *Client) SearchIssues(jql string, fields []string) ([]Issue, error) {
	var issues []Issue
	startAt := 0

	for {
		params := url.Values{}
		params.Set("jql", jql)
		params.Set("startAt", strconv.Itoa(startAt))
		params.Set("maxResults", strconv.Itoa(searchPageSize))
		if len(fields) > 0 {
			params.Set("fields", strings.Join(fields, ","))
		}
		// renderedBody on comments needs the rendered field expansion
		params.Set("expand", "renderedFields")

		var page searchResponse
		if err := c.get("/rest/api/2/search?"+params.Encode(), &page); err != nil {
			return nil, fmt.Errorf("searching issues: %w", err)
		}

		for i := range page.Issues {
			page.Issues[i].applyRendered()
		}
		issues = append(issues, page.Issues...)
		c.log.Info().
			Int("start_at", startAt).
			Int("page", len(page.Issues)).
			Int("total", page.Total).
			Msg("jira search page")

		startAt += len(page.Issues)
		if startAt >= page.Total || len(page.Issues) == 0 {
			break
		}
	}

	c.log.Info().Int("issues", len(issues)).Str("jql", jql).Msg("jira search completed")
	return issues, nil
}

func (c *Client) get(path string, out any) error {
	fullURL := c.baseURL + path

	req, err := http.NewRequest(http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	c.log.Debug().Str("url", fullURL).Msg("jira GET")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("JIRA API returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
