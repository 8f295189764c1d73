// Package confluence is a thin client for the Confluence content REST API,
// limited to what publishing a report page needs.
package confluence

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client publishes storage-format pages.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a Confluence client.
func NewClient(baseURL, email, token string, timeout time.Duration, log zerolog.Logger) *Client {
	creds := base64.StdEncoding.EncodeToString([]byte(email + ":" + token))
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authHeader: "Basic " + creds,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Page is the subset of the create-page response we care about.
type Page struct {
	ID    string `json:"id"`
	Links struct {
		Base  string `json:"base"`
		WebUI string `json:"webui"`
	} `json:"_links"`
}

// URL returns the browsable address of the page, or "" if links are absent.
func (p *Page) URL() string {
	if p.Links.Base == "" {
		return ""
	}
	return p.Links.Base + p.Links.WebUI
}

type createPayload struct {
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Ancestors []ancestor `json:"ancestors"`
	Space     spaceRef   `json:"space"`
	Body      body       `json:"body"`
}

type ancestor struct {
	ID int `json:"id"`
}

type spaceRef struct {
	Key string `json:"key"`
}

type body struct {
	Storage storage `json:"storage"`
}

type storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// CreatePage publishes a storage-format body as a new child page.
func (c *Client) CreatePage(spaceKey string, parentPageID int, title, bodyStorage string) (*Page, error) {
	payload := createPayload{
		Type:      "page",
		Title:     title,
		Ancestors: []ancestor{{ID: parentPageID}},
		Space:     spaceRef{Key: spaceKey},
		Body: body{Storage: storage{
			Value:          bodyStorage,
			Representation: "storage",
		}},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling payload: %w", err)
	}

	url := c.baseURL + "/rest/api/content"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Str("url", url).Str("title", title).Msg("confluence POST")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		c.log.Error().Int("status", resp.StatusCode).Str("body", string(respBody)).Msg("confluence error")
		return nil, fmt.Errorf("Confluence API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &page, nil
}
