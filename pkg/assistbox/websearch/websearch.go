// Package websearch provides the web_search tool. It queries a text-search
// provider over HTTP and returns title/url/snippet results. Providers are
// interchangeable; only the JSON response shape is assumed.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pavelkurin/multitool/pkg/toolbox"
)

// snippetLimit caps snippet length in runes so a single result cannot flood
// the conversation context.
const snippetLimit = 200

// Result is one search hit returned to the caller.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// providerResponse is the wire shape expected from the search provider.
type providerResponse struct {
	Results []Result `json:"results"`
}

// Client queries a search provider endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given provider endpoint.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Tools returns the web_search tool.
func (c *Client) Tools() []toolbox.Tool {
	return []toolbox.Tool{
		{
			Spec: toolbox.Spec{
				Name:        "web_search",
				Description: "Search the web. Returns a list of results with title, url, and snippet. An empty list means nothing matched, not an error.",
				Params: []toolbox.Param{
					{Name: "query", Type: toolbox.TypeString, Required: true, Description: "Search query"},
					{Name: "max_results", Type: toolbox.TypeInt, Default: 5, Description: "Maximum number of results"},
				},
			},
			Handler: c.handleSearch,
		},
	}
}

func (c *Client) handleSearch(ctx context.Context, args toolbox.Args) (any, error) {
	query := args.String("query")
	maxResults := args.Int("max_results")
	if maxResults <= 0 {
		maxResults = 5
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("count", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("web_search: create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web_search: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on read

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web_search: provider returned %s", resp.Status)
	}

	var body providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("web_search: decode response: %w", err)
	}

	// Absence of results is a valid outcome, not a failure.
	results := make([]Result, 0, len(body.Results))
	for _, r := range body.Results {
		if len(results) >= maxResults {
			break
		}

		r.Snippet = truncate(r.Snippet, snippetLimit)
		results = append(results, r)
	}

	return results, nil
}

// truncate shortens s to at most limit runes, appending an ellipsis when the
// text was cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit-3]) + "..."
}
