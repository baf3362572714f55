package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"CropInsights/internal/domain"
	"CropInsights/internal/scanner"
)

const (
	newsAPIEndpoint = "https://newsapi.org/v2/everything"
	newsAPIPageSize = 100

	// DefaultNewsQuery targets rice supply, demand and pricing coverage.
	DefaultNewsQuery = `+rice AND ("production" OR "yield" OR "trade" OR "price" OR "flood" OR "policy") ` +
		`OR "global rice trade" ` +
		`OR "Indian rice exports" ` +
		`OR "Pakistan rice industry" ` +
		`OR "food inflation" ` +
		`OR "climate change AND rice"`

	// DefaultNewsSources is the provider allow-list used when a site sets none.
	DefaultNewsSources = "ary-news,al-jazeera-english,bloomberg,reuters,business-insider,google-news,the-times-of-india"
)

// NewsAPI truncates content with a marker such as "[+2345 chars]".
var truncatedExpr = regexp.MustCompile(`\s*\[\+\d+ chars\]\s*$`)

// NewsAPIScanner queries the NewsAPI "everything" endpoint for a single day.
type NewsAPIScanner struct {
	client *http.Client
	apiKey string
}

// NewNewsAPIScanner wires an HTTP client; a nil client gets a 20s timeout.
func NewNewsAPIScanner(client *http.Client, apiKey string) *NewsAPIScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &NewsAPIScanner{client: client, apiKey: apiKey}
}

// Name identifies the strategy inside the registry.
func (n *NewsAPIScanner) Name() string {
	return "newsapi"
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// Scan issues one request per category endpoint; an empty category list
// falls back to the public endpoint. A non-success status stops the scan and
// is returned alongside the articles collected so far.
func (n *NewsAPIScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	categories := req.Categories
	if len(categories) == 0 {
		categories = []scanner.Category{{Name: "everything", URL: newsAPIEndpoint}}
	}

	var results []domain.Article
	seen := map[string]struct{}{}
	for _, cat := range categories {
		pageURL, err := n.buildURL(cat.URL, req)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", cat.Name, err)
		}

		payload, err := n.fetch(ctx, pageURL, req.SiteName)
		var upstream *scanner.UpstreamStatusError
		if errors.As(err, &upstream) {
			// keep what earlier categories already produced
			return results, fmt.Errorf("category %s: %w", cat.Name, err)
		}
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", cat.Name, err)
		}

		for _, item := range payload.Articles {
			if item.URL != "" {
				if _, ok := seen[item.URL]; ok {
					continue
				}
				seen[item.URL] = struct{}{}
			}
			results = append(results, toArticle(item, req.SiteName))
		}
	}
	return results, nil
}

func (n *NewsAPIScanner) buildURL(endpoint string, req scanner.Request) (string, error) {
	if endpoint == "" {
		endpoint = newsAPIEndpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %s: %w", endpoint, err)
	}

	day := domain.DateKey(req.Day)
	query := parsed.Query()
	query.Set("q", req.Option("query", DefaultNewsQuery))
	query.Set("sources", req.Option("sources", DefaultNewsSources))
	query.Set("from", day)
	query.Set("to", day)
	query.Set("sortBy", "publishedAt")
	query.Set("pageSize", strconv.Itoa(newsAPIPageSize))
	if key := req.Option("apiKey", n.apiKey); key != "" {
		query.Set("apiKey", key)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (n *NewsAPIScanner) fetch(ctx context.Context, pageURL, site string) (newsAPIResponse, error) {
	var payload newsAPIResponse

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return payload, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "CropInsights/1.0")

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return payload, fmt.Errorf("request articles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return payload, &scanner.UpstreamStatusError{
			Site:       site,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return payload, fmt.Errorf("decode articles: %w", err)
	}
	return payload, nil
}

func toArticle(item newsAPIArticle, siteName string) domain.Article {
	body := item.Content
	if strings.TrimSpace(body) == "" {
		body = item.Description
	}

	source := item.Source.Name
	if source == "" {
		source = siteName
	}

	var publishedAt time.Time
	if parsed, err := time.Parse(time.RFC3339, item.PublishedAt); err == nil {
		publishedAt = parsed.UTC()
	}

	return domain.Article{
		Title:       strings.TrimSpace(item.Title),
		URL:         item.URL,
		Body:        truncatedExpr.ReplaceAllString(stripHTML(body), ""),
		Source:      source,
		PublishedAt: publishedAt,
	}
}

// stripHTML reduces provider snippets to plain text.
func stripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
