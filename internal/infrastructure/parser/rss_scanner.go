package parser

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"CropInsights/internal/domain"
	"CropInsights/internal/scanner"
)

// RSSScanner reads configured feeds and keeps items published on the requested day.
type RSSScanner struct {
	parser *gofeed.Parser
}

// NewRSSScanner builds a gofeed parser on top of client.
func NewRSSScanner(client *http.Client) *RSSScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	fp := gofeed.NewParser()
	fp.Client = client
	fp.UserAgent = "CropInsights/1.0"
	return &RSSScanner{parser: fp}
}

// Name identifies the strategy inside the registry.
func (r *RSSScanner) Name() string {
	return "rss"
}

// Scan parses every category feed. Items without a publish date are skipped
// because they cannot be placed on a day. A feed answering with an error
// status ends the scan with the items gathered before it.
func (r *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	if len(req.Categories) == 0 {
		return nil, fmt.Errorf("no feeds provided for site %s", req.SiteName)
	}

	targetDay := req.Day.UTC().Truncate(24 * time.Hour)
	var results []domain.Article
	seen := map[string]struct{}{}

	for _, cat := range req.Categories {
		feed, err := r.parser.ParseURLWithContext(cat.URL, ctx)
		if err != nil {
			var httpErr gofeed.HTTPError
			if asHTTPError(err, &httpErr) {
				return results, fmt.Errorf("feed %s: %w", cat.Name, &scanner.UpstreamStatusError{
					Site:       req.SiteName,
					StatusCode: httpErr.StatusCode,
					Body:       httpErr.Status,
				})
			}
			return nil, fmt.Errorf("feed %s: %w", cat.Name, err)
		}

		for _, item := range feed.Items {
			published := item.PublishedParsed
			if published == nil {
				published = item.UpdatedParsed
			}
			if published == nil || !published.UTC().Truncate(24*time.Hour).Equal(targetDay) {
				continue
			}
			if _, ok := seen[item.Link]; ok && item.Link != "" {
				continue
			}
			seen[item.Link] = struct{}{}

			body := item.Content
			if strings.TrimSpace(body) == "" {
				body = item.Description
			}

			results = append(results, domain.Article{
				Title:       strings.TrimSpace(item.Title),
				URL:         item.Link,
				Body:        stripHTML(body),
				Source:      feedSource(req.SiteName, cat.Name),
				PublishedAt: published.UTC(),
			})
		}
	}
	return results, nil
}

func asHTTPError(err error, target *gofeed.HTTPError) bool {
	switch e := err.(type) {
	case gofeed.HTTPError:
		*target = e
		return true
	case *gofeed.HTTPError:
		*target = *e
		return true
	}
	return false
}

func feedSource(site, category string) string {
	if category == "" {
		return site
	}
	return fmt.Sprintf("%s/%s", site, category)
}
