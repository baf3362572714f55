package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"CropInsights/internal/domain"
	"CropInsights/internal/ports"
)

// ManualFileLoader reads exported article files for offline ingestion.
type ManualFileLoader struct{}

var _ ports.BatchLoader = ManualFileLoader{}

// LoadBatches implements ports.BatchLoader.
func (ManualFileLoader) LoadBatches(path string) ([]domain.ArticleBatch, error) {
	return ReadManualFile(path)
}

type manualFile struct {
	Articles []manualArticle `json:"articles"`
}

type manualArticle struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// ReadManualFile loads {"articles":[...]} and groups entries by their date
// key in ascending order. Entries without a date are dropped.
func ReadManualFile(path string) ([]domain.ArticleBatch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manual file: %w", err)
	}

	var doc manualFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode manual file: %w", err)
	}

	grouped := map[string][]domain.Article{}
	for _, item := range doc.Articles {
		date := strings.TrimSpace(item.Date)
		if date == "" {
			continue
		}
		if _, err := domain.ParseDate(date); err != nil {
			return nil, fmt.Errorf("article %q: %w", item.Title, err)
		}

		body := item.Content
		if strings.TrimSpace(body) == "" {
			body = item.Description
		}
		source := item.Source
		if source == "" {
			source = "manual"
		}
		grouped[date] = append(grouped[date], domain.Article{
			Title:  strings.TrimSpace(item.Title),
			URL:    item.URL,
			Body:   stripHTML(body),
			Source: source,
		})
	}

	dates := make([]string, 0, len(grouped))
	for date := range grouped {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	batches := make([]domain.ArticleBatch, 0, len(dates))
	for _, date := range dates {
		batches = append(batches, domain.ArticleBatch{Date: date, Articles: grouped[date]})
	}
	return batches, nil
}
