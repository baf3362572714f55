package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"CropInsights/internal/domain"
)

func writeManual(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "articles.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestReadManualFileGroupsByDate(t *testing.T) {
	t.Parallel()

	path := writeManual(t, `{"articles": [
	  {"date": "2024-01-20", "title": "Late", "url": "https://e/1", "content": "x"},
	  {"date": "2024-01-05", "title": "Early", "url": "https://e/2", "description": "<b>fallback</b>"},
	  {"title": "No date"},
	  {"date": "2024-01-05", "title": "Early two", "source": "Dawn"}
	]}`)

	batches, err := ReadManualFile(path)
	if err != nil {
		t.Fatalf("ReadManualFile: %v", err)
	}
	if len(batches) != 2 || batches[0].Date != "2024-01-05" || batches[1].Date != "2024-01-20" {
		t.Fatalf("unexpected batches: %+v", batches)
	}
	if len(batches[0].Articles) != 2 {
		t.Fatalf("expected 2 articles on 2024-01-05, got %d", len(batches[0].Articles))
	}
	if batches[0].Articles[0].Body != "fallback" || batches[0].Articles[0].Source != "manual" {
		t.Fatalf("unexpected article: %+v", batches[0].Articles[0])
	}
	if batches[0].Articles[1].Source != "Dawn" {
		t.Fatalf("source not kept: %+v", batches[0].Articles[1])
	}
}

func TestReadManualFileRejectsBadDates(t *testing.T) {
	t.Parallel()

	path := writeManual(t, `{"articles": [{"date": "05/01/2024", "title": "x"}]}`)
	if _, err := ReadManualFile(path); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestReadManualFileEmpty(t *testing.T) {
	t.Parallel()

	batches, err := ReadManualFile(writeManual(t, `{"articles": []}`))
	if err != nil || len(batches) != 0 {
		t.Fatalf("expected no batches, got %v %v", batches, err)
	}
}
