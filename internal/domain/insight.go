package domain

import "strings"

// Label is the closed result of relevance classification.
type Label string

const (
	LabelRelevant   Label = "Relevant"
	LabelIrrelevant Label = "Irrelevant"
)

// ParseLabel applies the fallback-to-irrelevant policy: only a response that is
// exactly "relevant" after trimming (any case) counts as Relevant.
func ParseLabel(raw string) Label {
	if strings.EqualFold(strings.TrimSpace(raw), string(LabelRelevant)) {
		return LabelRelevant
	}
	return LabelIrrelevant
}

// Verdict ties a relevance label to the article it was produced for.
type Verdict struct {
	Article Article
	Label   Label
}

// Relevant reports whether the article should go on to insight extraction.
func (v Verdict) Relevant() bool {
	return v.Label == LabelRelevant
}

// Insight is the business-impact paragraph extracted for a relevant article.
// Empty Text means the model saw no signal.
type Insight struct {
	Title string `json:"title"`
	Text  string `json:"insight"`
	URL   string `json:"url"`
}

// RunSummary aggregates everything one pipeline run produced.
type RunSummary struct {
	TotalArticles int
	RelevantCount int
	InsightCount  int
	SummaryPoints []string
	Insights      []Insight
}

// InsightBundle is the persisted per-date artifact.
type InsightBundle struct {
	Date          string    `json:"date"`
	TotalArticles int       `json:"total_articles"`
	RelevantCount int       `json:"relevant_articles_count"`
	InsightCount  int       `json:"insights_count"`
	TLDR          []string  `json:"tldr"`
	Insights      []Insight `json:"insights"`
}

// NewBundle stamps a run summary with its date key.
func NewBundle(date string, summary RunSummary) InsightBundle {
	tldr := summary.SummaryPoints
	if tldr == nil {
		tldr = []string{}
	}
	insights := summary.Insights
	if insights == nil {
		insights = []Insight{}
	}
	return InsightBundle{
		Date:          date,
		TotalArticles: summary.TotalArticles,
		RelevantCount: summary.RelevantCount,
		InsightCount:  summary.InsightCount,
		TLDR:          tldr,
		Insights:      insights,
	}
}

// LastRunMarker records the date of the most recent successful run.
type LastRunMarker struct {
	LastExecution string `json:"last_execution"`
}

// RunStats is what a trigger returns to its caller.
type RunStats struct {
	RunID         string `json:"run_id,omitempty"`
	Date          string `json:"date"`
	TotalArticles int    `json:"total_articles"`
	RelevantCount int    `json:"relevant_articles"`
	InsightCount  int    `json:"insights_count"`
}
