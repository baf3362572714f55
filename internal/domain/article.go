package domain

import "time"

// Article is a candidate news item fetched from a provider for a single day.
type Article struct {
	Title       string
	URL         string
	Body        string
	Source      string
	PublishedAt time.Time
}

// HasTitle reports whether the article can be classified at all.
func (a Article) HasTitle() bool {
	return a.Title != ""
}

// ArticleBatch is a group of articles supplied for one date key.
type ArticleBatch struct {
	Date     string
	Articles []Article
}
