package models

import "time"

// AnonymousAlias is shown for entries submitted without an alias.
const AnonymousAlias = "Anonymous"

// Entry is a persisted journal entry with its emotion classification.
type Entry struct {
	ID        string             `json:"id"`
	Alias     string             `json:"user_alias"`
	Text      string             `json:"entry_text"`
	Label     string             `json:"emotion_label"`
	Scores    map[string]float64 `json:"emotion_scores"`
	CreatedAt time.Time          `json:"created_at"`
}

// DisplayAlias returns the alias or AnonymousAlias when it is blank.
func (e Entry) DisplayAlias() string {
	if e.Alias == "" {
		return AnonymousAlias
	}
	return e.Alias
}

// FeedItem is the trimmed-down view of an entry used by the public feed.
type FeedItem struct {
	ID        string    `json:"id"`
	Alias     string    `json:"user_alias"`
	Snippet   string    `json:"snippet"`
	Label     string    `json:"emotion_label"`
	CreatedAt time.Time `json:"created_at"`
}
