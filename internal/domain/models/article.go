package models

import (
	"time"
)

// Article is the news-aggregation side of the system. The comment engine
// treats it as an external collaborator: it only looks articles up by ID
// to validate existence and to title reply notifications.
type Article struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	URL         string    `json:"url" db:"url"`
	Source      string    `json:"source" db:"source"`
	PublishedAt time.Time `json:"published_at" db:"published_at"`
}
