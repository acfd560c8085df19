// Package search keeps a full-text index of posts using Bleve.
package search

import (
	"github.com/chapteredapp/chaptered-server/internal/domain"
)

// PostDocument is the indexed form of a post. Posts are embedded in users, so
// the author's username is denormalized onto every document.
type PostDocument struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	BookID    string `json:"book_id,omitempty"`
	BookTitle string `json:"book_title,omitempty"`
	Content   string `json:"content,omitempty"`
	Location  string `json:"location,omitempty"`
	CreatedAt int64  `json:"created_at"` // Unix milliseconds, for recency sorting
}

// NewPostDocument builds the document for a post written by username.
func NewPostDocument(username string, p *domain.Post) *PostDocument {
	return &PostDocument{
		ID:        p.ID,
		Username:  domain.NormalizeUsername(username),
		BookID:    p.BookID,
		BookTitle: p.BookTitle,
		Content:   p.Content,
		Location:  p.Location,
		CreatedAt: p.CreatedAt.UnixMilli(),
	}
}

// ToMap converts the document to the field map handed to Bleve.
func (d *PostDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"username":   d.Username,
		"created_at": float64(d.CreatedAt),
	}
	if d.BookID != "" {
		m["book_id"] = d.BookID
	}
	if d.BookTitle != "" {
		m["book_title"] = d.BookTitle
	}
	if d.Content != "" {
		m["content"] = d.Content
	}
	if d.Location != "" {
		m["location"] = d.Location
	}
	return m
}
