package domain

import (
	"cmp"
	"slices"
	"time"
)

// Post is a short social update, optionally tied to a book.
type Post struct {
	ID            string    `json:"id"`
	BookID        string    `json:"book_id,omitempty"`
	BookTitle     string    `json:"book_title,omitempty"`
	BookThumbnail string    `json:"book_thumbnail,omitempty"`
	Content       string    `json:"content"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	MusicURL      string    `json:"music_url,omitempty"`
	Location      string    `json:"location,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// FeedPost is a post in the global feed, tagged with its author.
type FeedPost struct {
	Username string `json:"username"`
	Post
}

// SortPostsNewestFirst orders posts by CreatedAt descending. Equal times keep their order.
func SortPostsNewestFirst(posts []Post) {
	slices.SortStableFunc(posts, func(a, b Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// SortFeedNewestFirst orders feed posts by CreatedAt descending, then by username.
func SortFeedNewestFirst(posts []FeedPost) {
	slices.SortStableFunc(posts, func(a, b FeedPost) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})
}
