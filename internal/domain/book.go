package domain

import "time"

// Progress is the reading state of a book on a user's shelf.
type Progress string

// Reading states.
const (
	ProgressReading Progress = "reading"
	ProgressRead    Progress = "read"
	ProgressWant    Progress = "want"
	ProgressNone    Progress = "none"
)

// Valid reports whether p is one of the four reading states.
func (p Progress) Valid() bool {
	switch p {
	case ProgressReading, ProgressRead, ProgressWant, ProgressNone:
		return true
	}
	return false
}

// Book is a catalog volume on a user's shelf. ID is the external catalog
// identifier (a Google Books volume ID) and is unique within one user.
type Book struct {
	ID                string          `json:"id"`
	Title             string          `json:"title,omitempty"`
	Author            string          `json:"author,omitempty"`
	Thumbnail         string          `json:"thumbnail,omitempty"`
	ThumbnailBlurHash string          `json:"thumbnail_blurhash,omitempty"`
	Progress          Progress        `json:"progress"`
	Favourite         bool            `json:"favourite"`
	Rating            *float64        `json:"rating,omitempty"`
	FinishedAt        *time.Time      `json:"finished_at,omitempty"` // set once progress becomes read
	Mood              string          `json:"mood,omitempty"`
	MoodHistory       []BookMoodEntry `json:"mood_history,omitempty"`
}

// LastMoodAt returns when the latest mood was recorded, or nil.
func (b *Book) LastMoodAt() *time.Time {
	if len(b.MoodHistory) == 0 {
		return nil
	}
	at := b.MoodHistory[len(b.MoodHistory)-1].At
	return &at
}

// BookPatch is an incoming save. Nil fields are absent and leave the stored
// value untouched. A non-nil MoodHistory replaces the stored history.
type BookPatch struct {
	ID                string
	Title             *string
	Author            *string
	Thumbnail         *string
	ThumbnailBlurHash *string
	Progress          *Progress
	Favourite         *bool
	Rating            *float64
	Mood              *string
	MoodHistory       []BookMoodEntry
}
