// Package reading implements the shelf upsert rules and the statistics
// derived from a user's books and moods. Every function takes the current
// time explicitly and performs no I/O.
package reading

import (
	"slices"
	"time"

	"github.com/chapteredapp/chaptered-server/internal/domain"
	"github.com/chapteredapp/chaptered-server/internal/errors"
)

// SaveBook inserts or merges in into books, keyed by ID.
//
// On insert, absent progress defaults to want and absent favourite to false;
// a book saved as read gets FinishedAt = now. On merge every present field
// overwrites the stored one (MoodHistory is replaced, not merged), and
// FinishedAt is set to now when the book is now read and either was not read
// before or has no FinishedAt yet. It returns the updated slice and a copy of
// the resulting book.
func SaveBook(books []domain.Book, in domain.BookPatch, now time.Time) ([]domain.Book, domain.Book) {
	if in.ID != "" {
		for i := range books {
			if books[i].ID != in.ID {
				continue
			}
			existing := &books[i]
			previous := existing.Progress
			applyPatch(existing, in)
			if existing.Progress == domain.ProgressRead && (existing.FinishedAt == nil || previous != domain.ProgressRead) {
				existing.FinishedAt = timePtr(now)
			}
			return books, *existing
		}
	}

	book := domain.Book{
		ID:       in.ID,
		Progress: domain.ProgressWant,
	}
	applyPatch(&book, in)
	if book.Progress == domain.ProgressRead {
		book.FinishedAt = timePtr(now)
	}
	books = append(books, book)
	return books, book
}

// applyPatch is a shallow merge: present fields overwrite, absent ones are kept.
func applyPatch(b *domain.Book, in domain.BookPatch) {
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Author != nil {
		b.Author = *in.Author
	}
	if in.Thumbnail != nil {
		b.Thumbnail = *in.Thumbnail
	}
	if in.ThumbnailBlurHash != nil {
		b.ThumbnailBlurHash = *in.ThumbnailBlurHash
	}
	if in.Progress != nil {
		b.Progress = *in.Progress
	}
	if in.Favourite != nil {
		b.Favourite = *in.Favourite
	}
	if in.Rating != nil {
		r := *in.Rating
		b.Rating = &r
	}
	if in.Mood != nil {
		b.Mood = *in.Mood
	}
	if in.MoodHistory != nil {
		b.MoodHistory = slices.Clone(in.MoodHistory)
	}
}

// RemoveBook drops every book with the given ID. Unknown IDs are a no-op.
func RemoveBook(books []domain.Book, id string) []domain.Book {
	return slices.DeleteFunc(books, func(b domain.Book) bool {
		return b.ID == id
	})
}

// SetBookMood records mood as the book's current mood and appends it to the
// history, even when it repeats the previous label or is empty.
func SetBookMood(book *domain.Book, mood, note string, now time.Time) {
	book.Mood = mood
	book.MoodHistory = append(book.MoodHistory, domain.BookMoodEntry{
		Mood: mood,
		Note: note,
		At:   now,
	})
}

// AddProfileMood appends a profile mood entry. Labels outside the five
// profile moods are rejected with a validation error and leave the log untouched.
func AddProfileMood(user *domain.User, value string, now time.Time) error {
	mood, ok := domain.ParseMood(value)
	if !ok {
		return errors.Validationf("invalid mood %q", value).
			WithDetails(map[string]string{"mood": "must be one of: Great Good Average Low Bad"})
	}
	user.Moods = append(user.Moods, domain.MoodEntry{Value: mood, At: now})
	return nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
