package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chapteredapp/chaptered-server/internal/domain"
	domainerrors "github.com/chapteredapp/chaptered-server/internal/errors"
	"github.com/chapteredapp/chaptered-server/internal/reading"
	"github.com/chapteredapp/chaptered-server/internal/store"
)

// PlaceholderGenerator computes a BlurHash for a thumbnail URL.
// *images.Placeholders implements it.
type PlaceholderGenerator interface {
	BlurHash(ctx context.Context, thumbnailURL string) (string, error)
}

// BookMood is the result of recording a mood on a book.
type BookMood struct {
	ID         string     `json:"id"`
	Mood       string     `json:"mood"`
	LastMoodAt *time.Time `json:"last_mood_at"`
}

// LibraryService manages the books on a user's shelf.
type LibraryService struct {
	store        store.Store
	catalog      CatalogClient        // optional
	placeholders PlaceholderGenerator // optional
	now          Clock
	logger       *slog.Logger
}

// NewLibraryService creates a library service. catalog and placeholders may be nil.
func NewLibraryService(s store.Store, catalog CatalogClient, placeholders PlaceholderGenerator, now Clock, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:        s,
		catalog:      catalog,
		placeholders: placeholders,
		now:          now,
		logger:       logger,
	}
}

// SaveBook inserts or merges patch into the user's shelf and returns the
// stored book.
func (s *LibraryService) SaveBook(ctx context.Context, userID string, patch domain.BookPatch) (*domain.Book, error) {
	if patch.Progress != nil && !patch.Progress.Valid() {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"progress": "must be one of: reading read want none",
		})
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}

	// Network work happens before the update so the transaction stays short.
	existing := user.FindBook(patch.ID)
	s.fillFromCatalog(ctx, &patch, existing)
	s.fillPlaceholder(ctx, &patch, existing)

	var saved domain.Book
	_, err = s.store.UpdateUser(ctx, userID, func(u *domain.User) error {
		now := s.now()
		u.Books, saved = reading.SaveBook(u.Books, patch, now)
		u.Touch(now)
		return nil
	})
	if err != nil {
		return nil, userLookupError(err)
	}

	s.logger.Debug("book saved", "user_id", userID, "book_id", saved.ID, "progress", saved.Progress)
	return &saved, nil
}

// RemoveBook drops a book from the shelf. Removing an unknown book succeeds.
func (s *LibraryService) RemoveBook(ctx context.Context, userID, bookID string) error {
	_, err := s.store.UpdateUser(ctx, userID, func(u *domain.User) error {
		u.Books = reading.RemoveBook(u.Books, bookID)
		u.Touch(s.now())
		return nil
	})
	if err != nil {
		return userLookupError(err)
	}
	return nil
}

// ListBooks returns the shelf of username.
func (s *LibraryService) ListBooks(ctx context.Context, username string) ([]domain.Book, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, userLookupError(err)
	}
	if user.Books == nil {
		return []domain.Book{}, nil
	}
	return user.Books, nil
}

// SetBookMood records a mood, with an optional note, on one of the user's books.
func (s *LibraryService) SetBookMood(ctx context.Context, userID, bookID, mood, note string) (*BookMood, error) {
	var result BookMood
	_, err := s.store.UpdateUser(ctx, userID, func(u *domain.User) error {
		book := u.FindBook(bookID)
		if book == nil {
			return domainerrors.NotFound("book not found for user")
		}
		now := s.now()
		reading.SetBookMood(book, mood, note, now)
		u.Touch(now)
		result = BookMood{ID: book.ID, Mood: book.Mood, LastMoodAt: book.LastMoodAt()}
		return nil
	})
	if err != nil {
		return nil, userLookupError(err)
	}
	return &result, nil
}

// fillFromCatalog completes a new book's title, author and thumbnail from the
// catalog. Lookup failures are logged and the save goes ahead.
func (s *LibraryService) fillFromCatalog(ctx context.Context, patch *domain.BookPatch, existing *domain.Book) {
	if s.catalog == nil || existing != nil || patch.ID == "" {
		return
	}
	if patch.Title != nil && patch.Author != nil && patch.Thumbnail != nil {
		return
	}

	volume, err := s.catalog.Volume(ctx, patch.ID)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("catalog lookup failed, saving book as sent", "book_id", patch.ID, "error", err)
		}
		return
	}

	if patch.Title == nil && volume.Title != "" {
		patch.Title = &volume.Title
	}
	if author := volume.Author(); patch.Author == nil && author != "" {
		patch.Author = &author
	}
	if patch.Thumbnail == nil && volume.Thumbnail != "" {
		patch.Thumbnail = &volume.Thumbnail
	}
}

// fillPlaceholder computes a BlurHash when the thumbnail changes and the
// client did not send one. A stale hash is cleared if computing fails.
func (s *LibraryService) fillPlaceholder(ctx context.Context, patch *domain.BookPatch, existing *domain.Book) {
	if s.placeholders == nil || patch.Thumbnail == nil || patch.ThumbnailBlurHash != nil {
		return
	}
	if existing != nil && existing.Thumbnail == *patch.Thumbnail && existing.ThumbnailBlurHash != "" {
		return
	}

	hash := ""
	if *patch.Thumbnail != "" {
		var err error
		hash, err = s.placeholders.BlurHash(ctx, *patch.Thumbnail)
		if err != nil {
			s.logger.Debug("thumbnail placeholder failed", "book_id", patch.ID, "error", err)
		}
	}
	patch.ThumbnailBlurHash = &hash
}
