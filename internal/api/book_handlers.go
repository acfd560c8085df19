package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/chapteredapp/chaptered-server/internal/domain"
	"github.com/chapteredapp/chaptered-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "saveBook",
		Method:      http.MethodPut,
		Path:        "/api/v1/me/books/{id}",
		Summary:     "Save book",
		Description: "Adds a book to the shelf or merges the given fields into the stored one. " +
			"New books are completed from the catalog when title, author or thumbnail are missing.",
		Tags:     []string{"Books"},
		Security: bearerAuth,
	}, s.handleSaveBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/me/books/{id}",
		Summary:     "Remove book",
		Description: "Removes a book from the shelf. Removing a missing book succeeds.",
		Tags:        []string{"Books"},
		Security:    bearerAuth,
	}, s.handleRemoveBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "setBookMood",
		Method:      http.MethodPost,
		Path:        "/api/v1/me/books/{id}/mood",
		Summary:     "Set book mood",
		Description: "Records how a book made the reader feel, with an optional note",
		Tags:        []string{"Books"},
		Security:    bearerAuth,
	}, s.handleSetBookMood)
}

// BookMoodEntryRequest is one entry of a book's mood history.
type BookMoodEntryRequest struct {
	Mood string   `json:"mood" maxLength:"50" doc:"Mood label"`
	Note string   `json:"note,omitempty" maxLength:"500" doc:"Optional note"`
	At   FlexTime `json:"at" doc:"When the mood was recorded (RFC 3339 or epoch milliseconds)"`
}

// SaveBookRequest carries the fields to store. Omitted fields keep their
// stored value, or take the default on insert.
type SaveBookRequest struct {
	Title       *string                `json:"title,omitempty" maxLength:"300" doc:"Title"`
	Author      *string                `json:"author,omitempty" maxLength:"300" doc:"Author(s)"`
	Thumbnail   *string                `json:"thumbnail,omitempty" maxLength:"2048" doc:"Cover thumbnail URL"`
	Progress    *string                `json:"progress,omitempty" doc:"Reading state: reading, read, want or none"`
	Favourite   *bool                  `json:"favourite,omitempty" doc:"Marked as favourite"`
	Rating      *float64               `json:"rating,omitempty" doc:"Reader's rating"`
	Mood        *string                `json:"mood,omitempty" maxLength:"50" doc:"Current mood label"`
	MoodHistory []BookMoodEntryRequest `json:"mood_history,omitempty" doc:"Replaces the stored mood history"`
}

// SaveBookInput wraps the save request for Huma.
type SaveBookInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Catalog volume ID"`
	Body SaveBookRequest
}

// BookIDInput identifies a book on the caller's shelf.
type BookIDInput struct {
	ID string `path:"id" maxLength:"64" doc:"Catalog volume ID"`
}

// BookOutput wraps a stored book for Huma.
type BookOutput struct {
	Body domain.Book
}

// SetBookMoodRequest is the body of a book mood update.
type SetBookMoodRequest struct {
	Mood string `json:"mood,omitempty" maxLength:"50" doc:"Mood label; empty clears the current mood"`
	Note string `json:"note,omitempty" maxLength:"500" doc:"Optional note"`
}

// SetBookMoodInput wraps the book mood request for Huma.
type SetBookMoodInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Catalog volume ID"`
	Body SetBookMoodRequest
}

// BookMoodOutput wraps the mood result for Huma.
type BookMoodOutput struct {
	Body service.BookMood
}

func (s *Server) handleSaveBook(ctx context.Context, input *SaveBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Library.SaveBook(ctx, userID, toBookPatch(input.ID, input.Body))
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: *book}, nil
}

func (s *Server) handleRemoveBook(ctx context.Context, input *BookIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Library.RemoveBook(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "book removed"}}, nil
}

func (s *Server) handleSetBookMood(ctx context.Context, input *SetBookMoodInput) (*BookMoodOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Library.SetBookMood(ctx, userID, input.ID, input.Body.Mood, input.Body.Note)
	if err != nil {
		return nil, err
	}

	return &BookMoodOutput{Body: *result}, nil
}

func toBookPatch(id string, req SaveBookRequest) domain.BookPatch {
	patch := domain.BookPatch{
		ID:        id,
		Title:     req.Title,
		Author:    req.Author,
		Thumbnail: req.Thumbnail,
		Favourite: req.Favourite,
		Rating:    req.Rating,
		Mood:      req.Mood,
	}
	if req.Progress != nil {
		p := domain.Progress(*req.Progress)
		patch.Progress = &p
	}
	if req.MoodHistory != nil {
		patch.MoodHistory = make([]domain.BookMoodEntry, len(req.MoodHistory))
		for i, e := range req.MoodHistory {
			patch.MoodHistory[i] = domain.BookMoodEntry{Mood: e.Mood, Note: e.Note, At: e.At.Time}
		}
	}
	return patch
}
