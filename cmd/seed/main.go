// Package main seeds a data directory with demo readers, shelves, moods and posts.
//
// Usage:
//
//	go run ./cmd/seed -data-path ~/.chaptered
//	go run ./cmd/seed -data-path ~/.chaptered -store sqlite -readers 8
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/chapteredapp/chaptered-server/internal/auth"
	"github.com/chapteredapp/chaptered-server/internal/config"
	"github.com/chapteredapp/chaptered-server/internal/domain"
	domainerrors "github.com/chapteredapp/chaptered-server/internal/errors"
	"github.com/chapteredapp/chaptered-server/internal/logger"
	"github.com/chapteredapp/chaptered-server/internal/search"
	"github.com/chapteredapp/chaptered-server/internal/service"
	"github.com/chapteredapp/chaptered-server/internal/store"
	"github.com/chapteredapp/chaptered-server/internal/store/sqlite"
	"github.com/chapteredapp/chaptered-server/internal/validation"
)

const seedPassword = "chaptered-demo"

type seedBook struct {
	title, author string
}

var catalog = []seedBook{
	{"The Left Hand of Darkness", "Ursula K. Le Guin"},
	{"Piranesi", "Susanna Clarke"},
	{"Middlemarch", "George Eliot"},
	{"Beloved", "Toni Morrison"},
	{"The Remains of the Day", "Kazuo Ishiguro"},
	{"Project Hail Mary", "Andy Weir"},
	{"Station Eleven", "Emily St. John Mandel"},
	{"A Wizard of Earthsea", "Ursula K. Le Guin"},
	{"The Name of the Rose", "Umberto Eco"},
	{"Pachinko", "Min Jin Lee"},
}

var postLines = []string{
	"Couldn't put it down last night.",
	"Slow start but the middle third is wonderful.",
	"Reading this on the train every morning.",
	"That ending. I need a minute.",
	"Halfway through and already recommending it to everyone.",
}

func main() {
	dataPath := flag.String("data-path", "", "Data directory (default: ~/.chaptered)")
	driver := flag.String("store", config.StoreDriverBadger, "Store driver (badger, sqlite)")
	readers := flag.Int("readers", 5, "Number of demo readers to create")
	flag.Parse()

	log := logger.New(logger.Config{Level: logger.ParseLevel("info")})

	base := *dataPath
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal("Failed to resolve home directory", "error", err)
		}
		base = filepath.Join(home, ".chaptered")
	}
	if err := os.MkdirAll(base, 0o750); err != nil {
		log.Fatal("Failed to create data directory", "error", err)
	}

	var (
		s   store.Store
		err error
	)
	switch *driver {
	case config.StoreDriverSQLite:
		s, err = sqlite.Open(filepath.Join(base, "chaptered.db"), log.Logger)
	default:
		s, err = store.Open(filepath.Join(base, "db"), log.Logger)
	}
	if err != nil {
		log.Fatal("Failed to open store", "error", err)
	}
	defer s.Close()

	index, err := search.NewPostIndex(search.Options{DataPath: base, Logger: log.Logger})
	if err != nil {
		log.Fatal("Failed to open search index", "error", err)
	}
	defer index.Close()

	key, err := auth.LoadOrGenerateKey(base)
	if err != nil {
		log.Fatal("Failed to load auth key", "error", err)
	}
	tokens, err := auth.NewTokenService(key, 15*time.Minute, 24*time.Hour)
	if err != nil {
		log.Fatal("Failed to create token service", "error", err)
	}

	v := validation.New()
	sessions := service.NewSessionService(s, tokens, time.Now, log.Logger)
	authSvc := service.NewAuthService(s, tokens, sessions, auth.NewHasher(auth.DefaultParams), v, time.Now, log.Logger)
	library := service.NewLibraryService(s, nil, nil, time.Now, log.Logger)
	profiles := service.NewProfileService(s, v, time.Now, log.Logger)
	searchSvc := service.NewSearchService(index, s, log.Logger)
	posts := service.NewPostService(s, searchSvc, v, time.Now, log.Logger)

	ctx := context.Background()
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 42))

	created := 0
	for n := 1; n <= *readers; n++ {
		username := fmt.Sprintf("reader%02d", n)
		resp, err := authSvc.Signup(ctx, service.SignupRequest{
			Username: username,
			Password: seedPassword,
			Name:     fmt.Sprintf("Demo Reader %d", n),
			Bio:      "Seeded account.",
		}, service.ClientInfo{UserAgent: "chaptered-seed"})
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			log.Info("Reader already exists, skipping", "username", username)
			continue
		}
		if err != nil {
			log.Fatal("Failed to create reader", "username", username, "error", err)
		}

		if err := seedReader(ctx, rng, resp.User.ID, library, profiles, posts); err != nil {
			log.Fatal("Failed to seed reader", "username", username, "error", err)
		}
		created++
		log.Info("Seeded reader", "username", username)
	}

	log.Info("Seeding complete", "readers", created, "password", seedPassword)
}

func seedReader(ctx context.Context, rng *rand.Rand, userID string, library *service.LibraryService, profiles *service.ProfileService, posts *service.PostService) error {
	progressStates := []domain.Progress{domain.ProgressReading, domain.ProgressRead, domain.ProgressWant}

	picks := rng.Perm(len(catalog))[:3+rng.IntN(3)]
	var shelved []*domain.Book
	for _, i := range picks {
		b := catalog[i]
		progress := progressStates[rng.IntN(len(progressStates))]
		favourite := rng.IntN(4) == 0
		patch := domain.BookPatch{
			Title:     &b.title,
			Author:    &b.author,
			Progress:  &progress,
			Favourite: &favourite,
		}
		if progress == domain.ProgressRead {
			rating := float64(2+rng.IntN(4)) + 0.5*float64(rng.IntN(2))
			rating = min(rating, 5)
			patch.Rating = &rating
		}

		book, err := library.SaveBook(ctx, userID, patch)
		if err != nil {
			return fmt.Errorf("save book %q: %w", b.title, err)
		}
		shelved = append(shelved, book)
	}

	for range 2 + rng.IntN(4) {
		mood := domain.Moods[rng.IntN(len(domain.Moods))]
		if _, err := profiles.AddMood(ctx, userID, string(mood)); err != nil {
			return fmt.Errorf("add mood: %w", err)
		}
	}

	book := shelved[rng.IntN(len(shelved))]
	if _, err := library.SetBookMood(ctx, userID, book.ID, "absorbed", ""); err != nil {
		return fmt.Errorf("set book mood: %w", err)
	}

	if _, err := posts.AddPost(ctx, userID, service.AddPostRequest{
		BookID:  book.ID,
		Content: postLines[rng.IntN(len(postLines))],
	}); err != nil {
		return fmt.Errorf("add post: %w", err)
	}
	return nil
}
