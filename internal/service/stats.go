package service

import (
	"context"

	"github.com/chapteredapp/chaptered-server/internal/domain"
	"github.com/chapteredapp/chaptered-server/internal/reading"
	"github.com/chapteredapp/chaptered-server/internal/store"
)

// UserStats is the stats payload: the profile summary plus the mood average
// over a trailing window.
type UserStats struct {
	domain.Stats
	AvgMoodScore      *float64 `json:"avg_mood_score"`
	AvgMoodLabel      string   `json:"avg_mood_label"`
	AvgMoodCount      int      `json:"avg_mood_count"`
	AvgMoodWindowDays int      `json:"avg_mood_window_days"`
}

// StatsService computes reading statistics.
type StatsService struct {
	store         store.Store
	defaultWindow int
	now           Clock
}

// NewStatsService creates a stats service. defaultWindow applies when a
// caller passes no window; values <= 0 fall back to 30 days.
func NewStatsService(s store.Store, defaultWindow int, now Clock) *StatsService {
	if defaultWindow <= 0 {
		defaultWindow = reading.DefaultWindowDays
	}
	return &StatsService{store: s, defaultWindow: defaultWindow, now: now}
}

// UserStats returns the statistics for username over windowDays (<= 0 means
// the default window). A user with nothing recorded gets the no-data sentinels.
func (s *StatsService) UserStats(ctx context.Context, username string, windowDays int) (*UserStats, error) {
	if windowDays <= 0 {
		windowDays = s.defaultWindow
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, userLookupError(err)
	}

	now := s.now()
	avg := reading.AverageMood(user, windowDays, now)
	return &UserStats{
		Stats:             reading.ComputeStats(user, now),
		AvgMoodScore:      avg.Score,
		AvgMoodLabel:      avg.Label,
		AvgMoodCount:      avg.Count,
		AvgMoodWindowDays: windowDays,
	}, nil
}
