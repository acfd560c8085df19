package reading

import (
	"math"
	"time"

	"github.com/chapteredapp/chaptered-server/internal/domain"
)

// DefaultWindowDays is the trailing window used by the mood tracker and,
// unless configured otherwise, by AverageMood.
const DefaultWindowDays = 30

const day = 24 * time.Hour

// YearBounds returns Jan 1 00:00:00.000 and Dec 31 23:59:59.999 of now's
// year, in now's location.
func YearBounds(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	end = time.Date(now.Year(), time.December, 31, 23, 59, 59, int(999*time.Millisecond), now.Location())
	return start, end
}

// ComputeStats derives the profile summary for user at now.
// A nil user yields zero books and NoData for both mood fields.
func ComputeStats(user *domain.User, now time.Time) domain.Stats {
	if user == nil {
		return domain.EmptyStats()
	}

	start, end := YearBounds(now)
	booksThisYear := 0
	for _, b := range user.Books {
		if b.Progress != domain.ProgressRead || b.FinishedAt == nil {
			continue
		}
		if b.FinishedAt.Before(start) || b.FinishedAt.After(end) {
			continue
		}
		booksThisYear++
	}

	currentMood := domain.NoData
	if m, ok := user.CurrentMood(); ok {
		currentMood = string(m)
	}

	return domain.Stats{
		BooksThisYear: booksThisYear,
		MoodTracker:   moodTracker(user.Moods, now, currentMood),
		CurrentMood:   currentMood,
	}
}

// moodTracker returns "<label> (30d)" for the most frequent mood in the
// trailing 30 days, with ties going to the earlier label in domain.Moods.
// With no entries in the window it falls back to currentMood.
func moodTracker(moods []domain.MoodEntry, now time.Time, currentMood string) string {
	cutoff := now.Add(-DefaultWindowDays * day)

	counts := make(map[domain.Mood]int, len(domain.Moods))
	for _, m := range moods {
		if m.At.Before(cutoff) {
			continue
		}
		counts[m.Value]++
	}

	var top domain.Mood
	topCount := 0
	for _, m := range domain.Moods {
		if counts[m] > topCount {
			top, topCount = m, counts[m]
		}
	}
	if topCount == 0 {
		return currentMood
	}
	return string(top) + " (30d)"
}

// AverageMood averages the scores of every book mood and profile mood
// recorded at or after now - windowDays. Labels that are not profile moods
// are skipped. The score is rounded to two decimals; the label is taken
// from the unrounded mean. windowDays <= 0 means DefaultWindowDays.
func AverageMood(user *domain.User, windowDays int, now time.Time) domain.MoodSummary {
	if user == nil {
		return domain.EmptyMoodSummary()
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	since := now.Add(-time.Duration(windowDays) * day)

	sum, count := 0, 0
	add := func(label string, at time.Time) {
		if at.IsZero() || at.Before(since) {
			return
		}
		if s, ok := domain.Mood(label).Score(); ok {
			sum += s
			count++
		}
	}

	for _, b := range user.Books {
		for _, e := range b.MoodHistory {
			add(e.Mood, e.At)
		}
	}
	for _, m := range user.Moods {
		add(string(m.Value), m.At)
	}

	if count == 0 {
		return domain.EmptyMoodSummary()
	}

	mean := float64(sum) / float64(count)
	score := math.Round(mean*100) / 100
	return domain.MoodSummary{
		Score: &score,
		Label: string(domain.LabelFromScore(mean)),
		Count: count,
	}
}
