package domain

import "time"

// NoData is shown in place of a mood or label when nothing has been recorded.
const NoData = "—"

// Mood is a profile-level mood label.
type Mood string

// Profile mood labels.
const (
	MoodGreat   Mood = "Great"
	MoodGood    Mood = "Good"
	MoodAverage Mood = "Average"
	MoodLow     Mood = "Low"
	MoodBad     Mood = "Bad"
)

// Moods lists every label in enumeration order. Tie-breaks follow this order.
var Moods = []Mood{MoodGreat, MoodGood, MoodAverage, MoodLow, MoodBad}

var moodScores = map[Mood]int{
	MoodGreat:   5,
	MoodGood:    4,
	MoodAverage: 3,
	MoodLow:     2,
	MoodBad:     1,
}

// ParseMood returns the Mood for s. Matching is exact.
func ParseMood(s string) (Mood, bool) {
	m := Mood(s)
	_, ok := moodScores[m]
	return m, ok
}

// Score maps the label to 1 (Bad) through 5 (Great).
func (m Mood) Score() (int, bool) {
	s, ok := moodScores[m]
	return s, ok
}

// LabelFromScore buckets an average score back into a label.
func LabelFromScore(avg float64) Mood {
	switch {
	case avg >= 4.5:
		return MoodGreat
	case avg >= 3.5:
		return MoodGood
	case avg >= 2.5:
		return MoodAverage
	case avg >= 1.5:
		return MoodLow
	default:
		return MoodBad
	}
}

// MoodEntry is one profile-level mood log entry. Entries are append-only.
type MoodEntry struct {
	Value Mood      `json:"value"`
	At    time.Time `json:"at"`
}

// BookMoodEntry is one entry of a book's mood history. The label is free text.
type BookMoodEntry struct {
	Mood string    `json:"mood"`
	Note string    `json:"note,omitempty"`
	At   time.Time `json:"at"`
}
