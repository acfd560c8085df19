package domain

// Stats is the profile summary shown next to a user's shelf.
type Stats struct {
	BooksThisYear int    `json:"books_this_year"`
	MoodTracker   string `json:"mood_tracker"`
	CurrentMood   string `json:"current_mood"`
}

// MoodSummary is the weighted mood over a trailing window.
// Score is nil when no entries fall inside the window.
type MoodSummary struct {
	Score *float64 `json:"score"`
	Label string   `json:"label"`
	Count int      `json:"count"`
}

// EmptyStats is returned for a missing user.
func EmptyStats() Stats {
	return Stats{BooksThisYear: 0, MoodTracker: NoData, CurrentMood: NoData}
}

// EmptyMoodSummary is returned when there is nothing to average.
func EmptyMoodSummary() MoodSummary {
	return MoodSummary{Score: nil, Label: NoData, Count: 0}
}
