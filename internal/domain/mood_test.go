package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMood(t *testing.T) {
	for _, m := range Moods {
		got, ok := ParseMood(string(m))
		assert.True(t, ok, m)
		assert.Equal(t, m, got)
	}

	for _, bad := range []string{"", "great", "GREAT", "Euphoric", " Good"} {
		_, ok := ParseMood(bad)
		assert.False(t, ok, bad)
	}
}

func TestMood_Score(t *testing.T) {
	want := []int{5, 4, 3, 2, 1}
	for i, m := range Moods {
		s, ok := m.Score()
		assert.True(t, ok)
		assert.Equal(t, want[i], s, m)
	}

	_, ok := Mood("happy").Score()
	assert.False(t, ok)
}

func TestLabelFromScore(t *testing.T) {
	tests := []struct {
		avg  float64
		want Mood
	}{
		{5, MoodGreat},
		{4.5, MoodGreat},
		{4.499, MoodGood},
		{3.5, MoodGood},
		{3.49, MoodAverage},
		{2.5, MoodAverage},
		{2.4999, MoodLow},
		{1.5, MoodLow},
		{1.49, MoodBad},
		{1, MoodBad},
		{0, MoodBad},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelFromScore(tt.avg), "avg %v", tt.avg)
	}
}

func TestProgress_Valid(t *testing.T) {
	for _, p := range []Progress{ProgressReading, ProgressRead, ProgressWant, ProgressNone} {
		assert.True(t, p.Valid(), p)
	}
	for _, p := range []Progress{"", "fav", "favourite", "READ"} {
		assert.False(t, p.Valid(), p)
	}
}
