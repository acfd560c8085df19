package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTime_UnmarshalJSON(t *testing.T) {
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", `"2024-01-15T10:30:00Z"`, want},
		{"rfc3339 nano", `"2024-01-15T10:30:00.123456789Z"`, want.Add(123456789)},
		{"epoch ms number", `1705314600000`, want},
		{"epoch ms string", `"1705314600000"`, want},
		{"epoch ms float", `1705314600000.0`, want},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ft FlexTime
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ft))
			assert.True(t, tt.want.Equal(ft.Time), "got %s", ft.Time)
		})
	}
}

func TestFlexTime_UnmarshalJSON_Invalid(t *testing.T) {
	for _, input := range []string{`"yesterday"`, `true`, `{}`} {
		var ft FlexTime
		assert.Error(t, json.Unmarshal([]byte(input), &ft), input)
	}
}

func TestFlexTime_MarshalJSON(t *testing.T) {
	ft := FlexTime{Time: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
	data, err := json.Marshal(ft)
	require.NoError(t, err)

	assert.Equal(t, `"2024-01-15T10:30:00Z"`, string(data))
}

func TestFlexTime_InStruct(t *testing.T) {
	var entry BookMoodEntryRequest
	require.NoError(t, json.Unmarshal([]byte(`{"mood":"Happy","at":1705314600000}`), &entry))

	assert.Equal(t, "Happy", entry.Mood)
	assert.Equal(t, int64(1705314600000), entry.At.UnixMilli())
}
