package interpret

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustDate builds the fixed reference "today": 2024-01-15 is a Monday.
func refMonday(t *testing.T) time.Time {
	t.Helper()
	day, err := time.Parse("2006-01-02", "2024-01-15")
	require.NoError(t, err)
	require.Equal(t, time.Monday, day.Weekday())
	return day
}

func TestDate(t *testing.T) {
	today := refMonday(t)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"literal today", "can I come in today?", "2024-01-15"},
		{"tomorrow", "tomorrow afternoon would be great", "2024-01-16"},
		{"weekday ahead", "how about wednesday", "2024-01-17"},
		{"weekday same day", "monday works for me", "2024-01-15"},
		{"next on same weekday", "next monday please", "2024-01-22"},
		{"next on different weekday stays in week", "next wednesday", "2024-01-17"},
		{"sunday wraps the week", "sunday morning", "2024-01-21"},
		{"explicit iso date", "book me for 2024-02-01 please", "2024-02-01"},
		{"iso date mid-sentence", "is 2024-03-15 free?", "2024-03-15"},
		{"case insensitive", "NEXT MONDAY", "2024-01-22"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.text, today)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDatePriorityTodayOverWeekday(t *testing.T) {
	// "today" beats a weekday mention in the same message.
	got, ok := Date("today or friday", refMonday(t))
	require.True(t, ok)
	assert.Equal(t, "2024-01-15", got)
}

func TestDateNoMatch(t *testing.T) {
	for _, text := range []string{
		"I have headaches",
		"sometime soon",
		"15/01/2024",
		"",
	} {
		_, ok := Date(text, refMonday(t))
		assert.False(t, ok, "expected no date in %q", text)
	}
}

func TestAppointmentType(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"a consultation please", "consultation"},
		{"I'd like to consult a doctor", "consultation"},
		{"just a follow-up", "followup"},
		{"annual physical", "physical"},
		{"I need a specialist visit", "specialist"},
		{"SPECIALIST", "specialist"},
	}
	for _, tt := range tests {
		got, ok := AppointmentType(tt.text)
		require.True(t, ok, "expected a type in %q", tt.text)
		assert.Equal(t, tt.want, got)
	}
}

func TestAppointmentTypeNoMatch(t *testing.T) {
	_, ok := AppointmentType("something completely different")
	assert.False(t, ok)
}
