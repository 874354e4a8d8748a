package domain

import (
	"strings"
	"time"
)

// MoodEntry is one analyzed check-in. MoodScore runs from 1 to 10.
type MoodEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	MoodText     string    `json:"mood_text"`
	DetectedMood string    `json:"detected_mood"`
	MoodScore    int       `json:"mood_score"`
	Emotions     []string  `json:"emotions"`
	Suggestions  []string  `json:"suggestions"`
	CreatedAt    time.Time `json:"created_at"`
}

// JournalEntry is a reflection with the model's reading of it.
// PositivityIndex runs from 0 to 10 and is nil until analyzed.
type JournalEntry struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Content         string    `json:"content"`
	AIAnalysis      string    `json:"ai_analysis,omitempty"`
	Themes          []string  `json:"themes"`
	Patterns        []string  `json:"patterns"`
	Improvements    []string  `json:"improvements"`
	PositivityIndex *int      `json:"positivity_index,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Habit is a recurring action tracked by daily completion.
type Habit struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Name            string     `json:"habit_name"`
	CoachType       CoachType  `json:"coach_type,omitempty"`
	IsActive        bool       `json:"is_active"`
	ReminderTime    string     `json:"reminder_time,omitempty"`
	StreakCount     int        `json:"streak_count"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CompletedOn reports whether the habit was last completed on day's calendar date.
func (h *Habit) CompletedOn(day time.Time) bool {
	return h.LastCompletedAt != nil && DateOf(*h.LastCompletedAt).Equal(DateOf(day))
}

// Complete marks the habit done at now. A completion the day after the last
// one extends the streak, a later one restarts it at 1, and a second
// completion on the same day changes nothing. It reports whether anything changed.
func (h *Habit) Complete(now time.Time) bool {
	if h.CompletedOn(now) {
		return false
	}
	if h.LastCompletedAt != nil && DateOf(*h.LastCompletedAt).Equal(DateOf(now).AddDate(0, 0, -1)) {
		h.StreakCount++
	} else {
		h.StreakCount = 1
	}
	h.LastCompletedAt = &now
	return true
}

// Undo clears today's completion. The streak steps back by one and, while
// it is still running, the last completion moves to yesterday.
func (h *Habit) Undo(now time.Time) bool {
	if !h.CompletedOn(now) {
		return false
	}
	if h.StreakCount > 0 {
		h.StreakCount--
	}
	if h.StreakCount == 0 {
		h.LastCompletedAt = nil
		return true
	}
	yesterday := DateOf(now).AddDate(0, 0, -1)
	h.LastCompletedAt = &yesterday
	return true
}

// ValidReminderTime accepts HH:MM on a 24h clock, or empty.
func ValidReminderTime(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse("15:04", strings.TrimSpace(s))
	return err == nil
}

var ErrHabitNotFound = NewError(ErrCodeNotFound, "habit not found")
