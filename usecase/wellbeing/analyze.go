package wellbeing

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
)

const (
	maxMoodTextLength    = 2000
	maxJournalTextLength = 10000
	maxListItems         = 5
)

type MoodRequest struct {
	MoodText string `json:"moodText"`
}

// MoodAnalysis is what the mood endpoint returns.
type MoodAnalysis struct {
	EntryID      string   `json:"entryId,omitempty"`
	DetectedMood string   `json:"detectedMood"`
	MoodScore    int      `json:"moodScore"`
	Emotions     []string `json:"emotions"`
	Suggestions  []string `json:"suggestions"`
}

type JournalRequest struct {
	Content string `json:"content"`
}

// JournalAnalysis is what the journal endpoint returns.
type JournalAnalysis struct {
	EntryID         string   `json:"entryId,omitempty"`
	Themes          []string `json:"themes"`
	Patterns        []string `json:"patterns"`
	Improvements    []string `json:"improvements"`
	PositivityIndex int      `json:"positivityIndex"`
	Analysis        string   `json:"analysis"`
}

func validateMood(m MoodAnalysis) error {
	if strings.TrimSpace(m.DetectedMood) == "" {
		return fmt.Errorf("detectedMood is empty")
	}
	if m.MoodScore < 1 || m.MoodScore > 10 {
		return fmt.Errorf("moodScore %d outside 1..10", m.MoodScore)
	}
	return nil
}

func validateJournal(j JournalAnalysis) error {
	if j.PositivityIndex < 0 || j.PositivityIndex > 10 {
		return fmt.Errorf("positivityIndex %d outside 0..10", j.PositivityIndex)
	}
	if strings.TrimSpace(j.Analysis) == "" {
		return fmt.Errorf("analysis is empty")
	}
	return nil
}

// AnalyzeMood reads the mood from free text and stores the check-in. A failed
// write is logged and the analysis is still returned, without an entry id.
func (uc *UseCase) AnalyzeMood(ctx context.Context, userID string, req MoodRequest) (*MoodAnalysis, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(req.MoodText)
	if text == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "moodText is required")
	}
	if len([]rune(text)) > maxMoodTextLength {
		return nil, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("moodText is limited to %d characters", maxMoodTextLength))
	}

	result, err := complete[MoodAnalysis](ctx, uc, llm.TaskMood, moodSystemPrompt, text, validateMood)
	if err != nil {
		return nil, err
	}
	result.DetectedMood = strings.TrimSpace(result.DetectedMood)
	result.Emotions = cleanList(result.Emotions)
	result.Suggestions = cleanList(result.Suggestions)

	entry := &domain.MoodEntry{
		UserID:       userID,
		MoodText:     text,
		DetectedMood: result.DetectedMood,
		MoodScore:    result.MoodScore,
		Emotions:     result.Emotions,
		Suggestions:  result.Suggestions,
	}
	if err := uc.repos.Moods.Create(ctx, entry); err != nil {
		uc.logger.Warn("failed to store mood entry", zap.String("user_id", userID), zap.Error(err))
		return &result, nil
	}
	result.EntryID = entry.ID
	uc.logger.Debug("mood analyzed", zap.String("user_id", userID), zap.Int("score", result.MoodScore))
	return &result, nil
}

// AnalyzeJournal reviews a reflection and stores it with the analysis.
// Like AnalyzeMood, a failed write does not fail the call.
func (uc *UseCase) AnalyzeJournal(ctx context.Context, userID string, req JournalRequest) (*JournalAnalysis, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "content is required")
	}
	if len([]rune(content)) > maxJournalTextLength {
		return nil, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("content is limited to %d characters", maxJournalTextLength))
	}

	result, err := complete[JournalAnalysis](ctx, uc, llm.TaskJournal, journalSystemPrompt, content, validateJournal)
	if err != nil {
		return nil, err
	}
	result.Analysis = strings.TrimSpace(result.Analysis)
	result.Themes = cleanList(result.Themes)
	result.Patterns = cleanList(result.Patterns)
	result.Improvements = cleanList(result.Improvements)

	positivity := result.PositivityIndex
	entry := &domain.JournalEntry{
		UserID:          userID,
		Content:         content,
		AIAnalysis:      result.Analysis,
		Themes:          result.Themes,
		Patterns:        result.Patterns,
		Improvements:    result.Improvements,
		PositivityIndex: &positivity,
	}
	if err := uc.repos.Journal.Create(ctx, entry); err != nil {
		uc.logger.Warn("failed to store journal entry", zap.String("user_id", userID), zap.Error(err))
		return &result, nil
	}
	result.EntryID = entry.ID
	return &result, nil
}

// MoodHistory returns the latest check-ins, newest first. limit defaults to a week.
func (uc *UseCase) MoodHistory(ctx context.Context, userID string, limit int) ([]domain.MoodEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	entries, err := uc.repos.Moods.ListRecent(ctx, userID, historyLimit(limit))
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.MoodEntry{}
	}
	return entries, nil
}

func (uc *UseCase) JournalEntries(ctx context.Context, userID string, limit int) ([]domain.JournalEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	entries, err := uc.repos.Journal.ListRecent(ctx, userID, historyLimit(limit))
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return entries, nil
}

// cleanList trims items, drops blanks and keeps at most maxListItems.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == maxListItems {
			break
		}
	}
	return out
}

const moodSystemPrompt = `You are an empathetic wellbeing assistant. Read how the user describes their day and identify their mood.

Respond with a JSON object:
{
  "detectedMood": "one or two words, e.g. anxious, content, drained",
  "moodScore": 1-10 where 1 is very low and 10 is excellent,
  "emotions": ["up to 5 emotions you notice"],
  "suggestions": ["up to 3 short, practical suggestions for the next few hours"]
}

Be warm and concrete. Do not diagnose. If the text mentions self-harm, the first suggestion must be to contact a local crisis line.`

const journalSystemPrompt = `You are a reflective journaling coach. Analyze the user's journal entry.

Respond with a JSON object:
{
  "themes": ["up to 5 recurring topics"],
  "patterns": ["up to 3 thought or behaviour patterns"],
  "improvements": ["up to 3 gentle, actionable ideas"],
  "positivityIndex": 0-10 where 0 is very negative and 10 is very positive,
  "analysis": "two or three supportive sentences summarizing the entry"
}`
