package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

type moodRepository struct {
	pool *pgxpool.Pool
}

// NewMoodRepository returns a Postgres-backed MoodRepository.
func NewMoodRepository(pool *pgxpool.Pool) repository.MoodRepository {
	return &moodRepository{pool: pool}
}

func (r *moodRepository) Create(ctx context.Context, entry *domain.MoodEntry) error {
	if entry == nil || entry.UserID == "" {
		return domain.ErrInvalidPayload
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO mood_entries (id, user_id, mood_text, detected_mood, mood_score, emotions, suggestions)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at
	`
	return r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.MoodText,
		entry.DetectedMood,
		entry.MoodScore,
		stringList(entry.Emotions),
		stringList(entry.Suggestions),
	).Scan(&entry.CreatedAt)
}

func (r *moodRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.MoodEntry, error) {
	const query = `
	SELECT id, user_id, mood_text, detected_mood, mood_score, emotions, suggestions, created_at
	FROM mood_entries
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.MoodEntry
	for rows.Next() {
		var (
			entry       domain.MoodEntry
			emotions    []byte
			suggestions []byte
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.MoodText,
			&entry.DetectedMood,
			&entry.MoodScore,
			&emotions,
			&suggestions,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if entry.Emotions, err = decodeStrings(emotions, "emotions"); err != nil {
			return nil, err
		}
		if entry.Suggestions, err = decodeStrings(suggestions, "suggestions"); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type journalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository returns a Postgres-backed JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) repository.JournalRepository {
	return &journalRepository{pool: pool}
}

func (r *journalRepository) Create(ctx context.Context, entry *domain.JournalEntry) error {
	if entry == nil || entry.UserID == "" {
		return domain.ErrInvalidPayload
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO journal_entries (id, user_id, content, ai_analysis, themes, patterns, improvements, positivity_index)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at
	`
	return r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Content,
		nullString(entry.AIAnalysis),
		stringList(entry.Themes),
		stringList(entry.Patterns),
		stringList(entry.Improvements),
		entry.PositivityIndex,
	).Scan(&entry.CreatedAt)
}

func (r *journalRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.JournalEntry, error) {
	const query = `
	SELECT id, user_id, content, ai_analysis, themes, patterns, improvements, positivity_index, created_at
	FROM journal_entries
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var entry domain.JournalEntry
		var analysis *string
		var themes, patterns, improvements []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Content,
			&analysis,
			&themes,
			&patterns,
			&improvements,
			&entry.PositivityIndex,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry.AIAnalysis = derefString(analysis)
		if entry.Themes, err = decodeStrings(themes, "themes"); err != nil {
			return nil, err
		}
		if entry.Patterns, err = decodeStrings(patterns, "patterns"); err != nil {
			return nil, err
		}
		if entry.Improvements, err = decodeStrings(improvements, "improvements"); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// stringList stores nil as an empty JSON array.
func stringList(items []string) []byte {
	if items == nil {
		items = []string{}
	}
	return marshalJSON(items)
}

func decodeStrings(raw []byte, column string) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", column, err)
	}
	return out, nil
}
