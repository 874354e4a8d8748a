package postgres

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/coachly/domain"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

func marshalJSON(v interface{}) []byte {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// rawJSON passes stored JSON through, mapping empty to NULL.
func rawJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

func copyJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	out := make(json.RawMessage, len(b))
	copy(out, b)
	return out
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullTimePtr(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// calendarDate pins a scanned DATE to midnight UTC of the day it names.
// pgx may hand the value back in the local zone.
func calendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return domain.DateOf(t.UTC())
}

func calendarDatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := calendarDate(*t)
	return &d
}

func nullDatePtr(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return domain.DateOf(*t)
}

// clampLimit caps page sizes at 100. Callers that need every row skip it.
func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
