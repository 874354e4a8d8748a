package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendarDate(t *testing.T) {
	west := time.FixedZone("UTC-8", -8*60*60)
	// midnight UTC on the 7th, as a west-of-UTC driver would report it
	scanned := time.Date(2025, 1, 6, 16, 0, 0, 0, west)

	assert.Equal(t, time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), calendarDate(scanned))
	assert.True(t, calendarDate(time.Time{}).IsZero())
	assert.Nil(t, calendarDatePtr(nil))

	got := calendarDatePtr(&scanned)
	if assert.NotNil(t, got) {
		assert.Equal(t, 7, got.Day())
		assert.Equal(t, time.UTC, got.Location())
	}
}

func TestNullDatePtr(t *testing.T) {
	assert.Nil(t, nullDatePtr(nil))
	assert.Nil(t, nullDatePtr(&time.Time{}))

	evening := time.Date(2025, 1, 7, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), nullDatePtr(&evening))
}
