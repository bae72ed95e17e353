package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategoryNormalizeDegradesUnknownValues(t *testing.T) {
	assert.Equal(t, CategoryConcert, Category("Concert").Normalize())
	assert.Equal(t, CategoryOther, Category("Rave").Normalize())
	assert.Equal(t, CategoryOther, Category("").Normalize())
	// The filter-only pseudo value is not a valid event category.
	assert.Equal(t, CategoryOther, CategoryAll.Normalize())
}

func TestViewModeEffective(t *testing.T) {
	assert.Equal(t, ViewAll, ViewJoined.Effective(true))
	assert.Equal(t, ViewAll, ViewAll.Effective(true))
	assert.Equal(t, ViewJoined, ViewJoined.Effective(false))
	assert.Equal(t, ViewAll, ViewAll.Effective(false))
	assert.Equal(t, ViewAll, ViewMode("bogus").Effective(false))
}

func TestEventWhenParsesISOTimestamps(t *testing.T) {
	event := Event{Date: "2026-09-12T18:30:00Z"}
	parsed, ok := event.When()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 9, 12, 18, 30, 0, 0, time.UTC), parsed)

	_, ok = Event{Date: "next friday"}.When()
	assert.False(t, ok)
}

func TestDisplayDateFallsBackToRawString(t *testing.T) {
	assert.Equal(t, "Sep 12, 2026 6:30 PM", Event{Date: "2026-09-12T18:30:00Z"}.DisplayDate())
	assert.Equal(t, "not-a-date", Event{Date: "not-a-date"}.DisplayDate())
}
