package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventzy/eventzy-go/internal/models"
	appErrors "github.com/eventzy/eventzy-go/pkg/errors"
)

func TestCreateFormDefaultsToParty(t *testing.T) {
	form := NewCreateForm()
	assert.Equal(t, models.CategoryParty, form.Category())
	assert.Empty(t, form.Name())
}

func TestFormValidateRequiresAllThreeFields(t *testing.T) {
	cases := []struct {
		name, date, location string
	}{
		{"", "2026-09-12T18:30:00Z", "Hall A"},
		{"Jazz Night", "", "Hall A"},
		{"Jazz Night", "2026-09-12T18:30:00Z", ""},
		{"   ", "2026-09-12T18:30:00Z", "Hall A"},
		{"Jazz Night", "2026-09-12T18:30:00Z", "  "},
	}
	for _, tc := range cases {
		form := NewCreateForm()
		form.SetName(tc.name)
		form.SetLocation(tc.location)
		if tc.date != "" {
			form.SetDate(time.Date(2026, 9, 12, 18, 30, 0, 0, time.UTC))
		}
		err := form.Validate()
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
		_, err = form.Payload()
		require.Error(t, err)
	}
}

func TestFormPayloadTrimsAndCarriesResolvedDate(t *testing.T) {
	form := NewCreateForm()
	form.SetName("  Jazz Night ")
	form.SetLocation(" Hall A ")
	form.SetCategory(models.CategoryConcert)
	form.SetDate(time.Date(2026, 9, 12, 18, 30, 0, 0, time.UTC))

	payload, err := form.Payload()
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", payload.Name)
	assert.Equal(t, "Hall A", payload.Location)
	assert.Equal(t, models.CategoryConcert, payload.Category)
	assert.Equal(t, "2026-09-12T18:30:00Z", payload.Date)
}

func TestFormIgnoresInvalidCategory(t *testing.T) {
	form := NewCreateForm()
	form.SetCategory(models.Category("Rave"))
	assert.Equal(t, models.CategoryParty, form.Category())
	form.SetCategory(models.CategoryFestival)
	assert.Equal(t, models.CategoryFestival, form.Category())
}

func TestEditFormPrefillsAndDiscards(t *testing.T) {
	event := models.Event{
		ID:       "e1",
		Name:     "Jazz Night",
		Date:     "2026-09-12T18:30:00Z",
		Location: "Hall A",
		Category: "Hackathon", // unknown value degrades
	}
	form := NewEditForm(event)
	assert.Equal(t, "Jazz Night", form.Name())
	assert.Equal(t, "2026-09-12T18:30:00Z", form.Date())
	assert.Equal(t, "Hall A", form.Location())
	assert.Equal(t, models.CategoryOther, form.Category())

	form.Discard()
	assert.Empty(t, form.Name())
	assert.Empty(t, form.Date())
	assert.Empty(t, form.Location())
	assert.Equal(t, models.CategoryParty, form.Category())
}
