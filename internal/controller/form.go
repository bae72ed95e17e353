package controller

import (
	"strings"
	"time"

	"github.com/eventzy/eventzy-go/internal/dto"
	"github.com/eventzy/eventzy-go/internal/models"
	appErrors "github.com/eventzy/eventzy-go/pkg/errors"
)

// EventForm composes user input into a validated event payload. The create
// and edit flows each get their own instance; an edit form is prefilled
// from the loaded event and fully discarded when closed, never merged.
type EventForm struct {
	name     string
	date     string
	location string
	category models.Category
}

// NewCreateForm returns an empty form defaulting to the Party category.
func NewCreateForm() *EventForm {
	return &EventForm{category: models.CategoryParty}
}

// NewEditForm returns a form prefilled from the event being edited.
func NewEditForm(event models.Event) *EventForm {
	return &EventForm{
		name:     event.Name,
		date:     event.Date,
		location: event.Location,
		category: event.Category.Normalize(),
	}
}

func (f *EventForm) SetName(name string)         { f.name = name }
func (f *EventForm) SetLocation(location string) { f.location = location }

// SetCategory ignores values outside the closed enumeration.
func (f *EventForm) SetCategory(category models.Category) {
	if category.Valid() {
		f.category = category
	}
}

// SetDate records a resolved timestamp from the picker as the ISO-8601
// boundary string.
func (f *EventForm) SetDate(resolved time.Time) {
	f.date = resolved.UTC().Format(time.RFC3339)
}

func (f *EventForm) Name() string              { return f.name }
func (f *EventForm) Date() string              { return f.date }
func (f *EventForm) Location() string          { return f.location }
func (f *EventForm) Category() models.Category { return f.category }

// Validate blocks submission unless name, date and location are all
// present (trimmed check on the free-text fields).
func (f *EventForm) Validate() error {
	if strings.TrimSpace(f.name) == "" || f.date == "" || strings.TrimSpace(f.location) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "Please fill in all fields")
	}
	return nil
}

// Payload validates and returns the sanitized gateway payload.
func (f *EventForm) Payload() (dto.EventPayload, error) {
	if err := f.Validate(); err != nil {
		return dto.EventPayload{}, err
	}
	payload := dto.EventPayload{
		Name:     f.name,
		Date:     f.date,
		Location: f.location,
		Category: f.category,
	}
	payload.Sanitize()
	return payload, nil
}

// Discard resets the form to its create defaults.
func (f *EventForm) Discard() {
	*f = EventForm{category: models.CategoryParty}
}
