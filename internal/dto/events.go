package dto

import (
	"strings"

	"github.com/eventzy/eventzy-go/internal/models"
)

// EventListData is the payload of the list-events call. IsAdmin is the
// server's authoritative capability flag for the requesting identity.
type EventListData struct {
	Events  []models.Event `json:"events"`
	IsAdmin bool           `json:"isAdmin"`
}

// EventPayload carries the writable fields for create/update.
type EventPayload struct {
	Name     string          `json:"name" validate:"required"`
	Date     string          `json:"date" validate:"required"`
	Location string          `json:"location" validate:"required"`
	Category models.Category `json:"category"`
}

// Sanitize trims surrounding whitespace from the free-text fields and
// defaults the category to Party, mirroring what the server expects.
func (p *EventPayload) Sanitize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Location = strings.TrimSpace(p.Location)
	if p.Category == "" {
		p.Category = models.CategoryParty
	}
}
