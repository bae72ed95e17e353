package models

import "time"

// Category classifies an event. The set is closed; anything the server
// sends outside it is treated as CategoryOther.
type Category string

const (
	CategoryParty    Category = "Party"
	CategoryMeeting  Category = "Meeting"
	CategoryConcert  Category = "Concert"
	CategoryFestival Category = "Festival"
	CategoryOther    Category = "Other"
)

// CategoryAll is a filter-only pseudo category meaning "no filter".
// It is never a valid Category on an event itself.
const CategoryAll Category = "All"

// Categories lists the closed enumeration in display order.
func Categories() []Category {
	return []Category{CategoryParty, CategoryMeeting, CategoryConcert, CategoryFestival, CategoryOther}
}

// Valid reports whether c is a member of the closed enumeration.
func (c Category) Valid() bool {
	switch c {
	case CategoryParty, CategoryMeeting, CategoryConcert, CategoryFestival, CategoryOther:
		return true
	default:
		return false
	}
}

// Normalize degrades unrecognized values to CategoryOther so display code
// never has to handle an unknown member.
func (c Category) Normalize() Category {
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// ViewMode scopes the event list to all events or only joined ones.
type ViewMode string

const (
	ViewAll    ViewMode = "all"
	ViewJoined ViewMode = "joined"
)

// Effective returns the view mode actually sent to the server:
// administrators always fetch the full list.
func (v ViewMode) Effective(isAdmin bool) ViewMode {
	if isAdmin {
		return ViewAll
	}
	if v != ViewJoined {
		return ViewAll
	}
	return v
}

// Event represents a single occurrence as returned by the server.
// Date stays a raw ISO-8601 string at the boundary; ParticipantsCount and
// IsJoined are server-computed and read-only here.
type Event struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Date              string   `json:"date"`
	Location          string   `json:"location"`
	Category          Category `json:"category"`
	Description       string   `json:"description,omitempty"`
	ParticipantsCount int      `json:"participantsCount"`
	IsJoined          bool     `json:"isJoined"`
}

// When parses the event date. ok is false when the raw string is not a
// recognizable timestamp.
func (e Event) When() (t time.Time, ok bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, e.Date); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// DisplayDate renders the date for humans, falling back to the raw string
// when it cannot be parsed.
func (e Event) DisplayDate() string {
	t, ok := e.When()
	if !ok {
		return e.Date
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}
