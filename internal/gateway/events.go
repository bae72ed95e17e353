package gateway

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eventzy/eventzy-go/internal/dto"
	"github.com/eventzy/eventzy-go/internal/models"
	appErrors "github.com/eventzy/eventzy-go/pkg/errors"
)

// httpAPI is the slice of the API client the gateways depend on.
type httpAPI interface {
	Get(ctx context.Context, path, fallback string) (json.RawMessage, error)
	Post(ctx context.Context, path, fallback string) (json.RawMessage, error)
	Delete(ctx context.Context, path, fallback string) (json.RawMessage, error)
	PostJSON(ctx context.Context, path string, body interface{}, fallback string) (json.RawMessage, error)
	PutJSON(ctx context.Context, path string, body interface{}, fallback string) (json.RawMessage, error)
	PostMultipart(ctx context.Context, path string, fields map[string]string, fileField, filePath, fallback string) (json.RawMessage, error)
	PutMultipart(ctx context.Context, path string, fields map[string]string, fileField, filePath, fallback string) (json.RawMessage, error)
}

// EventGateway translates event operations into HTTP calls. It owns no
// state; membership semantics for join/leave live entirely on the server.
type EventGateway struct {
	api       httpAPI
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventGateway constructs the gateway.
func NewEventGateway(api httpAPI, validate *validator.Validate, logger *zap.Logger) *EventGateway {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventGateway{api: api, validator: validate, logger: logger}
}

// List fetches events scoped by category and view mode. CategoryAll (or
// the empty string) means no category filter. The server's isAdmin flag in
// the response is authoritative for the requesting identity.
func (g *EventGateway) List(ctx context.Context, category models.Category, view models.ViewMode) (*dto.EventListData, error) {
	if view != models.ViewJoined {
		view = models.ViewAll
	}
	query := url.Values{}
	query.Set("view", string(view))
	if category != "" && category != models.CategoryAll {
		query.Set("category", string(category))
	}
	raw, err := g.api.Get(ctx, "/events?"+query.Encode(), "Failed to load events")
	if err != nil {
		return nil, err
	}
	var data dto.EventListData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unexpected event list shape")
	}
	for i := range data.Events {
		data.Events[i].Category = data.Events[i].Category.Normalize()
	}
	return &data, nil
}

// GetByID fetches a single event.
func (g *EventGateway) GetByID(ctx context.Context, id string) (*models.Event, error) {
	raw, err := g.api.Get(ctx, "/events/"+url.PathEscape(id), "Failed to load event")
	if err != nil {
		return nil, err
	}
	var event models.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unexpected event shape")
	}
	if event.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Event not found")
	}
	event.Category = event.Category.Normalize()
	return &event, nil
}

// Create submits a new event. The payload is trimmed and validated before
// any network traffic; the server re-validates independently.
func (g *EventGateway) Create(ctx context.Context, payload dto.EventPayload) (*models.Event, error) {
	if err := g.sanitize(&payload); err != nil {
		return nil, err
	}
	raw, err := g.api.PostJSON(ctx, "/events", payload, "Failed to create event. Please try again.")
	if err != nil {
		return nil, err
	}
	return decodeEvent(raw)
}

// Update replaces the writable fields of an existing event.
func (g *EventGateway) Update(ctx context.Context, id string, payload dto.EventPayload) (*models.Event, error) {
	if err := g.sanitize(&payload); err != nil {
		return nil, err
	}
	raw, err := g.api.PutJSON(ctx, "/events/"+url.PathEscape(id), payload, "Failed to update event. Please try again.")
	if err != nil {
		return nil, err
	}
	return decodeEvent(raw)
}

// Remove deletes an event.
func (g *EventGateway) Remove(ctx context.Context, id string) error {
	_, err := g.api.Delete(ctx, "/events/"+url.PathEscape(id), "Failed to delete event")
	return err
}

// Join adds the current user to the event's participants. No membership
// pre-check happens here; calling Join on an already-joined event relies
// on server semantics.
func (g *EventGateway) Join(ctx context.Context, id string) error {
	_, err := g.api.Post(ctx, "/events/"+url.PathEscape(id)+"/join", "Failed to join event")
	return err
}

// Leave removes the current user from the event's participants.
func (g *EventGateway) Leave(ctx context.Context, id string) error {
	_, err := g.api.Post(ctx, "/events/"+url.PathEscape(id)+"/leave", "Failed to leave event")
	return err
}

func (g *EventGateway) sanitize(payload *dto.EventPayload) error {
	payload.Sanitize()
	if err := g.validator.Struct(payload); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Please fill in all fields")
	}
	return nil
}

func decodeEvent(raw json.RawMessage) (*models.Event, error) {
	var event models.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unexpected event shape")
	}
	event.Category = event.Category.Normalize()
	return &event, nil
}
