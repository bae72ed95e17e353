package controller

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/eventzy/eventzy-go/internal/dto"
	"github.com/eventzy/eventzy-go/internal/models"
	appErrors "github.com/eventzy/eventzy-go/pkg/errors"
)

// eventGateway is the slice of the event data gateway the controllers use.
type eventGateway interface {
	List(ctx context.Context, category models.Category, view models.ViewMode) (*dto.EventListData, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, payload dto.EventPayload) (*models.Event, error)
	Update(ctx context.Context, id string, payload dto.EventPayload) (*models.Event, error)
	Remove(ctx context.Context, id string) error
	Join(ctx context.Context, id string) error
	Leave(ctx context.Context, id string) error
}

// userSource reads the cached user snapshot.
type userSource interface {
	CachedUser() (*models.User, error)
}

// ListController owns the event list screen state: category filter, view
// mode, the fetched collection and loading. Consistency after mutations is
// reload-based; local state is never patched optimistically.
type ListController struct {
	gateway   eventGateway
	users     userSource
	notifier  Notifier
	confirmer Confirmer
	logger    *zap.Logger

	mu       sync.Mutex
	events   []models.Event
	loading  bool
	category models.Category
	viewMode models.ViewMode
	isAdmin  bool
	user     *models.User
	fetchSeq uint64
}

// NewListController constructs the controller with CategoryAll / ViewAll
// defaults.
func NewListController(gateway eventGateway, users userSource, notifier Notifier, confirmer Confirmer, logger *zap.Logger) *ListController {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListController{
		gateway:   gateway,
		users:     users,
		notifier:  notifier,
		confirmer: confirmer,
		logger:    logger,
		category:  models.CategoryAll,
		viewMode:  models.ViewAll,
	}
}

// Mount loads the cached user and performs the initial fetch.
func (c *ListController) Mount(ctx context.Context) {
	if c.users != nil {
		user, err := c.users.CachedUser()
		c.mu.Lock()
		if err == nil && user != nil {
			c.user = user
			c.isAdmin = user.IsAdmin
		}
		c.mu.Unlock()
	}
	c.Reload(ctx)
}

// SetCategory changes the filter and re-fetches when it actually changed.
func (c *ListController) SetCategory(ctx context.Context, category models.Category) {
	c.mu.Lock()
	if category == c.category {
		c.mu.Unlock()
		return
	}
	c.category = category
	c.mu.Unlock()
	c.Reload(ctx)
}

// SetViewMode changes the all/joined toggle and re-fetches on change. The
// stored toggle is kept even for administrators; only the fetch collapses
// it to "all".
func (c *ListController) SetViewMode(ctx context.Context, view models.ViewMode) {
	c.mu.Lock()
	if view == c.viewMode {
		c.mu.Unlock()
		return
	}
	c.viewMode = view
	c.mu.Unlock()
	c.Reload(ctx)
}

// Reload fetches the list with the effective view mode. Each fetch carries
// a sequence stamp; a response that lost the race to a newer fetch is
// discarded rather than overwriting fresher state. On failure the previous
// collection stays in place and the error is surfaced as a notification.
func (c *ListController) Reload(ctx context.Context) {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	c.loading = true
	category := c.category
	view := c.viewMode.Effective(c.isAdmin)
	c.mu.Unlock()

	result, err := c.gateway.List(ctx, category, view)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.fetchSeq {
		c.logger.Debug("stale event list response discarded", zap.Uint64("seq", seq))
		return
	}
	c.loading = false
	if err != nil {
		c.notifier.Error("Error", appErrors.FromError(err).Message)
		return
	}
	c.events = result.Events
	c.isAdmin = result.IsAdmin
}

// Create submits a new event and reloads the list on success.
func (c *ListController) Create(ctx context.Context, payload dto.EventPayload) {
	if _, err := c.gateway.Create(ctx, payload); err != nil {
		c.notifier.Error("Error", appErrors.FromError(err).Message)
		return
	}
	c.notifier.Success("Success", "Event created successfully!")
	c.Reload(ctx)
}

// Update edits an event inline from the list and reloads on success.
func (c *ListController) Update(ctx context.Context, id string, payload dto.EventPayload) {
	if _, err := c.gateway.Update(ctx, id, payload); err != nil {
		c.notifier.Error("Error", appErrors.FromError(err).Message)
		return
	}
	c.notifier.Success("Success", "Event updated successfully!")
	c.Reload(ctx)
}

// Delete asks for confirmation, then removes the event and reloads.
// Declining the confirmation issues no gateway call at all.
func (c *ListController) Delete(ctx context.Context, id string) {
	if c.confirmer == nil || !c.confirmer.Confirm("Delete Event", "Are you sure you want to delete this event?") {
		return
	}
	if err := c.gateway.Remove(ctx, id); err != nil {
		c.notifier.Error("Error", appErrors.FromError(err).Message)
		return
	}
	c.notifier.Success("Success", "Event deleted successfully!")
	c.Reload(ctx)
}

// Join adds the current user to an event and reloads.
func (c *ListController) Join(ctx context.Context, id string) {
	if err := c.gateway.Join(ctx, id); err != nil {
		c.notifier.Error("Error", appErrors.FromError(err).Message)
		return
	}
	c.notifier.Success("Success", "Successfully joined event!")
	c.Reload(ctx)
}

// Leave removes the current user from an event and reloads.
func (c *ListController) Leave(ctx context.Context, id string) {
	if err := c.gateway.Leave(ctx, id); err != nil {
		c.notifier.Error("Error", appErrors.FromError(err).Message)
		return
	}
	c.notifier.Success("Success", "Successfully left event!")
	c.Reload(ctx)
}

// Events returns a copy of the current collection.
func (c *ListController) Events() []models.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Event, len(c.events))
	copy(out, c.events)
	return out
}

// Loading reports whether a fetch is in flight.
func (c *ListController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// IsAdmin reports the server-reconciled administrator flag.
func (c *ListController) IsAdmin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isAdmin
}

// Category returns the selected filter.
func (c *ListController) Category() models.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}

// ViewMode returns the stored toggle, not the effective view.
func (c *ListController) ViewMode() models.ViewMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMode
}

// User returns the cached user loaded at mount.
func (c *ListController) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}
