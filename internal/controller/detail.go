package controller

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/eventzy/eventzy-go/internal/dto"
	"github.com/eventzy/eventzy-go/internal/models"
	appErrors "github.com/eventzy/eventzy-go/pkg/errors"
)

// DetailController owns a single event's screen state, join/leave
// transitions and inline edit. A failed event fetch puts the screen into a
// terminal not-found state whose only recovery is navigating back.
type DetailController struct {
	gateway  eventGateway
	users    userSource
	notifier Notifier
	logger   *zap.Logger

	mu       sync.Mutex
	id       string
	event    *models.Event
	loading  bool
	notFound bool
	user     *models.User
	isAdmin  bool
}

// NewDetailController constructs the controller.
func NewDetailController(gateway eventGateway, users userSource, notifier Notifier, logger *zap.Logger) *DetailController {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetailController{gateway: gateway, users: users, notifier: notifier, logger: logger}
}

// Load fetches the event and the cached user concurrently; loading only
// clears once both complete. Once the screen is terminal it never fetches
// again.
func (c *DetailController) Load(ctx context.Context, id string) {
	c.mu.Lock()
	if c.notFound && id == c.id {
		c.mu.Unlock()
		return
	}
	c.id = id
	c.loading = true
	c.notFound = false
	c.mu.Unlock()

	var (
		wg       sync.WaitGroup
		event    *models.Event
		eventErr error
		user     *models.User
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		event, eventErr = c.gateway.GetByID(ctx, id)
	}()
	go func() {
		defer wg.Done()
		if c.users == nil {
			return
		}
		if cached, err := c.users.CachedUser(); err == nil {
			user = cached
		}
	}()
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if id != c.id {
		// A later Load took over; this response is stale.
		return
	}
	c.loading = false
	if user != nil {
		c.user = user
		c.isAdmin = user.IsAdmin
	}
	if eventErr != nil {
		c.event = nil
		c.notFound = true
		c.notifier.Error("Error", "Failed to load event")
		return
	}
	c.event = event
}

// Reload re-fetches the current event unless the screen is terminal.
func (c *DetailController) Reload(ctx context.Context) {
	c.mu.Lock()
	id := c.id
	terminal := c.notFound || id == ""
	c.mu.Unlock()
	if terminal {
		return
	}
	c.Load(ctx, id)
}

// Join adds the current user to the event and reloads on success.
func (c *DetailController) Join(ctx context.Context) {
	c.mu.Lock()
	id := c.id
	c.mu.Unlock()
	if err := c.gateway.Join(ctx, id); err != nil {
		c.notifier.Error("Error", appErrors.FromError(err).Message)
		return
	}
	c.notifier.Success("Success", "You've joined the event!")
	c.Reload(ctx)
}

// Leave removes the current user from the event and reloads on success.
func (c *DetailController) Leave(ctx context.Context) {
	c.mu.Lock()
	id := c.id
	c.mu.Unlock()
	if err := c.gateway.Leave(ctx, id); err != nil {
		c.notifier.Error("Error", appErrors.FromError(err).Message)
		return
	}
	c.notifier.Success("Success", "You've left the event")
	c.Reload(ctx)
}

// Update edits the event inline (administrators) and reloads on success.
func (c *DetailController) Update(ctx context.Context, payload dto.EventPayload) {
	c.mu.Lock()
	id := c.id
	c.mu.Unlock()
	if _, err := c.gateway.Update(ctx, id, payload); err != nil {
		c.notifier.Error("Error", appErrors.FromError(err).Message)
		return
	}
	c.notifier.Success("Success", "Event updated successfully!")
	c.Reload(ctx)
}

// Event returns the loaded event, nil when absent or terminal.
func (c *DetailController) Event() *models.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.event == nil {
		return nil
	}
	cp := *c.event
	return &cp
}

// Loading reports whether the combined fetch is in flight.
func (c *DetailController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// NotFound reports the terminal state.
func (c *DetailController) NotFound() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notFound
}

// IsAdmin reports whether the cached user has the administrator flag.
func (c *DetailController) IsAdmin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isAdmin
}

// User returns the cached user.
func (c *DetailController) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}
