package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventzy/eventzy-go/internal/dto"
	"github.com/eventzy/eventzy-go/internal/models"
	appErrors "github.com/eventzy/eventzy-go/pkg/errors"
)

func TestDetailControllerLoadsEventAndUser(t *testing.T) {
	gw := &mockGateway{getEvent: &models.Event{ID: "e1", Name: "Jazz Night", IsJoined: true}}
	users := &mockUsers{user: &models.User{ID: "u1", IsAdmin: true}}
	ctl := NewDetailController(gw, users, nil, nil)

	ctl.Load(context.Background(), "e1")

	require.False(t, ctl.Loading())
	event := ctl.Event()
	require.NotNil(t, event)
	assert.Equal(t, "Jazz Night", event.Name)
	assert.True(t, ctl.IsAdmin())
	assert.False(t, ctl.NotFound())
}

func TestDetailControllerEntersTerminalNotFoundState(t *testing.T) {
	gw := &mockGateway{getErr: appErrors.Clone(appErrors.ErrNotFound, "Event not found")}
	notifier := &recordingNotifier{}
	ctl := NewDetailController(gw, nil, notifier, nil)

	ctl.Load(context.Background(), "missing")

	assert.True(t, ctl.NotFound())
	assert.Nil(t, ctl.Event())
	assert.NotEmpty(t, notifier.errors)

	// Terminal: neither Load of the same id nor Reload fetches again.
	gw.mu.Lock()
	gw.getErr = nil
	gw.getEvent = &models.Event{ID: "missing"}
	gw.mu.Unlock()
	ctl.Load(context.Background(), "missing")
	ctl.Reload(context.Background())
	assert.True(t, ctl.NotFound())
	assert.Nil(t, ctl.Event())
}

func TestDetailControllerNewIDEscapesTerminalState(t *testing.T) {
	gw := &mockGateway{getErr: appErrors.Clone(appErrors.ErrNotFound, "Event not found")}
	ctl := NewDetailController(gw, nil, nil, nil)

	ctl.Load(context.Background(), "missing")
	require.True(t, ctl.NotFound())

	gw.mu.Lock()
	gw.getErr = nil
	gw.getEvent = &models.Event{ID: "e2", Name: "Spring Festival"}
	gw.mu.Unlock()

	ctl.Load(context.Background(), "e2")
	assert.False(t, ctl.NotFound())
	require.NotNil(t, ctl.Event())
	assert.Equal(t, "Spring Festival", ctl.Event().Name)
}

func TestDetailControllerJoinReloads(t *testing.T) {
	gw := &mockGateway{getEvent: &models.Event{ID: "e1"}}
	notifier := &recordingNotifier{}
	ctl := NewDetailController(gw, nil, notifier, nil)

	ctl.Load(context.Background(), "e1")
	ctl.Join(context.Background())

	assert.Equal(t, []string{"e1"}, gw.joined)
	assert.NotEmpty(t, notifier.successes)
}

func TestDetailControllerUpdateFailureNotifies(t *testing.T) {
	gw := &mockGateway{getEvent: &models.Event{ID: "e1"}}
	notifier := &recordingNotifier{}
	ctl := NewDetailController(gw, nil, notifier, nil)

	ctl.Load(context.Background(), "e1")
	gw.mutErr = appErrors.Clone(appErrors.ErrServer, "Only admins can edit events")
	ctl.Update(context.Background(), dto.EventPayload{Name: "n", Date: "d", Location: "l"})

	require.NotEmpty(t, notifier.errors)
	assert.Equal(t, "Only admins can edit events", notifier.errors[0])
}
