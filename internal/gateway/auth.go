package gateway

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eventzy/eventzy-go/internal/dto"
	"github.com/eventzy/eventzy-go/internal/models"
	appErrors "github.com/eventzy/eventzy-go/pkg/errors"
)

// sessionStore is the slice of the session store the auth gateway uses.
type sessionStore interface {
	Save(token string, user *models.User) error
	SaveUser(user *models.User) error
	Clear() error
	Read() (models.Session, error)
}

// AuthGateway handles login, registration and profile operations and keeps
// the local session in step with their results.
type AuthGateway struct {
	api       httpAPI
	sessions  sessionStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthGateway constructs the gateway.
func NewAuthGateway(api httpAPI, sessions sessionStore, validate *validator.Validate, logger *zap.Logger) *AuthGateway {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthGateway{api: api, sessions: sessions, validator: validate, logger: logger}
}

// Login authenticates and persists the returned session. A storage failure
// after a successful round trip still fails the login: the session is only
// established once both halves are stored.
func (g *AuthGateway) Login(ctx context.Context, email, password string) (*dto.AuthData, error) {
	req := dto.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := g.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Email and password are required")
	}
	raw, err := g.api.PostJSON(ctx, "/users/login", req, "Login failed")
	if err != nil {
		return nil, err
	}
	return g.establish(raw, "Login failed")
}

// Register creates an account and persists the returned session.
func (g *AuthGateway) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthData, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := g.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Username, email and password are required")
	}
	fields := map[string]string{
		"username": req.Username,
		"email":    req.Email,
		"password": req.Password,
	}
	raw, err := g.api.PostMultipart(ctx, "/users/register", fields, "image", req.ImagePath, "Registration failed")
	if err != nil {
		return nil, err
	}
	return g.establish(raw, "Registration failed")
}

// Logout destroys the local session. The token is opaque; there is no
// server-side invalidation call.
func (g *AuthGateway) Logout() error {
	return g.sessions.Clear()
}

// Profile fetches the authoritative profile and refreshes the cache.
func (g *AuthGateway) Profile(ctx context.Context) (*models.User, error) {
	raw, err := g.api.Get(ctx, "/users/profile", "Failed to get profile")
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unexpected profile shape")
	}
	if err := g.sessions.SaveUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile submits the edited profile and merges the server's partial
// response into the cached user snapshot. Fields left empty are filled from
// the cache, mirroring an edit form prefilled with the current values; a
// profile without a username or email is rejected before any network call.
func (g *AuthGateway) UpdateProfile(ctx context.Context, req dto.ProfileUpdateRequest) (*models.User, error) {
	cached, err := g.sessions.Read()
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if cached.User != nil {
		if username == "" {
			username = cached.User.Username
		}
		if email == "" {
			email = cached.User.Email
		}
	}
	if username == "" || email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Username and email are required")
	}
	fields := map[string]string{"username": username, "email": email}
	raw, err := g.api.PutMultipart(ctx, "/users/profile", fields, "image", req.ImagePath, "Update failed")
	if err != nil {
		return nil, err
	}

	var patch struct {
		ID       *string `json:"id"`
		Username *string `json:"username"`
		Email    *string `json:"email"`
		ImageURL *string `json:"imageUrl"`
		IsAdmin  *bool   `json:"isAdmin"`
	}
	if err := json.Unmarshal(raw, &patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unexpected profile shape")
	}

	merged := models.User{}
	if cached.User != nil {
		merged = *cached.User
	}
	if patch.ID != nil {
		merged.ID = *patch.ID
	}
	if patch.Username != nil {
		merged.Username = *patch.Username
	}
	if patch.Email != nil {
		merged.Email = *patch.Email
	}
	if patch.ImageURL != nil {
		merged.ImageURL = *patch.ImageURL
	}
	if patch.IsAdmin != nil {
		merged.IsAdmin = *patch.IsAdmin
	}
	if err := g.sessions.SaveUser(&merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// CachedUser returns the locally cached user without a network call.
func (g *AuthGateway) CachedUser() (*models.User, error) {
	sess, err := g.sessions.Read()
	if err != nil {
		return nil, err
	}
	return sess.User, nil
}

func (g *AuthGateway) establish(raw json.RawMessage, fallback string) (*dto.AuthData, error) {
	var data dto.AuthData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unexpected auth shape")
	}
	if data.Token == "" {
		return nil, appErrors.Clone(appErrors.ErrServer, fallback)
	}
	if err := g.sessions.Save(data.Token, &data.User); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fallback)
	}
	return &data, nil
}
