package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventzy/eventzy-go/internal/dto"
	appErrors "github.com/eventzy/eventzy-go/pkg/errors"
)

// TokenSource supplies the bearer credential for authenticated calls.
// An empty string means no credential is attached.
type TokenSource interface {
	Token() string
}

// Client issues HTTP requests against the Eventzy API, attaching the
// bearer token and normalising failures into typed errors.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
}

// New constructs a client. tokens may be nil for unauthenticated use.
func New(baseURL string, timeout time.Duration, tokens TokenSource, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
	}
}

// Get issues an authenticated GET and returns the envelope data.
func (c *Client) Get(ctx context.Context, path, fallback string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, "", nil, fallback)
}

// Delete issues an authenticated DELETE and returns the envelope data.
func (c *Client) Delete(ctx context.Context, path, fallback string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, "", nil, fallback)
}

// Post issues an authenticated POST without a body.
func (c *Client) Post(ctx context.Context, path, fallback string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, "", nil, fallback)
}

// PostJSON issues an authenticated POST with a JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, body interface{}, fallback string) (json.RawMessage, error) {
	return c.json(ctx, http.MethodPost, path, body, fallback)
}

// PutJSON issues an authenticated PUT with a JSON body.
func (c *Client) PutJSON(ctx context.Context, path string, body interface{}, fallback string) (json.RawMessage, error) {
	return c.json(ctx, http.MethodPut, path, body, fallback)
}

// PostMultipart issues a POST with multipart form content. fileField/filePath
// optionally attach a local file.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, fileField, filePath, fallback string) (json.RawMessage, error) {
	return c.multipart(ctx, http.MethodPost, path, fields, fileField, filePath, fallback)
}

// PutMultipart issues a PUT with multipart form content.
func (c *Client) PutMultipart(ctx context.Context, path string, fields map[string]string, fileField, filePath, fallback string) (json.RawMessage, error) {
	return c.multipart(ctx, http.MethodPut, path, fields, fileField, filePath, fallback)
}

func (c *Client) json(ctx context.Context, method, path string, body interface{}, fallback string) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fallback)
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(payload), fallback)
}

func (c *Client) multipart(ctx context.Context, method, path string, fields map[string]string, fileField, filePath, fallback string) (json.RawMessage, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fallback)
		}
	}
	if fileField != "" && filePath != "" {
		file, err := os.Open(filePath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "cannot read file: "+filePath)
		}
		part, err := writer.CreateFormFile(fileField, filepath.Base(filePath))
		if err == nil {
			_, err = io.Copy(part, file)
		}
		file.Close() //nolint:errcheck
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fallback)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fallback)
	}
	return c.do(ctx, method, path, writer.FormDataContentType(), buf, fallback)
}

// do performs the round trip and decodes the common response envelope.
// Failures are mapped with the fixed message priority: server message,
// then transport error message, then fallback.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, fallback string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fallback)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("http_request_failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, appErrors.Normalize("", err, fallback))
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, appErrors.Normalize("", err, fallback))
	}

	c.logger.Debug("http_request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	var env dto.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, c.statusError(resp.StatusCode, fallback)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unexpected response shape")
	}

	if !env.Success {
		return nil, c.statusError(resp.StatusCode, appErrors.Normalize(env.Message, nil, fallback))
	}
	return env.Data, nil
}

func (c *Client) statusError(status int, message string) *appErrors.Error {
	switch status {
	case http.StatusUnauthorized:
		return appErrors.Clone(appErrors.ErrUnauthorized, message)
	case http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, message)
	default:
		return appErrors.Clone(appErrors.ErrServer, message)
	}
}
