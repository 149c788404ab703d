// Package client is the admin client's garment storage layer: a typed HTTP
// client for the garment API plus an optimistic in-memory cache that list
// and detail views render from.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wardrobe-manager/wardrobe-manager-api/models"
)

// ErrNotFound is returned when the server does not know the garment id
var ErrNotFound = errors.New("garment not found")

// API is the server surface the cache persists through. An HTTP
// implementation is provided; tests inject fakes.
type API interface {
	ListGarments(ctx context.Context) ([]models.Garment, error)
	GetGarment(ctx context.Context, id string) (*models.Garment, error)
	UpsertGarment(ctx context.Context, g models.Garment) error
	UpdateGarment(ctx context.Context, g models.Garment) error
	DeleteGarment(ctx context.Context, id string) error
}

// HTTPAPI talks to the admin garment routes over HTTP with a bearer token
type HTTPAPI struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewHTTPAPI creates an HTTP-backed API client
func NewHTTPAPI(baseURL, token string) *HTTPAPI {
	return &HTTPAPI{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope is the admin response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *HTTPAPI) do(ctx context.Context, method, path string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr != nil && out != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if env.Error != nil {
			return resp.StatusCode, fmt.Errorf("server error %s: %s", env.Error.Code, env.Error.Message)
		}
		return resp.StatusCode, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// ListGarments fetches every garment
func (a *HTTPAPI) ListGarments(ctx context.Context) ([]models.Garment, error) {
	var garments []models.Garment
	if _, err := a.do(ctx, http.MethodGet, "/api/v1/garments", nil, &garments); err != nil {
		return nil, err
	}
	return garments, nil
}

// GetGarment fetches one garment by id
func (a *HTTPAPI) GetGarment(ctx context.Context, id string) (*models.Garment, error) {
	var garment models.Garment
	if _, err := a.do(ctx, http.MethodGet, "/api/v1/garments/"+url.PathEscape(id), nil, &garment); err != nil {
		return nil, err
	}
	return &garment, nil
}

// UpsertGarment creates or replaces a garment by id
func (a *HTTPAPI) UpsertGarment(ctx context.Context, g models.Garment) error {
	_, err := a.do(ctx, http.MethodPost, "/api/v1/garments", g, nil)
	return err
}

// UpdateGarment patches a garment with its full current client state
func (a *HTTPAPI) UpdateGarment(ctx context.Context, g models.Garment) error {
	body := map[string]any{
		"name":       g.Name,
		"photos":     g.Photos,
		"attributes": g.Attributes,
	}
	_, err := a.do(ctx, http.MethodPatch, "/api/v1/garments/"+url.PathEscape(g.ID), body, nil)
	return err
}

// DeleteGarment deletes a garment; a 404 counts as success (already gone)
func (a *HTTPAPI) DeleteGarment(ctx context.Context, id string) error {
	_, err := a.do(ctx, http.MethodDelete, "/api/v1/garments/"+url.PathEscape(id), nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
