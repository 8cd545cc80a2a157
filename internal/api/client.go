// Package api is the HTTP client for the customerbase API, covering the
// four operations the record browser needs: list a page, create, update
// and delete a customer.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okellodaniel/customerbase/internal/models"
)

// ErrNoChanges is reported by UpdateRecord when the patch carries no
// fields; no request is sent in that case.
var ErrNoChanges = errors.New("no fields changed")

// RequestError is a non-2xx response from the API, carrying the
// human-readable message extracted from the response body
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
}

// Client talks to the customerbase API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an API client for the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ListPage retrieves one page of customers starting at offset
func (c *Client) ListPage(ctx context.Context, offset, limit int) (*models.ListResult, error) {
	path := fmt.Sprintf("/api/customers?skip=%d&limit=%d", offset, limit)

	result := &models.ListResult{}
	if err := c.do(ctx, http.MethodGet, path, nil, result); err != nil && !errors.Is(err, errNoContent) {
		return nil, err
	}

	return result, nil
}

// CreateRecord creates a customer from the draft and returns the stored record
func (c *Client) CreateRecord(ctx context.Context, draft *models.CustomerDraft) (*models.Customer, error) {
	customer := &models.Customer{}
	if err := c.do(ctx, http.MethodPost, "/api/customers", draft, customer); err != nil && !errors.Is(err, errNoContent) {
		return nil, err
	}

	return customer, nil
}

// UpdateRecord sends only the changed fields of a customer. An empty patch
// skips the network round-trip entirely and reports ErrNoChanges.
func (c *Client) UpdateRecord(ctx context.Context, id int64, patch *models.CustomerPatch) (*models.Customer, error) {
	if patch == nil || patch.Empty() {
		return nil, ErrNoChanges
	}

	customer := &models.Customer{}
	path := fmt.Sprintf("/api/customers/%d", id)
	if err := c.do(ctx, http.MethodPatch, path, patch, customer); err != nil && !errors.Is(err, errNoContent) {
		return nil, err
	}

	return customer, nil
}

// DeleteRecord deletes a customer. The returned record is the deleted row
// when the server provides one, or nil on a 204 response.
func (c *Client) DeleteRecord(ctx context.Context, id int64) (*models.Customer, error) {
	customer := &models.Customer{}
	path := fmt.Sprintf("/api/customers/%d", id)

	err := c.do(ctx, http.MethodDelete, path, nil, customer)
	if errors.Is(err, errNoContent) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return customer, nil
}

// errNoContent marks a successful 204 response internally
var errNoContent = errors.New("no content")

// do performs one request/response cycle with JSON bodies
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{StatusCode: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp),
		}
	}

	if resp.StatusCode == http.StatusNoContent {
		return errNoContent
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// errorMessage pulls the most specific message available out of an error
// response body, falling back to the HTTP status text
func errorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && len(data) > 0 {
		var body struct {
			Detail  string `json:"detail"`
			Message string `json:"message"`
			Error   struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(data, &body) == nil {
			switch {
			case body.Detail != "":
				return body.Detail
			case body.Message != "":
				return body.Message
			case body.Error.Message != "":
				return body.Error.Message
			}
		}
	}

	return http.StatusText(resp.StatusCode)
}
