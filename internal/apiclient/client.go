// Package apiclient is the REST client for the KRA360 backend API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const EmployeeIDHeader = "x-employee-id"

// Observer is told about every finished call. StatusCode is 0 when no
// response was received.
type Observer func(method, path string, statusCode int, err error)

// Client is the backend API client. A Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	employeeID string
	observer   Observer
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// New creates a client for baseURL, for example http://localhost:3000/api/v1.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// As returns a client that identifies every request as employeeID.
func (c *Client) As(employeeID string) *Client {
	clone := *c
	clone.employeeID = employeeID
	return &clone
}

func (c *Client) EmployeeID() string {
	return c.employeeID
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends a request and decodes the unwrapped payload into result.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	raw, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if result == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrap(raw), result); err != nil {
		return &RequestError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// send performs the round trip and returns the raw 2xx body.
func (c *Client) send(ctx context.Context, method, path string, body any) (raw []byte, err error) {
	status := 0
	defer func() {
		if c.observer != nil {
			c.observer(method, path, status, err)
		}
	}()

	var bodyReader io.Reader
	if body != nil {
		data, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return nil, &RequestError{Message: fmt.Sprintf("encode request: %v", marshalErr)}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, &RequestError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.employeeID != "" {
		req.Header.Set(EmployeeIDHeader, c.employeeID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()
	status = resp.StatusCode

	raw, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Message: fmt.Sprintf("read response: %v", err), StatusCode: status}
	}
	if status < 200 || status > 299 {
		return nil, newRequestError(status, raw)
	}
	return raw, nil
}

// unwrap returns the data member of a {status, data} envelope, or the whole
// body when there is none.
func unwrap(raw []byte) []byte {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return raw
	}
	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return raw
	}
	return data
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) patch(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPatch, path, body, result)
}
