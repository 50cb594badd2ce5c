package todoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// API is the transport capability the actions layer depends on.
// It is implemented by *Client and can be faked in tests.
type API interface {
	ListTodos(ctx context.Context) ([]Todo, error)
	CreateTodo(ctx context.Context, todo NewTodo) (Todo, error)
	UpdateTodo(ctx context.Context, id int64, patch Patch) (Todo, error)
	DeleteTodo(ctx context.Context, id int64) ([]Todo, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// ErrNoResponse marks failures where the server never answered.
var ErrNoResponse = errors.New("no response from todo api")

// ResponseError is returned when the server answers with a status >= 400.
type ResponseError struct {
	Path   string
	Status int
	Body   string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

// DisplayMessage returns the server's body text for the error banner.
func (e *ResponseError) DisplayMessage() string {
	if e.Body == "" {
		return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
	}
	return e.Body
}

// BadResponseError is returned when the server answered with a success
// status but the body was not a usable todo payload.
type BadResponseError struct {
	Path string
	Err  error
}

func (e *BadResponseError) Error() string {
	return fmt.Sprintf("api %s: unexpected response: %v", e.Path, e.Err)
}

func (e *BadResponseError) Unwrap() error { return e.Err }

// Client talks to the todo HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultOrigin    = "localhost:3000"
	defaultUserAgent = "todosync/0.1"
	defaultTimeout   = 5 * time.Second
	collectionPath   = "/api/todos/"
	maxErrorBody     = 64 * 1024
)

// NewClient builds a Client for the given server origin. A zero timeout
// uses the default of five seconds.
func NewClient(origin string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(origin)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized server origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListTodos fetches the full list, oldest first as the server orders it.
func (c *Client) ListTodos(ctx context.Context) ([]Todo, error) {
	if c == nil {
		return nil, errors.New("client is nil")
	}
	var payload TodoList
	if err := c.do(ctx, http.MethodGet, collectionPath, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Todos, nil
}

// CreateTodo posts a new item and returns it as stored by the server.
func (c *Client) CreateTodo(ctx context.Context, todo NewTodo) (Todo, error) {
	if c == nil {
		return Todo{}, errors.New("client is nil")
	}
	var created Todo
	if err := c.do(ctx, http.MethodPost, collectionPath, todo, &created); err != nil {
		return Todo{}, err
	}
	if created.ID == 0 {
		return Todo{}, &BadResponseError{Path: collectionPath, Err: errors.New("create response missing todo id")}
	}
	return created, nil
}

// UpdateTodo patches an item and returns the updated server copy.
func (c *Client) UpdateTodo(ctx context.Context, id int64, patch Patch) (Todo, error) {
	if c == nil {
		return Todo{}, errors.New("client is nil")
	}
	var updated Todo
	if err := c.do(ctx, http.MethodPatch, itemPath(id), patch, &updated); err != nil {
		return Todo{}, err
	}
	if updated.ID == 0 {
		return Todo{}, &BadResponseError{Path: itemPath(id), Err: errors.New("update response missing todo id")}
	}
	return updated, nil
}

// DeleteTodo removes an item and returns the remaining list.
func (c *Client) DeleteTodo(ctx context.Context, id int64) ([]Todo, error) {
	if c == nil {
		return nil, errors.New("client is nil")
	}
	var payload TodoList
	if err := c.do(ctx, http.MethodDelete, itemPath(id), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Todos, nil
}

func itemPath(id int64) string {
	return collectionPath + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(ErrNoResponse, "%s %s: %v", method, rel.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return errors.WithStack(&ResponseError{
			Path:   rel.Path,
			Status: resp.StatusCode,
			Body:   readErrorBody(resp.Body),
		})
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return &BadResponseError{Path: rel.Path, Err: errors.Wrap(err, "decode response")}
	}
	return nil
}

// readErrorBody returns the response body as display text. A JSON string
// body is unquoted so it reads the way the server wrote it.
func readErrorBody(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var unquoted string
		if err := json.Unmarshal([]byte(text), &unquoted); err == nil {
			return unquoted
		}
	}
	return text
}

func parseBaseURL(origin string) (*url.URL, error) {
	trimmed := strings.TrimSpace(origin)
	if trimmed == "" {
		trimmed = defaultOrigin
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, errors.Wrapf(err, "parse api_origin %q", origin)
	}
	if u.Host == "" {
		return nil, errors.Errorf("api_origin %q has no host", origin)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
