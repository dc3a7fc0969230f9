// Package client is a typed HTTP client for the notely REST API, plus small
// cached state holders for notes and categories.
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
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 10 * time.Second

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notely: %d %s", e.StatusCode, e.Message)
}

func IsUnauthorized(err error) bool { return hasStatus(err, http.StatusUnauthorized) }

func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

func hasStatus(err error, code int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == code
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Register(ctx context.Context, email, username, password string) (User, error) {
	var u User
	err := c.do(ctx, http.MethodPost, "/users", nil, map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	}, &u)
	return u, err
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &u)
	return u, err
}

// Login signs in and stores the returned token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &out); err != nil {
		return "", err
	}
	c.SetToken(out.AccessToken)
	return out.AccessToken, nil
}

func (c *Client) ActiveNotes(ctx context.Context, page, limit int) (Page[Note], error) {
	return c.listNotes(ctx, "/notes/active", page, limit)
}

func (c *Client) ArchivedNotes(ctx context.Context, page, limit int) (Page[Note], error) {
	return c.listNotes(ctx, "/notes/archived", page, limit)
}

func (c *Client) listNotes(ctx context.Context, path string, page, limit int) (Page[Note], error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var p Page[Note]
	err := c.do(ctx, http.MethodGet, path, q, nil, &p)
	return p, err
}

func (c *Client) CreateNote(ctx context.Context, in NoteInput) (Note, error) {
	var n Note
	err := c.do(ctx, http.MethodPost, "/notes", nil, in, &n)
	return n, err
}

func (c *Client) UpdateNote(ctx context.Context, id string, in NotePatch) (Note, error) {
	var n Note
	err := c.do(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), nil, in, &n)
	return n, err
}

func (c *Client) DuplicateNote(ctx context.Context, id string) (Note, error) {
	var n Note
	err := c.do(ctx, http.MethodPost, "/notes/duplicate/"+url.PathEscape(id), nil, nil, &n)
	return n, err
}

func (c *Client) ArchiveNote(ctx context.Context, id string) (Note, error) {
	var n Note
	err := c.do(ctx, http.MethodPatch, "/notes/"+url.PathEscape(id)+"/archive", nil, nil, &n)
	return n, err
}

func (c *Client) UnarchiveNote(ctx context.Context, id string) (Note, error) {
	var n Note
	err := c.do(ctx, http.MethodPatch, "/notes/"+url.PathEscape(id)+"/unarchive", nil, nil, &n)
	return n, err
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var cats []Category
	err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &cats)
	return cats, err
}

func (c *Client) CreateCategory(ctx context.Context, name string) (Category, error) {
	var cat Category
	err := c.do(ctx, http.MethodPost, "/categories", nil, map[string]string{"name": name}, &cat)
	return cat, err
}

func (c *Client) Status(ctx context.Context) (Status, error) {
	var s Status
	err := c.do(ctx, http.MethodGet, "/", nil, nil, &s)
	return s, err
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("notely: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("notely: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notely: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return c.apiError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("notely: decode response: %w", err)
	}
	return nil
}

// apiError builds an APIError from the response envelope. A 401 also drops
// the stored token so callers are forced to log in again.
func (c *Client) apiError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		c.SetToken("")
	}

	var env struct {
		Error  string       `json:"error"`
		Fields []FieldError `json:"fields"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(raw, &env); err != nil || env.Error == "" {
		env.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: env.Error, Fields: env.Fields}
}
