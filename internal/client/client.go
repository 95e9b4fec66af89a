// Package client is a typed Go client for the weight tracker API.
package client

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
	"golang.org/x/oauth2"

	"weighttracker/internal/domain"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client calls the API, attaching a bearer token from the token source to
// every request.
type Client struct {
	base *url.URL
	http *http.Client
}

// New returns a Client for baseURL. A nil ts sends requests without
// credentials.
func New(baseURL string, ts oauth2.TokenSource, base *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base url %q: scheme and host required", baseURL)
	}
	if base == nil {
		base = &http.Client{Timeout: 30 * time.Second}
	}

	hc := base
	if ts != nil {
		transport := base.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		hc = &http.Client{
			Timeout: base.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.ReuseTokenSource(nil, ts),
				Base:   transport,
			},
		}
	}
	return &Client{base: u, http: hc}, nil
}

// Echo is the answer of the authenticated echo endpoint.
type Echo struct {
	Received string `json:"received"`
	Sub      string `json:"sub"`
	Username string `json:"username"`
	Scope    string `json:"scope"`
}

// EntryUpdate selects the fields of a partial update. Nil fields are not sent.
type EntryUpdate struct {
	Value      *domain.Measure
	RecordedAt *time.Time
}

// Health reports whether the API answers its liveness probe.
func (c *Client) Health(ctx context.Context) (bool, error) {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out); err != nil {
		return false, err
	}
	return out.OK, nil
}

// Echo sends input to the authenticated echo endpoint.
func (c *Client) Echo(ctx context.Context, input string) (*Echo, error) {
	var out Echo
	if err := c.do(ctx, http.MethodPost, "/test", nil, map[string]any{"input": input}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddWeight records value, at the given time or now when at is nil.
func (c *Client) AddWeight(ctx context.Context, value domain.Measure, at *time.Time) (int64, error) {
	in := map[string]any{"value": value}
	if at != nil {
		in["recorded_at"] = formatTime(*at)
	}
	var out struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/weights", nil, in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// ListWeights returns one page of entries, newest first. Zero values leave
// paging to the server defaults.
func (c *Client) ListWeights(ctx context.Context, limit, offset int) ([]domain.WeightEntry, error) {
	q := url.Values{}
	if limit != 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset != 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var out struct {
		Items []domain.WeightEntry `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/weights", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// UpdateWeight applies upd to entry id and returns the number of rows changed.
func (c *Client) UpdateWeight(ctx context.Context, id int64, upd EntryUpdate) (int64, error) {
	in := map[string]any{}
	if upd.Value != nil {
		in["value"] = *upd.Value
	}
	if upd.RecordedAt != nil {
		in["recorded_at"] = formatTime(*upd.RecordedAt)
	}
	var out struct {
		Updated int64 `json:"updated"`
	}
	if err := c.do(ctx, http.MethodPut, "/weights/"+strconv.FormatInt(id, 10), nil, in, &out); err != nil {
		return 0, err
	}
	return out.Updated, nil
}

// DeleteWeight removes entry id and returns the number of rows removed.
func (c *Client) DeleteWeight(ctx context.Context, id int64) (int64, error) {
	var out struct {
		Deleted int64 `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/weights/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

// GetGoal returns the caller's goal, or nil when none is set.
func (c *Client) GetGoal(ctx context.Context) (*domain.WeightGoal, error) {
	var out struct {
		Goal *domain.WeightGoal `json:"goal"`
	}
	if err := c.do(ctx, http.MethodGet, "/goal", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Goal, nil
}

// SetGoal creates or replaces the caller's goal and reports whether it was
// created.
func (c *Client) SetGoal(ctx context.Context, value domain.Measure, at *time.Time) (bool, error) {
	in := map[string]any{"value": value}
	if at != nil {
		in["at"] = formatTime(*at)
	}
	var out struct {
		Created bool `json:"created"`
	}
	if err := c.do(ctx, http.MethodPut, "/goal", nil, in, &out); err != nil {
		return false, err
	}
	return out.Created, nil
}

// DeleteGoal removes the caller's goal and returns the number of rows removed.
func (c *Client) DeleteGoal(ctx context.Context) (int64, error) {
	var out struct {
		Deleted int64 `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/goal", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := *c.base
	u.Path += path
	u.RawQuery = q.Encode()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return errors.Wrap(json.Unmarshal(data, out), "decode response")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
