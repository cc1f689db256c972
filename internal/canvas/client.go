// Package canvas implements a minimal client for the Canvas LMS REST API,
// covering the two endpoints the sync needs: the user's favorite courses and
// the per-course assignment listing.
package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnauthorized is returned when Canvas rejects the API token.
// Callers treat this as fatal and abort the run.
var ErrUnauthorized = errors.New("canvas: token rejected")

// Client talks to a single Canvas instance on behalf of one user.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient builds a client for https://<domain>/api/v1.
func NewClient(domain, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: "https://" + strings.TrimSuffix(domain, "/") + "/api/v1",
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// FavoriteCourses lists the courses the user has starred in Canvas.
func (c *Client) FavoriteCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := c.get(ctx, "/users/self/favorites/courses", nil, &courses); err != nil {
		return nil, fmt.Errorf("fetch favorite courses: %w", err)
	}
	return courses, nil
}

// Assignments lists assignments for one course, including submission state
// so already-submitted work can be filtered out.
func (c *Client) Assignments(ctx context.Context, courseID int64) ([]Assignment, error) {
	params := url.Values{}
	params.Add("include[]", "submission")
	params.Add("include[]", "all_dates")
	params.Set("per_page", "100")

	var assignments []Assignment
	path := fmt.Sprintf("/courses/%d/assignments", courseID)
	if err := c.get(ctx, path, params, &assignments); err != nil {
		return nil, fmt.Errorf("fetch assignments for course %d: %w", courseID, err)
	}
	return assignments, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
