// Package mailerlite wraps the MailerLite v2 API. It is a pure I/O
// boundary: no business logic, no retries, one bounded-timeout HTTP call
// per method.
package mailerlite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ignite/subscriber-portal/internal/pkg/logger"
)

// HTTPDoer is the interface for executing HTTP requests.
// *http.Client satisfies it; tests substitute fakes.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a MailerLite API client scoped to a single credential.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
}

// NewClient builds a client for one credential. Pure: callers construct a
// fresh client per call chain so two country-scoped operations can never
// race over a shared key.
func NewClient(cred Credential, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cred.BaseURL, "/"),
		apiKey:     cred.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing)
func (c *Client) SetHTTPClient(client HTTPDoer) {
	c.httpClient = client
}

// doRequest performs an authenticated request against the API and returns
// the raw response body.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	reqURL := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(endpoint, "/"))

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-MailerLite-ApiKey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// Groups retrieves all subscriber groups visible to the credential.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "groups", nil)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(respBody)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []Group{}, nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("failed to parse groups response: invalid JSON")
	}

	raw, ok := listPayload(trimmed, "groups")
	if !ok {
		logger.Warn("groups response is not an array, treating as empty")
		return []Group{}, nil
	}

	var groups []Group
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse groups response: %w", err)
	}
	return groups, nil
}

// GroupSubscribers retrieves the raw subscriber records of one group.
func (c *Client) GroupSubscribers(ctx context.Context, groupID string) ([]Subscriber, error) {
	endpoint := fmt.Sprintf("groups/%s/subscribers", url.PathEscape(groupID))
	respBody, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return decodeSubscriberList(respBody, "group subscribers")
}

// CreateSubscriber adds an email to a group with resubscribe=true, so a
// previously unsubscribed address is re-activated instead of erroring.
func (c *Client) CreateSubscriber(ctx context.Context, groupID, email string) (*Subscriber, error) {
	endpoint := fmt.Sprintf("groups/%s/subscribers", url.PathEscape(groupID))
	respBody, err := c.doRequest(ctx, http.MethodPost, endpoint, createSubscriberRequest{
		Email:       email,
		Resubscribe: true,
	})
	if err != nil {
		return nil, err
	}

	var sub Subscriber
	if err := json.Unmarshal(respBody, &sub); err != nil {
		return nil, fmt.Errorf("failed to parse create response: %w", err)
	}
	return &sub, nil
}

// SearchByEmail looks a subscriber up by email. An empty result means the
// address is unknown to this tenant; that is not an error.
func (c *Client) SearchByEmail(ctx context.Context, email string) ([]Subscriber, error) {
	endpoint := "subscribers/search?query=" + url.QueryEscape(email)
	respBody, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return decodeSubscriberList(respBody, "subscriber search")
}

// UpdateFields updates custom field values on a subscriber, addressed by
// email.
func (c *Client) UpdateFields(ctx context.Context, email string, fields map[string]string) (*Subscriber, error) {
	endpoint := fmt.Sprintf("subscribers/%s", url.PathEscape(email))
	respBody, err := c.doRequest(ctx, http.MethodPut, endpoint, updateFieldsRequest{Fields: fields})
	if err != nil {
		return nil, err
	}

	var sub Subscriber
	if err := json.Unmarshal(respBody, &sub); err != nil {
		return nil, fmt.Errorf("failed to parse update response: %w", err)
	}
	return &sub, nil
}

// decodeSubscriberList tolerates null and non-array payloads on list
// endpoints: both decode to an empty list (the remote returns null for
// empty tenants). Malformed JSON remains an error.
func decodeSubscriberList(data []byte, op string) ([]Subscriber, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []Subscriber{}, nil
	}
	if trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("failed to parse %s response: invalid JSON", op)
		}
		logger.Warn("list response is not an array, treating as empty", "operation", op)
		return []Subscriber{}, nil
	}

	var subs []Subscriber
	if err := json.Unmarshal(trimmed, &subs); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", op, err)
	}
	return subs, nil
}

// listPayload accepts either a bare JSON array or an object wrapping the
// array under the given key, and returns the array bytes.
func listPayload(data []byte, key string) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, false
	}
	if trimmed[0] == '[' {
		return trimmed, true
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, false
	}
	if raw, ok := wrapper[key]; ok {
		return raw, true
	}
	return nil, false
}
