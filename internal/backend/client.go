// internal/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// NotFoundError is returned for 404s, e.g. an unknown building id.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found (404): %s", e.Message)
}

// ConflictError is returned for 409s, e.g. completing an agenda item the
// backend no longer considers in progress.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict (409): %s", e.Message)
}

// Client manages communication with the hub backend's REST API.
type Client struct {
	BaseURL    *url.URL
	APIToken   string
	HTTPClient *http.Client
}

// NewClient initializes a hub backend client. apiToken may be empty for
// deployments where the public-info endpoints are unauthenticated.
func NewClient(baseURL, apiToken string) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}
	return &Client{
		BaseURL:    parsed,
		APIToken:   apiToken,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// doRequest builds, executes and parses one HTTP request. There is no
// client-side retry: the poll loop owns the retry cadence.
func (c *Client) doRequest(ctx context.Context, method, reqPath string, query url.Values, body any, out any) error {
	u := *c.BaseURL
	u.Path = path.Join(c.BaseURL.Path, reqPath)
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleHTTPError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// handleHTTPError parses a 4xx/5xx body and maps it onto an error.
// Django-style backends answer with either {"error": ...} or
// {"detail": ...}.
func (c *Client) handleHTTPError(resp *http.Response) error {
	status := resp.StatusCode
	bodyBytes, _ := io.ReadAll(resp.Body)

	var apiErr struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	msg := strings.TrimSpace(string(bodyBytes))
	if err := json.Unmarshal(bodyBytes, &apiErr); err == nil {
		if apiErr.Error != "" {
			msg = apiErr.Error
		} else if apiErr.Detail != "" {
			msg = apiErr.Detail
		}
	}

	switch status {
	case 400:
		return fmt.Errorf("bad request (400): %s", msg)
	case 401:
		return fmt.Errorf("unauthorized (401): %s", msg)
	case 403:
		return fmt.Errorf("forbidden (403): %s", msg)
	case 404:
		return &NotFoundError{Message: msg}
	case 409:
		return &ConflictError{Message: msg}
	default:
		return fmt.Errorf("http error (%d): %s", status, msg)
	}
}

// GetPublicInfo fetches the consolidated public-info aggregate for one
// building, scoped to the given financial month ("2006-01").
func (c *Client) GetPublicInfo(ctx context.Context, buildingID, month string) (*PublicInfoPayload, error) {
	query := url.Values{}
	if month != "" {
		query.Set("month", month)
	}
	var payload PublicInfoPayload
	endpoint := "api/public-info/" + buildingID
	if err := c.doRequest(ctx, http.MethodGet, endpoint, query, nil, &payload); err != nil {
		return nil, fmt.Errorf("GetPublicInfo error: %w", err)
	}
	return &payload, nil
}

// ListRecentAnnouncements hits the generic announcements listing, newest
// first, scoped to a building. It tolerates both the bare-array and the
// paginated envelope response shape.
func (c *Client) ListRecentAnnouncements(ctx context.Context, buildingID string, pageSize int) ([]RawAnnouncement, error) {
	query := url.Values{}
	query.Set("building", buildingID)
	query.Set("page_size", strconv.Itoa(pageSize))
	query.Set("ordering", "-created_at")

	var listing AnnouncementListing
	if err := c.doRequest(ctx, http.MethodGet, "api/announcements", query, nil, &listing); err != nil {
		return nil, fmt.Errorf("ListRecentAnnouncements error: %w", err)
	}
	return listing.Items, nil
}

// StartAgendaItem asks the backend to move one agenda item into
// progress. The backend remains authoritative; a state the client did
// not expect comes back as a ConflictError.
func (c *Client) StartAgendaItem(ctx context.Context, assemblyID string, order int) error {
	endpoint := fmt.Sprintf("api/assemblies/%s/agenda/%d/start", assemblyID, order)
	if err := c.doRequest(ctx, http.MethodPost, endpoint, nil, nil, nil); err != nil {
		return fmt.Errorf("StartAgendaItem error: %w", err)
	}
	return nil
}

// CompleteAgendaItem closes one agenda item with the operator's
// decision.
func (c *Client) CompleteAgendaItem(ctx context.Context, assemblyID string, order int, decisionType, decision string) error {
	endpoint := fmt.Sprintf("api/assemblies/%s/agenda/%d/complete", assemblyID, order)
	body := map[string]string{
		"decision_type": decisionType,
		"decision":      decision,
	}
	if err := c.doRequest(ctx, http.MethodPost, endpoint, nil, body, nil); err != nil {
		return fmt.Errorf("CompleteAgendaItem error: %w", err)
	}
	return nil
}

// EndAssembly closes the whole assembly.
func (c *Client) EndAssembly(ctx context.Context, assemblyID string) error {
	endpoint := fmt.Sprintf("api/assemblies/%s/end", assemblyID)
	if err := c.doRequest(ctx, http.MethodPost, endpoint, nil, nil, nil); err != nil {
		return fmt.Errorf("EndAssembly error: %w", err)
	}
	return nil
}
