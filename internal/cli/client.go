package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vburojevic/editorctl/internal/domain"
)

// controlClient is a thin HTTP client over the control endpoint contract
type controlClient struct {
	endpoint string
	http     *http.Client
}

// newControlClient creates a client for the given base URL. The HTTP
// timeout leaves headroom over the server's 30s refresh timeout so the
// server, not the transport, decides when a refresh has timed out.
func newControlClient(endpoint string) *controlClient {
	return &controlClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: 45 * time.Second},
	}
}

// Refresh triggers a refresh and blocks for the outcome. A 409 from the
// server surfaces as conflict=true with the decoded message.
func (c *controlClient) Refresh() (*domain.RefreshResponse, bool, error) {
	req, err := http.NewRequest(http.MethodPost, c.endpoint+"/refresh", strings.NewReader(""))
	if err != nil {
		return nil, false, err
	}
	// The endpoint rejects requests without a Content-Length header
	req.ContentLength = 0

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		var msg domain.MessageResponse
		if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
			return nil, true, err
		}
		return &domain.RefreshResponse{Success: false, Message: msg.Message}, true, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, unexpectedStatus(resp)
	}

	var out domain.RefreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, err
	}
	return &out, false, nil
}

// Status fetches /status
func (c *controlClient) Status() (*domain.StatusResponse, error) {
	var out domain.StatusResponse
	if err := c.get("/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logs fetches up to count recent entries
func (c *controlClient) Logs(count int) (*domain.LogsResponse, error) {
	var out domain.LogsResponse
	if err := c.get(fmt.Sprintf("/logs?count=%d", count), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Errors fetches recent Error/Exception entries
func (c *controlClient) Errors() (*domain.LogsResponse, error) {
	var out domain.LogsResponse
	if err := c.get("/errors", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Clear empties the server's log buffer
func (c *controlClient) Clear() (*domain.MessageResponse, error) {
	resp, err := c.http.Post(c.endpoint+"/clear", "application/json", strings.NewReader(""))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus(resp)
	}
	var out domain.MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *controlClient) get(path string, out any) error {
	resp, err := c.http.Get(c.endpoint + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
