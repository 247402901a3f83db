package client

// http_client.go = admin API client used by the tastingctl commands.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blindtasting/internal/microservices/http-api/dto"
	"blindtasting/internal/report"
)

const adminSecretHeader = "X-Admin-Secret"

type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	adminSecret string
}

func NewHTTPClient(apiURL, adminSecret string) *HTTPClient {
	return &HTTPClient{
		baseURL:     strings.TrimRight(apiURL, "/"),
		adminSecret: adminSecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

func (c *HTTPClient) CreateTasting(request *dto.CreateTastingRequest) (*dto.TastingResponse, error) {
	var result dto.TastingResponse
	if err := c.do(http.MethodPost, "/api/admin/tastings", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListTastings(page, pageSize int) (*dto.PaginatedTastingResponse, error) {
	path := fmt.Sprintf("/api/admin/tastings?page=%d&page_size=%d", page, pageSize)
	var result dto.PaginatedTastingResponse
	if err := c.do(http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) SetStatus(slug, status string) (*dto.TastingResponse, error) {
	var result dto.TastingResponse
	err := c.do(http.MethodPatch, "/api/admin/tastings/"+url.PathEscape(slug)+"/status",
		dto.UpdateStatusRequest{Status: status}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Report fetches the live admin report, ranked by weighted criteria when
// weighted is set.
func (c *HTTPClient) Report(slug string, weighted bool) (*report.View, error) {
	path := "/api/admin/tastings/" + url.PathEscape(slug) + "/report"
	if weighted {
		path = "/api/admin/tastings/" + url.PathEscape(slug) + "/ranking/weighted"
	}
	var result report.View
	if err := c.do(http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(adminSecretHeader, c.adminSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
