package client

// http_client.go = plain HTTP calls against the GeoRush status endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"georush/internal/microservices/http-api/dto"
)

type HTTPClient struct {
	baseURL    string
	origin     string
	httpClient *http.Client
}

func NewHTTPClient(apiURL, origin string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		origin:  origin,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// StatusResult is one endpoint's answer plus the CORS grant the server returned for our origin
type StatusResult struct {
	Path        string
	StatusCode  int
	Message     string
	AllowOrigin string
}

// GetStatus calls a fixed JSON endpoint such as "/" or "/api/test"
func (c *HTTPClient) GetStatus(path string) (*StatusResult, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer response.Body.Close()

	result := &StatusResult{
		Path:        path,
		StatusCode:  response.StatusCode,
		AllowOrigin: response.Header.Get("Access-Control-Allow-Origin"),
	}
	if response.StatusCode != http.StatusOK {
		return result, fmt.Errorf("GET %s: unexpected status %d", path, response.StatusCode)
	}

	var body dto.MessageResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return result, fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	result.Message = body.Message
	return result, nil
}
