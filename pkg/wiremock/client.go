// Package wiremock is a client for the WireMock admin API, used to prime the
// mock backend with stub mappings before each test case.
package wiremock

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
	"github.com/devicelab-dev/mobile-login-tests/pkg/logger"
)

// DefaultTimeout bounds each admin request.
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx admin API response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("wiremock: HTTP %d", e.Status)
	}
	return fmt.Sprintf("wiremock: HTTP %d: %s", e.Status, body)
}

// Client talks to one WireMock instance.
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient creates a client for the WireMock server at baseURL.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	httpClient.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debug("wiremock %s %s -> %d", resp.Request.Method, resp.Request.URL, resp.StatusCode())
		return nil
	})

	return &Client{http: httpClient, baseURL: baseURL}
}

// BaseURL returns the server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Reset removes all stubs and clears the request journal.
func (c *Client) Reset() error {
	_, err := c.do(c.http.R(), "POST", "/__admin/reset")
	return err
}

// ResetMappings restores the stubs loaded from the server's mappings
// directory, dropping any added through the API.
func (c *Client) ResetMappings() error {
	_, err := c.do(c.http.R(), "POST", "/__admin/mappings/reset")
	return err
}

// AddMapping validates and registers a stub mapping. A mapping without an
// id is given one. It returns the mapping id.
func (c *Client) AddMapping(m Mapping) (string, error) {
	doc, err := jsonBytes(m)
	if err != nil {
		return "", err
	}
	if err := Validate(doc); err != nil {
		return "", err
	}
	id := m.ensureID()

	var created Mapping
	if _, err := c.do(c.http.R().SetBody(m).SetResult(&created), "POST", "/__admin/mappings"); err != nil {
		return "", err
	}
	if got := created.ID(); got != "" {
		id = got
	}
	logger.Info("wiremock: added mapping %s %s", id, m.Name())
	return id, nil
}

// LoadMappingFromFile reads, validates and registers the mapping in path.
func (c *Client) LoadMappingFromFile(path string) (string, error) {
	m, err := ReadMappingFile(path)
	if err != nil {
		return "", err
	}
	id, err := c.AddMapping(m)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", path, err)
	}
	return id, nil
}

type mappingList struct {
	Mappings []Mapping `json:"mappings"`
}

// Mappings lists the registered stub mappings.
func (c *Client) Mappings() ([]Mapping, error) {
	var list mappingList
	if _, err := c.do(c.http.R().SetResult(&list), "GET", "/__admin/mappings"); err != nil {
		return nil, err
	}
	return list.Mappings, nil
}

// DeleteMapping removes the stub mapping with the given id.
func (c *Client) DeleteMapping(id string) error {
	_, err := c.do(c.http.R().SetPathParam("id", id), "DELETE", "/__admin/mappings/{id}")
	return err
}

// CountRequests returns how many journaled requests match pattern, e.g.
// {"method": "POST", "url": "/api/login"}.
func (c *Client) CountRequests(pattern map[string]interface{}) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if _, err := c.do(c.http.R().SetBody(pattern).SetResult(&out), "POST", "/__admin/requests/count"); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Ping checks the admin API is reachable.
func (c *Client) Ping() error {
	_, err := c.do(c.http.R().SetQueryParam("limit", "1"), "GET", "/__admin/mappings")
	return err
}

func (c *Client) do(req *resty.Request, method, path string) (*resty.Response, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, core.ErrServerUnreachable.
			WithMessage(fmt.Sprintf("wiremock %s %s", method, path)).
			WithDetails(map[string]interface{}{"url": c.baseURL}).
			WithCause(err)
	}
	if resp.IsError() {
		return resp, &APIError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	return resp, nil
}
