package wiremock

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
	"github.com/devicelab-dev/mobile-login-tests/pkg/wiremock/wiremocktest"
)

func loginStub() Mapping {
	return Mapping{
		"name":     "login_success",
		"request":  map[string]interface{}{"method": "POST", "url": "/api/login"},
		"response": map[string]interface{}{"status": 200},
	}
}

func newTestClient(t *testing.T) (*Client, *wiremocktest.Server) {
	t.Helper()
	srv := wiremocktest.NewServer()
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/"), srv
}

func TestNewClient_TrimsSlash(t *testing.T) {
	c := NewClient("http://localhost:8080/")
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
}

func TestAddMapping_AssignsUUID(t *testing.T) {
	c, srv := newTestClient(t)
	m := loginStub()

	id, err := c.AddMapping(m)
	require.NoError(t, err)

	_, err = uuid.Parse(id)
	assert.NoError(t, err, "generated id should be a UUID")
	assert.Equal(t, id, m.ID())
	require.Len(t, srv.Mappings(), 1)
	assert.Equal(t, id, srv.Mappings()[0]["id"])
}

func TestAddMapping_KeepsExistingID(t *testing.T) {
	c, _ := newTestClient(t)
	m := loginStub()
	m["id"] = "8c5db8b0-2db4-4ad7-a99f-38c9b00da3f7"

	id, err := c.AddMapping(m)
	require.NoError(t, err)
	assert.Equal(t, "8c5db8b0-2db4-4ad7-a99f-38c9b00da3f7", id)
}

func TestAddMapping_RejectsInvalidStub(t *testing.T) {
	c, srv := newTestClient(t)

	_, err := c.AddMapping(Mapping{"request": map[string]interface{}{"url": "/api/login"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
	assert.Contains(t, err.Error(), "response")
	assert.Empty(t, srv.Mappings(), "invalid stubs must not be uploaded")
}

func TestMappingsAndDelete(t *testing.T) {
	c, _ := newTestClient(t)

	id, err := c.AddMapping(loginStub())
	require.NoError(t, err)

	list, err := c.Mappings()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "login_success", list[0].Name())

	require.NoError(t, c.DeleteMapping(id))
	list, err = c.Mappings()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteMapping_NotFound(t *testing.T) {
	c, _ := newTestClient(t)

	err := c.DeleteMapping("does-not-exist")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "mapping not found")
}

func TestReset(t *testing.T) {
	c, srv := newTestClient(t)
	_, err := c.AddMapping(loginStub())
	require.NoError(t, err)

	require.NoError(t, c.Reset())
	assert.Equal(t, 1, srv.Resets())
	assert.Empty(t, srv.Mappings())
}

func TestResetMappings(t *testing.T) {
	c, srv := newTestClient(t)
	_, err := c.AddMapping(loginStub())
	require.NoError(t, err)

	require.NoError(t, c.ResetMappings())
	assert.Empty(t, srv.Mappings())
	assert.Zero(t, srv.Resets())
}

func TestCountRequests(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Record("POST", "/api/login")
	srv.Record("POST", "/api/login")
	srv.Record("GET", "/api/profile")

	n, err := c.CountRequests(map[string]interface{}{"method": "POST", "url": "/api/login"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPing(t *testing.T) {
	c, srv := newTestClient(t)
	require.NoError(t, c.Ping())

	srv.FailWith(http.StatusServiceUnavailable)
	var apiErr *APIError
	require.True(t, errors.As(c.Ping(), &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
}

func TestServerUnreachable(t *testing.T) {
	srv := wiremocktest.NewServer()
	url := srv.URL
	srv.Close()

	err := NewClient(url).Reset()
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrServerUnreachable))
	assert.Equal(t, core.ErrCategoryConnection, core.CategoryOf(err))
}

func TestLoadMappingFromFile(t *testing.T) {
	c, srv := newTestClient(t)

	id, err := c.LoadMappingFromFile(filepath.Join("..", "..", "wiremock", "mappings", "login_success.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, []string{"login_success"}, srv.Names())
}

func TestLoadMappingFromFile_Errors(t *testing.T) {
	c, srv := newTestClient(t)
	dir := t.TempDir()

	_, err := c.LoadMappingFromFile(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, core.ErrMissingRequired))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"request": {"method": "GET"}, "response": {"status": "ok"}}`), 0o644))
	_, err = c.LoadMappingFromFile(bad)
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
	assert.Contains(t, err.Error(), "bad.json")

	assert.Empty(t, srv.Mappings())
}
