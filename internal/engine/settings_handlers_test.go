package engine

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamweld/streamweld/internal/config"
)

func newSettingsTestServer() *Server {
	cfg := &config.Config{ListenAddr: ":8085", DefaultMasterAddr: "master:8080"}
	return NewServer(NewEngine(cfg))
}

func TestGetSettings(t *testing.T) {
	server := newSettingsTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var settings map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, ":8085", settings["server.port"])
	assert.Equal(t, "master:8080", settings["mq.master_addr"])
}

func TestUpdateSettingsFlagsRestartKeys(t *testing.T) {
	server := newSettingsTestServer()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings",
		strings.NewReader(`{"mq.master_addr":"other:8080"}`))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Settings        map[string]string `json:"settings"`
		RequiresRestart bool              `json:"requires_restart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.RequiresRestart)
	assert.Equal(t, "other:8080", resp.Settings["mq.master_addr"])

	// Non-restart key change
	req = httptest.NewRequest(http.MethodPut, "/api/v1/settings",
		strings.NewReader(`{"sink.dial_timeout":"5s"}`))
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.RequiresRestart)
}
