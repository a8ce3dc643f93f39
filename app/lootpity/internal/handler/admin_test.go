package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	snaps map[string]*dao.LootSnapshot
	err   error
}

func (r *fakeReader) Load(_ context.Context, profileID string) (*dao.LootSnapshot, error) {
	if r.err != nil {
		return nil, r.err
	}
	snap, ok := r.snaps[profileID]
	if !ok {
		return nil, errors.Wrapf(dao.ErrSnapshotNotFound, "profile %s", profileID)
	}
	return snap, nil
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newAdminRouter(t *testing.T, job *Job, reader SnapshotReader) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAdminHandler(job, reader, nil).Register(r)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string) (int, apiResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func TestAdminPasses(t *testing.T) {
	job := newTestJob(t, newFakeData(), nil, nil)
	r := newAdminRouter(t, job, nil)

	status, _ := doRequest(t, r, http.MethodGet, "/api/v1/passes/last")
	assert.Equal(t, http.StatusNotFound, status)

	status, resp := doRequest(t, r, http.MethodPost, "/api/v1/passes")
	require.Equal(t, http.StatusOK, status)
	var summary PassSummary
	require.NoError(t, json.Unmarshal(resp.Data, &summary))
	assert.Equal(t, 2, summary.Succeeded)
	assert.NotZero(t, summary.ID)

	status, resp = doRequest(t, r, http.MethodGet, "/api/v1/passes/last")
	require.Equal(t, http.StatusOK, status)
	var last PassSummary
	require.NoError(t, json.Unmarshal(resp.Data, &last))
	assert.Equal(t, summary.ID, last.ID)
}

func TestAdminTriggerWhileRunning(t *testing.T) {
	job := newTestJob(t, newFakeData(), nil, nil)
	r := newAdminRouter(t, job, nil)

	job.passMu.Lock()
	status, resp := doRequest(t, r, http.MethodPost, "/api/v1/passes")
	job.passMu.Unlock()

	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, resp.Message, "already running")
}

func TestAdminPityConfig(t *testing.T) {
	job := newTestJob(t, newFakeData(), nil, nil)
	r := newAdminRouter(t, job, nil)

	status, resp := doRequest(t, r, http.MethodGet, "/api/v1/pity/config")
	require.Equal(t, http.StatusOK, status)

	var cfg map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &cfg))
	assert.Equal(t, "raid", cfg["drop_rate_increase_type"])
	assert.Equal(t, 5.0, cfg["max_drop_rate_multiplier"])
}

func TestAdminSnapshot(t *testing.T) {
	reader := &fakeReader{snaps: map[string]*dao.LootSnapshot{
		"pmc1": {ProfileID: "pmc1", PassID: 7},
	}}
	job := newTestJob(t, newFakeData(), nil, nil)
	r := newAdminRouter(t, job, reader)

	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"found", "/api/v1/snapshots/pmc1", nil, http.StatusOK},
		{"missing", "/api/v1/snapshots/nobody", nil, http.StatusNotFound},
		{"store error", "/api/v1/snapshots/pmc1", errors.New("redis down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader.err = tt.err
			status, resp := doRequest(t, r, http.MethodGet, tt.path)
			assert.Equal(t, tt.status, status)
			if tt.status == http.StatusOK {
				var snap dao.LootSnapshot
				require.NoError(t, json.Unmarshal(resp.Data, &snap))
				assert.Equal(t, "pmc1", snap.ProfileID)
				assert.Equal(t, int64(7), snap.PassID)
			}
		})
	}
}

func TestAdminSnapshotRouteDisabled(t *testing.T) {
	job := newTestJob(t, newFakeData(), nil, nil)
	r := newAdminRouter(t, job, nil)

	status, _ := doRequest(t, r, http.MethodGet, "/api/v1/snapshots/pmc1")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, status)
}

func TestAdminVersion(t *testing.T) {
	job := newTestJob(t, newFakeData(), nil, nil)
	r := newAdminRouter(t, job, nil)

	status, resp := doRequest(t, r, http.MethodGet, "/api/v1/version")
	require.Equal(t, http.StatusOK, status)

	var info struct {
		AppName   string `json:"app_name"`
		GoVersion string `json:"go_version"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &info))
	assert.Equal(t, "lootpity", info.AppName)
	assert.NotEmpty(t, info.GoVersion)
}
