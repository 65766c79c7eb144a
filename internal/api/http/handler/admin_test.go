package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostbay/panelgate/internal/api/http/middleware"
)

type fakeMaintenanceWriter struct {
	lastEnabled *bool
}

func (f *fakeMaintenanceWriter) SetMaintenance(_ context.Context, enabled bool) error {
	f.lastEnabled = &enabled
	return nil
}

func setupAdminRouter(writer *fakeMaintenanceWriter, apiKey string) *gin.Engine {
	r := gin.New()
	admin := r.Group("/api/admin", middleware.APIKeyAuth(apiKey))
	admin.PUT("/maintenance", NewAdminHandler(writer).SetMaintenance)
	return r
}

func TestSetMaintenance(t *testing.T) {
	writer := &fakeMaintenanceWriter{}
	r := setupAdminRouter(writer, "admin-secret")

	req, _ := http.NewRequest("PUT", "/api/admin/maintenance", bytes.NewBufferString(`{"enabled":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "admin-secret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, writer.lastEnabled)
	assert.True(t, *writer.lastEnabled)
}

func TestSetMaintenanceDisable(t *testing.T) {
	writer := &fakeMaintenanceWriter{}
	r := setupAdminRouter(writer, "admin-secret")

	req, _ := http.NewRequest("PUT", "/api/admin/maintenance", bytes.NewBufferString(`{"enabled":false}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "admin-secret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, writer.lastEnabled)
	assert.False(t, *writer.lastEnabled)
}

func TestSetMaintenanceMissingBody(t *testing.T) {
	r := setupAdminRouter(&fakeMaintenanceWriter{}, "admin-secret")

	req, _ := http.NewRequest("PUT", "/api/admin/maintenance", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "admin-secret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetMaintenanceMissingAPIKey(t *testing.T) {
	writer := &fakeMaintenanceWriter{}
	r := setupAdminRouter(writer, "admin-secret")

	req, _ := http.NewRequest("PUT", "/api/admin/maintenance", bytes.NewBufferString(`{"enabled":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, writer.lastEnabled)
}

func TestSetMaintenanceWrongAPIKey(t *testing.T) {
	r := setupAdminRouter(&fakeMaintenanceWriter{}, "admin-secret")

	req, _ := http.NewRequest("PUT", "/api/admin/maintenance", bytes.NewBufferString(`{"enabled":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "wrong")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetMaintenanceAPIKeyNotConfigured(t *testing.T) {
	r := setupAdminRouter(&fakeMaintenanceWriter{}, "")

	req, _ := http.NewRequest("PUT", "/api/admin/maintenance", bytes.NewBufferString(`{"enabled":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "anything")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
