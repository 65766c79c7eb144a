package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostbay/panelgate/internal/accesskey"
	"github.com/hostbay/panelgate/internal/api/http/dto"
	"github.com/hostbay/panelgate/internal/observability"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeKeyStore struct {
	keys map[string]*accesskey.Key
}

func (s *fakeKeyStore) FindByKey(_ context.Context, key string) (*accesskey.Key, error) {
	k, ok := s.keys[key]
	if !ok {
		return nil, accesskey.ErrKeyNotFound
	}
	copied := *k
	return &copied, nil
}

func (s *fakeKeyStore) ClearBan(_ context.Context, key string) error {
	if k, ok := s.keys[key]; ok {
		k.IsBanned = false
		k.Ban = nil
	}
	return nil
}

func (s *fakeKeyStore) IncrementUsage(_ context.Context, key string) (int64, error) {
	k, ok := s.keys[key]
	if !ok || !k.IsActive || k.IsBanned {
		return 0, accesskey.ErrKeyInactive
	}
	k.UsageCount++
	return k.UsageCount, nil
}

func setupAccessKeyRouter(store *fakeKeyStore) *gin.Engine {
	h := NewAccessKeyHandler(accesskey.NewService(store), observability.NewMetrics())
	r := gin.New()
	r.GET("/api/check-access-key", h.Check)
	return r
}

func checkKey(t *testing.T, r *gin.Engine, query string) (*httptest.ResponseRecorder, dto.CheckAccessKeyResponse) {
	t.Helper()
	req, _ := http.NewRequest("GET", "/api/check-access-key"+query, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.CheckAccessKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestCheckAccessKeyMissing(t *testing.T) {
	r := setupAccessKeyRouter(&fakeKeyStore{keys: map[string]*accesskey.Key{}})

	w, resp := checkKey(t, r, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", resp.Status)
}

func TestCheckAccessKeyNotFound(t *testing.T) {
	r := setupAccessKeyRouter(&fakeKeyStore{keys: map[string]*accesskey.Key{}})

	w, resp := checkKey(t, r, "?accessKey=K-missing")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "not-found", resp.Status)
}

func TestCheckAccessKeyActive(t *testing.T) {
	store := &fakeKeyStore{keys: map[string]*accesskey.Key{
		"K1": {Key: "K1", IsActive: true, Restriction: accesskey.RestrictionBoth},
	}}
	r := setupAccessKeyRouter(store)

	w, resp := checkKey(t, r, "?accessKey=K1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "active", resp.Status)
	assert.Contains(t, resp.Message, "both")
}

func TestCheckAccessKeyBanned(t *testing.T) {
	store := &fakeKeyStore{keys: map[string]*accesskey.Key{
		"K1": {Key: "K1", IsActive: true, IsBanned: true, Ban: &accesskey.BanDetails{Permanent: true}},
	}}
	r := setupAccessKeyRouter(store)

	w, resp := checkKey(t, r, "?accessKey=K1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "banned", resp.Status)
}

func TestCheckAccessKeyExpiredBanBecomesActive(t *testing.T) {
	store := &fakeKeyStore{keys: map[string]*accesskey.Key{
		"K1": {Key: "K1", IsActive: true, IsBanned: true, Restriction: accesskey.RestrictionBoth,
			Ban: &accesskey.BanDetails{ExpiresAt: time.Now().Add(-time.Minute)}},
	}}
	r := setupAccessKeyRouter(store)

	w, resp := checkKey(t, r, "?accessKey=K1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "active", resp.Status)
	assert.False(t, store.keys["K1"].IsBanned)
}
