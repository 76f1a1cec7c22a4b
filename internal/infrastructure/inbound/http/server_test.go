package http_server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	content_service "content-service/internal/application/service/content"
	http_server "content-service/internal/infrastructure/inbound/http"
	content_http "content-service/internal/infrastructure/inbound/http/content"
	"content-service/internal/infrastructure/logger"
	"content-service/internal/infrastructure/outbound/metrics/prometheus"
	"content-service/internal/infrastructure/outbound/repository/memory"
)

func newTestRouter() http.Handler {
	log := logger.New("test")
	metrics := prometheus.NewPrometheusMetricsProvider()
	store := memory.NewStore(4, 100*time.Millisecond, log)
	service := content_service.NewContentService(memory.NewUnitOfWork(store), log, metrics)
	return http_server.NewRouter(service, validator.New(), log, metrics, []string{"https://app.example.com"})
}

func post(t *testing.T, h http.Handler, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, &buf))
	return rec
}

func TestRouter_CreateAndList(t *testing.T) {
	router := newTestRouter()

	rec := post(t, router, "/users", map[string]any{"username": "carol", "first_name": "Carol"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var user content_http.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))

	rec = post(t, router, "/posts", map[string]any{
		"created_by": user.ID,
		"title":      "Hello World",
		"body":       "unrelated",
		"tags":       []string{"a", "b", "a"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts?search=HELLO", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list content_http.ListPostsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Records, 1)
	assert.Equal(t, []string{"a", "b"}, list.Records[0].Tags)
	assert.Equal(t, user.ID, *list.Records[0].CreatedBy)
	assert.Equal(t, 1, list.Meta.TotalDocs)
	assert.Equal(t, 1, list.Meta.TotalPages)
}

func TestRouter_UnknownCreatorIsInternalError(t *testing.T) {
	router := newTestRouter()

	rec := post(t, router, "/posts", map[string]any{"created_by": 999, "title": "orphan"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_docs":0`)
}

func TestRouter_ListMaxIntPage(t *testing.T) {
	router := newTestRouter()

	rec := post(t, router, "/posts", map[string]any{"title": "only"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts?page=9223372036854775807&limit=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list content_http.ListPostsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list.Records)
	assert.Equal(t, list.Meta.From-1, list.Meta.To)
	assert.Equal(t, 1, list.Meta.TotalDocs)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/posts", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/posts", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
