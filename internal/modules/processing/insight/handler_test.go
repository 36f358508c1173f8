package insight

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/modassist/core/internal/middleware"
	"github.com/modassist/core/internal/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.RequestID())
	router.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	router.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c) })

	api := router.Group("/api/v2")
	NewHandler(svc.cfg, zap.NewNop(), svc).RegisterRoutes(api)
	return router
}

func postComment(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeCommentSuccess(t *testing.T) {
	client := &fakeClient{responses: []string{cleanAnalysisJSON(t)}}
	router := testRouter(t, testService(testConfig(), client))

	rec := postComment(router, "/api/v2/insight/comment", `{"text": "What a nice sunny day."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Output string `json:"output"`
		Meta   struct {
			Model     string   `json:"model"`
			Category  string   `json:"category"`
			RequestID string   `json:"request_id"`
			Attempts  int      `json:"attempts"`
			Warnings  []string `json:"warnings"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Contains(t, body.Output, headingRiskTriage)
	assert.Equal(t, "test-model", body.Meta.Model)
	assert.Equal(t, string(CategoryOther), body.Meta.Category)
	assert.NotEmpty(t, body.Meta.RequestID)
	assert.Equal(t, 1, body.Meta.Attempts)
	assert.Empty(t, body.Meta.Warnings)
}

func TestAnalyzeCommentFieldAliases(t *testing.T) {
	for _, body := range []string{
		`{"comment": "What a nice sunny day."}`,
		`{"Comment": "What a nice sunny day."}`,
		`{"kommentar": "What a nice sunny day."}`,
	} {
		client := &fakeClient{responses: []string{cleanAnalysisJSON(t)}}
		router := testRouter(t, testService(testConfig(), client))

		rec := postComment(router, "/api/v2/insight/comment", body)
		assert.Equal(t, http.StatusOK, rec.Code, body)
		assert.Equal(t, 1, client.calls, body)
	}
}

func TestAnalyzeCommentRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty text", body: `{"text": "   "}`},
		{name: "missing text", body: `{}`},
		{name: "invalid json", body: `{not json`},
		{name: "over length", body: `{"text": "` + strings.Repeat("a", 50) + `"}`},
		{name: "credential", body: `{"text": "my password=hunter2 leaked"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.MaxInputChars = 40
			client := &fakeClient{responses: []string{cleanAnalysisJSON(t)}}
			router := testRouter(t, testService(cfg, client))

			rec := postComment(router, "/api/v2/insight/comment", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])

			// Rejected input never reaches the generator.
			assert.Equal(t, 0, client.calls)
		})
	}
}

func TestAnalyzeCommentMethodNotAllowed(t *testing.T) {
	client := &fakeClient{responses: []string{cleanAnalysisJSON(t)}}
	router := testRouter(t, testService(testConfig(), client))

	req := httptest.NewRequest(http.MethodGet, "/api/v2/insight/comment", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, 0, client.calls)
}

func TestAnalyzeCommentProviderErrors(t *testing.T) {
	t.Run("no provider", func(t *testing.T) {
		router := testRouter(t, testService(testConfig(), nil))
		rec := postComment(router, "/api/v2/insight/comment", `{"text": "What a nice sunny day."}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "credentials")
	})

	t.Run("generation failure", func(t *testing.T) {
		client := &fakeClient{err: assert.AnError}
		router := testRouter(t, testService(testConfig(), client))
		rec := postComment(router, "/api/v2/insight/comment", `{"text": "What a nice sunny day."}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		// Provider internals stay out of the response body.
		assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	})

	t.Run("missing knowledge base", func(t *testing.T) {
		cfg := testConfig()
		cfg.RetrievalTopK = 4
		client := &fakeClient{responses: []string{cleanAnalysisJSON(t)}}
		router := testRouter(t, testService(cfg, client))
		rec := postComment(router, "/api/v2/insight/comment", `{"text": "What a nice sunny day."}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "knowledge")
	})
}

func TestPreviewComment(t *testing.T) {
	client := &fakeClient{responses: []string{cleanAnalysisJSON(t)}}
	router := testRouter(t, testService(testConfig(), client))

	rec := postComment(router, "/api/v2/insight/comment/preview", `{"text": "What a nice sunny day."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Output string `json:"output"`
		HTML   string `json:"html"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Output, headingRiskTriage)
	assert.Contains(t, body.HTML, "<h2")
}
