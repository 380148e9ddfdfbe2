package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sjlee-dev/newsdesk/internal/apperr"
	"github.com/sjlee-dev/newsdesk/internal/scoring"
	"github.com/sjlee-dev/newsdesk/internal/storage/inmem"
	"github.com/sjlee-dev/newsdesk/internal/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type koProvider struct{}

func (koProvider) Name() string       { return "fake" }
func (koProvider) IsConfigured() bool { return true }
func (koProvider) Translate(ctx context.Context, texts []string, targetLang string) ([]translate.Output, error) {
	out := make([]translate.Output, len(texts))
	for i, t := range texts {
		out[i] = translate.Output{Translated: "[" + targetLang + "]" + t, SourceLang: "en"}
	}
	return out, nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	return e
}

func doJSON(e *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTranslateHandler(t *testing.T) {
	e := newTestEcho()
	translator := translate.NewTranslator([]translate.Provider{koProvider{}}, inmem.NewTranslationCacheStore())
	NewTranslateRouter(e, translator).Bind()

	rec := doJSON(e, http.MethodPost, "/translate", `{"texts":["hello","안녕"],"targetLang":"ko"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []translate.Result `json:"results"`
		Stats   struct {
			Total      int `json:"total"`
			Skipped    int `json:"skipped"`
			Translated int `json:"translated"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "[ko]hello", resp.Results[0].Translated)
	assert.Equal(t, translate.StatusSkipped, resp.Results[1].Status)
	assert.Equal(t, 2, resp.Stats.Total)
	assert.Equal(t, 1, resp.Stats.Translated)
	assert.Equal(t, 1, resp.Stats.Skipped)
}

func TestTranslateHandler_Validation(t *testing.T) {
	e := newTestEcho()
	translator := translate.NewTranslator(nil, inmem.NewTranslationCacheStore())
	NewTranslateRouter(e, translator).Bind()

	tests := []struct {
		name string
		body string
	}{
		{"empty texts", `{"texts":[]}`},
		{"too many texts", `{"texts":[` + strings.Repeat(`"x",`, 50) + `"x"]}`},
		{"unsupported lang", `{"texts":["x"],"targetLang":"xx"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/translate", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestScoringConfigHandler_GetReturnsDefaults(t *testing.T) {
	e := newTestEcho()
	NewScoringConfigRouter(e, inmem.NewScoringConfigStore()).Bind()

	rec := doJSON(e, http.MethodGet, "/scoring-config", "", map[string]string{"X-User-ID": "u1"})

	require.Equal(t, http.StatusOK, rec.Code)

	var cfg scoring.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, 40.0, cfg.WeightKeyword)
	assert.Equal(t, scoring.Tier1, cfg.SourceTiers["reuters.com"])
}

func TestScoringConfigHandler_PutThenGet(t *testing.T) {
	e := newTestEcho()
	store := inmem.NewScoringConfigStore()
	NewScoringConfigRouter(e, store).Bind()

	body := `{
		"priorityKeywords":[{"term":" FDA ","weight":9}],
		"excludeKeywords":["rumor"],
		"sourceTiers":{"Reuters.com":1},
		"weightKeyword":50,"weightPriority":20,"weightSource":15,"weightRecency":15
	}`
	rec := doJSON(e, http.MethodPut, "/scoring-config", body, map[string]string{"X-User-ID": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/scoring-config", "", map[string]string{"X-User-ID": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg scoring.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	// Sanitized on the way in: trimmed term, weight clamped, domain lowered.
	require.Len(t, cfg.PriorityKeywords, 1)
	assert.Equal(t, scoring.PriorityKeyword{Term: "FDA", Weight: 5}, cfg.PriorityKeywords[0])
	assert.Equal(t, scoring.Tier1, cfg.SourceTiers["reuters.com"])
	assert.Equal(t, 50.0, cfg.WeightKeyword)
}

func TestScoringConfigHandler_RejectsBadWeights(t *testing.T) {
	e := newTestEcho()
	NewScoringConfigRouter(e, inmem.NewScoringConfigStore()).Bind()

	rec := doJSON(e, http.MethodPut, "/scoring-config", `{"weightKeyword":150}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoringConfigHandler_TenantsIsolated(t *testing.T) {
	e := newTestEcho()
	NewScoringConfigRouter(e, inmem.NewScoringConfigStore()).Bind()

	body := `{"weightKeyword":10,"weightPriority":30,"weightSource":30,"weightRecency":30}`
	rec := doJSON(e, http.MethodPut, "/scoring-config", body, map[string]string{"X-User-ID": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/scoring-config", "", map[string]string{"X-User-ID": "u2"})
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg scoring.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, 40.0, cfg.WeightKeyword, "another tenant still sees defaults")
}
