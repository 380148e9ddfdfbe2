package router

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sjlee-dev/newsdesk/internal/apperr"
	"github.com/sjlee-dev/newsdesk/internal/translate"
)

var supportedTargetLangs = map[string]bool{
	"ko": true,
	"en": true,
	"ja": true,
	"zh": true,
	"de": true,
	"fr": true,
}

type TranslateRouter struct {
	e          *echo.Echo
	translator *translate.Translator
}

func NewTranslateRouter(e *echo.Echo, translator *translate.Translator) *TranslateRouter {
	return &TranslateRouter{
		e:          e,
		translator: translator,
	}
}

func (r *TranslateRouter) Bind() {
	r.e.POST("/translate", r.translateHandler)
}

type translateRequest struct {
	Texts      []string `json:"texts"`
	TargetLang string   `json:"targetLang"`
}

type translateResponse struct {
	Results []translate.Result `json:"results"`
	Stats   translateStats     `json:"stats"`
}

type translateStats struct {
	Total      int `json:"total"`
	Cached     int `json:"cached"`
	Skipped    int `json:"skipped"`
	Translated int `json:"translated"`
	Failed     int `json:"failed"`
}

func (r *TranslateRouter) translateHandler(c echo.Context) error {
	var req translateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	if len(req.Texts) == 0 {
		return apperr.NewValidation("texts must not be empty")
	}
	if len(req.Texts) > translate.MaxTexts {
		return apperr.NewValidation(fmt.Sprintf("texts must hold at most %d entries", translate.MaxTexts))
	}
	if req.TargetLang == "" {
		req.TargetLang = translate.DefaultTargetLang
	}
	if !supportedTargetLangs[req.TargetLang] {
		return apperr.NewValidation(fmt.Sprintf("unsupported target language: %s", req.TargetLang))
	}

	results := r.translator.TranslateBatch(c.Request().Context(), req.Texts, req.TargetLang)

	stats := translateStats{Total: len(results)}
	for _, res := range results {
		switch res.Status {
		case translate.StatusCached:
			stats.Cached++
		case translate.StatusSkipped:
			stats.Skipped++
		case translate.StatusTranslated:
			stats.Translated++
		case translate.StatusFailed:
			stats.Failed++
		}
	}

	return c.JSON(http.StatusOK, translateResponse{
		Results: results,
		Stats:   stats,
	})
}
