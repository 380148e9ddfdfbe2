package router

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sjlee-dev/newsdesk/internal/apperr"
	"github.com/sjlee-dev/newsdesk/internal/scoring"
)

type ScoringConfigRouter struct {
	e     *echo.Echo
	store scoring.Store
}

func NewScoringConfigRouter(e *echo.Echo, store scoring.Store) *ScoringConfigRouter {
	return &ScoringConfigRouter{
		e:     e,
		store: store,
	}
}

func (r *ScoringConfigRouter) Bind() {
	r.e.GET("/scoring-config", r.getHandler)
	r.e.PUT("/scoring-config", r.putHandler)
}

// getHandler returns the tenant's saved config, or the defaults before the
// first save so the client always renders something editable.
func (r *ScoringConfigRouter) getHandler(c echo.Context) error {
	userID := c.Request().Header.Get(userIDHeader)

	cfg, err := r.store.GetConfig(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if cfg == nil {
		def := scoring.DefaultConfig()
		cfg = &def
	}

	return c.JSON(http.StatusOK, cfg)
}

func (r *ScoringConfigRouter) putHandler(c echo.Context) error {
	userID := c.Request().Header.Get(userIDHeader)

	var cfg scoring.Config
	if err := c.Bind(&cfg); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	if err := validateWeights(cfg); err != nil {
		return err
	}

	cfg = scoring.Sanitize(cfg)

	if err := r.store.UpsertConfig(c.Request().Context(), userID, cfg); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cfg)
}

func validateWeights(cfg scoring.Config) error {
	weights := map[string]float64{
		"weightKeyword":  cfg.WeightKeyword,
		"weightPriority": cfg.WeightPriority,
		"weightSource":   cfg.WeightSource,
		"weightRecency":  cfg.WeightRecency,
	}
	for name, w := range weights {
		if w < 0 || w > 100 {
			return apperr.NewValidation(fmt.Sprintf("%s must be between 0 and 100", name))
		}
	}
	return nil
}
