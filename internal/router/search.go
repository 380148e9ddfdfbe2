// Package router binds the HTTP surface onto the application services.
// Handlers stay thin: parse, delegate, shape the response. Errors flow to
// the global error handler.
package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sjlee-dev/newsdesk/internal/search"
)

// userIDHeader carries the tenant identifier. There is no auth layer; the
// caller in front of this service is trusted to set it.
const userIDHeader = "X-User-ID"

type SearchRouter struct {
	e   *echo.Echo
	svc *search.Service
}

func NewSearchRouter(e *echo.Echo, svc *search.Service) *SearchRouter {
	return &SearchRouter{
		e:   e,
		svc: svc,
	}
}

func (r *SearchRouter) Bind() {
	r.e.GET("/search", r.searchHandler)
}

func (r *SearchRouter) searchHandler(c echo.Context) error {
	req := search.Request{
		UserID:    c.Request().Header.Get(userIDHeader),
		Query:     c.QueryParam("query"),
		Country:   c.QueryParam("country"),
		Language:  c.QueryParam("language"),
		DateRange: c.QueryParam("dateRange"),
	}

	if start := c.QueryParam("start"); start != "" {
		n, err := strconv.Atoi(start)
		if err == nil && n > 0 {
			req.Start = n
		}
	}

	if ids := c.QueryParam("categoryIds"); ids != "" {
		for _, id := range strings.Split(ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.CategoryIDs = append(req.CategoryIDs, id)
			}
		}
	}

	resp, err := r.svc.Search(c.Request().Context(), req)
	if err != nil {
		return err
	}

	if resp.Cached {
		c.Response().Header().Set("X-Cache", "HIT")
		c.Response().Header().Set("X-Cache-Age", strconv.Itoa(int(resp.CacheAge.Seconds())))
	} else {
		c.Response().Header().Set("X-Cache", "MISS")
	}

	return c.JSON(http.StatusOK, resp)
}
