package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GlobalErrorHandler maps the error taxonomy onto HTTP responses:
// validation → 400, quota → 429 with Retry-After, auth/upstream → 502.
func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Message, "title": "validation error"})
			return
		}

		var qe *QuotaError
		if errors.As(err, &qe) {
			c.Response().Header().Set("Retry-After", qe.RetryAfter)
			_ = c.JSON(http.StatusTooManyRequests, map[string]string{"error": qe.Message, "code": "QUOTA_EXCEEDED"})
			return
		}

		var ae *AuthError
		if errors.As(err, &ae) {
			_ = c.JSON(http.StatusBadGateway, map[string]string{"error": ae.Message, "code": "AUTH_ERROR", "detail": ae.Reason})
			return
		}

		var ue *UpstreamError
		if errors.As(err, &ue) {
			_ = c.JSON(http.StatusBadGateway, map[string]string{"error": ue.Message, "code": "UPSTREAM_ERROR"})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, map[string]string{"error": msg})
			return
		}

		slog.Error("Unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
