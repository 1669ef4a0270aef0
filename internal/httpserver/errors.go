package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ordermanagement/internal/apperr"
	"github.com/Skotchmaster/ordermanagement/internal/service"
	"github.com/Skotchmaster/ordermanagement/internal/transport"
	"github.com/Skotchmaster/ordermanagement/pkg/logging"
)

const validationTitle = "One or more validation errors occurred."

// writeError is the single place where domain errors become HTTP responses.
func writeError(c echo.Context, err error) error {
	l := logging.FromContext(c.Request().Context())

	var vf *apperr.ValidationFailure
	var he *echo.HTTPError
	switch {
	case errors.As(err, &vf):
		l.Warn("validation_failed", "entity", vf.Entity, "id", vf.ID, "fields", vf.Errors.Fields())
		return c.JSON(http.StatusBadRequest, transport.ValidationProblem{
			Title:     validationTitle,
			Status:    http.StatusBadRequest,
			EntityKey: vf.ID,
			Errors:    vf.Errors,
		})
	case errors.Is(err, apperr.ErrNotFound):
		l.Warn("entity_not_found", "error", err)
		return c.JSON(http.StatusNotFound, transport.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrInvalidCredentials),
		errors.Is(err, apperr.ErrTokenInvalid),
		errors.Is(err, apperr.ErrTokenNotFound):
		l.Warn("unauthorized", "error", err)
		return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrArgumentNull):
		l.Warn("bad_request", "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrSearchUnavailable):
		l.Error("search_unavailable", "error", err)
		return c.JSON(http.StatusServiceUnavailable, transport.ErrorResponse{Message: service.ErrSearchUnavailable.Error()})
	case errors.As(err, &he):
		return c.JSON(he.Code, transport.ErrorResponse{Message: httpMessage(he)})
	default:
		l.Error("internal_error", "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Message: err.Error()})
	}
}

func httpMessage(he *echo.HTTPError) string {
	if s, ok := he.Message.(string); ok {
		return s
	}
	return http.StatusText(he.Code)
}

// ErrorHandler is installed as echo's HTTPErrorHandler so errors returned by
// middleware get the same body shape as handler errors.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if werr := writeError(c, err); werr != nil {
		c.Logger().Error(werr)
	}
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}
