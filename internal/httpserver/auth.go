package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ordermanagement/internal/service"
	"github.com/Skotchmaster/ordermanagement/internal/transport"
	"github.com/Skotchmaster/ordermanagement/pkg/logging"
	authmw "github.com/Skotchmaster/ordermanagement/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.sign_in")

	var req transport.SignInRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("sign_in_failed", "status", 400, "reason", "invalid body", "error", err)
		return badRequest("invalid body")
	}

	res, err := h.Svc.SignIn(ctx, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh_token")

	var req transport.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_token_failed", "status", 400, "reason", "invalid body", "error", err)
		return badRequest("invalid body")
	}

	res, err := h.Svc.RefreshToken(ctx, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// SignOut revokes one of the caller's own refresh tokens.
func (h *AuthHTTP) SignOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.sign_out")

	var req transport.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("sign_out_failed", "status", 400, "reason", "invalid body", "error", err)
		return badRequest("invalid body")
	}
	if username, ok := c.Get(authmw.ContextUsername).(string); ok {
		req.Username = username
	}

	if err := h.Svc.SignOut(ctx, req); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}
