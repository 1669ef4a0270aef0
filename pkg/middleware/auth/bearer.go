package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ordermanagement/pkg/logging"
	"github.com/Skotchmaster/ordermanagement/pkg/tokens"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

type BearerMiddleware struct {
	Signer tokens.Signer
}

func NewBearerMiddleware(signer tokens.Signer) *BearerMiddleware {
	return &BearerMiddleware{Signer: signer}
}

// RequireAuth accepts "Authorization: Bearer <jwt>" signed with the shared
// secret for the configured issuer and audience.
func (m *BearerMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		claims, err := m.Signer.Parse(raw)
		if err != nil {
			msg := "invalid access token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "access token expired"
			}
			return echo.NewHTTPError(http.StatusUnauthorized, msg)
		}

		setUserContext(c, claims)
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(ContextUserID, claims.UID)
	c.Set(ContextUsername, claims.UniqueName)

	req := c.Request()
	l := logging.FromContext(req.Context()).With("user_id", claims.UID)
	c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
}

// UserID returns the id of the authenticated caller.
func UserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(ContextUserID).(int64)
	return id, ok
}
