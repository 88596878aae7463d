package sssoecho

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	serrors "github.com/delbertbeta/s-sso/errors"
)

// AuthUserIDKey is the echo context key holding the logged-in user's id.
const AuthUserIDKey = "auth-user-id"

type cookieConfig struct {
	name   string
	secure bool
	maxAge time.Duration
}

func (cc cookieConfig) session(handle string) *http.Cookie {
	return &http.Cookie{
		Name:     cc.name,
		Value:    handle,
		Path:     "/",
		MaxAge:   int(cc.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   cc.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (cc cookieConfig) expired() *http.Cookie {
	c := cc.session("")
	c.MaxAge = -1
	return c
}

// sessionHandle returns the session cookie value, or "" without one.
func (a *API) sessionHandle(c echo.Context) string {
	cookie, err := c.Cookie(a.cookie.name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// currentUserID resolves the session cookie. No cookie or an unknown
// session yields LoginRequired.
func (a *API) currentUserID(c echo.Context) (uint64, error) {
	handle := a.sessionHandle(c)
	if handle == "" {
		return 0, serrors.ErrLoginRequired
	}
	return a.svc.Logins.CurrentUserID(c.Request().Context(), handle)
}

// RequireLogin rejects requests without a valid login session and stores the
// user id under AuthUserIDKey.
func (a *API) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := a.currentUserID(c)
		if err != nil {
			return a.fail(c, err)
		}
		c.Set(AuthUserIDKey, userID)
		return next(c)
	}
}

func authUserID(c echo.Context) uint64 {
	id, _ := c.Get(AuthUserIDKey).(uint64)
	return id
}
