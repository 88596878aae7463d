package sssoecho

import (
	"github.com/labstack/echo/v4"

	ssso "github.com/delbertbeta/s-sso"
)

// KeyExchangeHandler issues a fresh RSA public key for password transport.
func (a *API) KeyExchangeHandler(c echo.Context) error {
	resp, err := a.svc.Keys.BeginExchange(c.Request().Context())
	if err != nil {
		return a.fail(c, err)
	}
	return ok(c, resp)
}

func (a *API) RegisterHandler(c echo.Context) error {
	var req ssso.RegisterRequest
	if err := bind(c, &req); err != nil {
		return a.fail(c, err)
	}

	user, err := a.svc.Logins.Register(c.Request().Context(), req)
	if err != nil {
		return a.fail(c, err)
	}
	return ok(c, echo.Map{"id": user.ID, "username": user.Username})
}

// LoginHandler checks the credentials and sets the session cookie.
func (a *API) LoginHandler(c echo.Context) error {
	var req ssso.LoginRequest
	if err := bind(c, &req); err != nil {
		return a.fail(c, err)
	}

	result, err := a.svc.Logins.Login(c.Request().Context(), req)
	if err != nil {
		return a.fail(c, err)
	}

	c.SetCookie(a.cookie.session(result.Handle))
	return ok(c, echo.Map{"id": result.User.ID, "username": result.User.Username})
}

// LogoutHandler destroys the session and clears the cookie.
func (a *API) LogoutHandler(c echo.Context) error {
	if err := a.svc.Logins.Logout(c.Request().Context(), a.sessionHandle(c)); err != nil {
		return a.fail(c, err)
	}

	c.SetCookie(a.cookie.expired())
	return ok(c, nil)
}
