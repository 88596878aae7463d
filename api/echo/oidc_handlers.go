package sssoecho

import (
	"net/http"

	"github.com/labstack/echo/v4"

	ssso "github.com/delbertbeta/s-sso"
	serrors "github.com/delbertbeta/s-sso/errors"
)

// AuthorizeHandler mints an authorization code for the logged-in user and
// redirects back to the client.
func (a *API) AuthorizeHandler(c echo.Context) error {
	userID, err := a.currentUserID(c)
	if err != nil {
		return a.oauthFail(c, err)
	}

	var req ssso.AuthorizeRequest
	if err := c.Bind(&req); err != nil {
		return a.oauthFail(c, serrors.NewInvalidRequest("malformed query"))
	}

	redirect, err := a.svc.Authorize.Authorize(c.Request().Context(), req, userID)
	if err != nil {
		return a.oauthFail(c, err)
	}
	return c.Redirect(http.StatusFound, redirect)
}

// TokenHandler redeems an authorization code. The body is form encoded.
func (a *API) TokenHandler(c echo.Context) error {
	req := ssso.TokenRequest{
		GrantType:    c.FormValue("grant_type"),
		Code:         c.FormValue("code"),
		RedirectURI:  c.FormValue("redirect_uri"),
		ClientID:     c.FormValue("client_id"),
		ClientSecret: c.FormValue("client_secret"),
	}

	resp, err := a.svc.Tokens.Exchange(c.Request().Context(), req)
	if err != nil {
		return a.oauthFail(c, err)
	}

	c.Response().Header().Set("Cache-Control", "no-store")
	return c.JSON(http.StatusOK, resp)
}

func (a *API) UserInfoHandler(c echo.Context) error {
	info, err := a.svc.UserInfo.Resolve(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return a.oauthFail(c, err)
	}
	return c.JSON(http.StatusOK, info)
}

func (a *API) JWKSHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, a.svc.JWKS.GetJWKS())
}

func (a *API) OpenIDConfigurationHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, a.discovery)
}
