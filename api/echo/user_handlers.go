package sssoecho

import (
	"github.com/labstack/echo/v4"

	ssso "github.com/delbertbeta/s-sso"
)

func (a *API) GetProfileHandler(c echo.Context) error {
	profile, err := a.svc.Users.GetProfile(c.Request().Context(), authUserID(c))
	if err != nil {
		return a.fail(c, err)
	}
	return ok(c, profile)
}

func (a *API) UpdateProfileHandler(c echo.Context) error {
	var patch ssso.ProfilePatch
	if err := bind(c, &patch); err != nil {
		return a.fail(c, err)
	}

	profile, err := a.svc.Users.UpdateProfile(c.Request().Context(), authUserID(c), patch)
	if err != nil {
		return a.fail(c, err)
	}
	return ok(c, profile)
}

type userIDByCookieRequest struct {
	Cookie string `json:"cookie"`
}

// UserIDByCookieHandler lets sibling services resolve a session cookie.
func (a *API) UserIDByCookieHandler(c echo.Context) error {
	var req userIDByCookieRequest
	if err := bind(c, &req); err != nil {
		return a.fail(c, err)
	}

	userID, err := a.svc.Users.GetUserIDByCookie(c.Request().Context(), req.Cookie)
	if err != nil {
		return a.fail(c, err)
	}
	return ok(c, echo.Map{"user_id": userID})
}

type usersRequest struct {
	IDs []uint64 `json:"ids"`
}

// UsersHandler returns profiles for a batch of user ids.
func (a *API) UsersHandler(c echo.Context) error {
	var req usersRequest
	if err := bind(c, &req); err != nil {
		return a.fail(c, err)
	}

	users, err := a.svc.Users.GetUsers(c.Request().Context(), req.IDs)
	if err != nil {
		return a.fail(c, err)
	}
	return ok(c, echo.Map{"users": users})
}
