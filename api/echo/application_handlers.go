package sssoecho

import (
	"strconv"

	"github.com/labstack/echo/v4"

	ssso "github.com/delbertbeta/s-sso"
	serrors "github.com/delbertbeta/s-sso/errors"
)

func (a *API) ListApplicationsHandler(c echo.Context) error {
	apps, err := a.svc.Applications.List(c.Request().Context(), authUserID(c))
	if err != nil {
		return a.fail(c, err)
	}
	return ok(c, apps)
}

func (a *API) CreateApplicationHandler(c echo.Context) error {
	var in ssso.ApplicationInput
	if err := bind(c, &in); err != nil {
		return a.fail(c, err)
	}

	app, err := a.svc.Applications.Create(c.Request().Context(), authUserID(c), in)
	if err != nil {
		return a.fail(c, err)
	}
	return ok(c, app)
}

func (a *API) GetApplicationHandler(c echo.Context) error {
	app, err := a.svc.Applications.Get(c.Request().Context(), authUserID(c), c.Param("id"))
	if err != nil {
		return a.fail(c, err)
	}
	return ok(c, app)
}

func (a *API) UpdateApplicationHandler(c echo.Context) error {
	var in ssso.ApplicationInput
	if err := bind(c, &in); err != nil {
		return a.fail(c, err)
	}

	app, err := a.svc.Applications.Update(c.Request().Context(), authUserID(c), c.Param("id"), in)
	if err != nil {
		return a.fail(c, err)
	}
	return ok(c, app)
}

func (a *API) DeleteApplicationHandler(c echo.Context) error {
	if err := a.svc.Applications.Delete(c.Request().Context(), authUserID(c), c.Param("id")); err != nil {
		return a.fail(c, err)
	}
	return ok(c, nil)
}

func (a *API) ListSecretsHandler(c echo.Context) error {
	secrets, err := a.svc.Applications.ListSecrets(c.Request().Context(), authUserID(c), c.Param("id"))
	if err != nil {
		return a.fail(c, err)
	}
	return ok(c, secrets)
}

func (a *API) CreateSecretHandler(c echo.Context) error {
	secret, err := a.svc.Applications.CreateSecret(c.Request().Context(), authUserID(c), c.Param("id"))
	if err != nil {
		return a.fail(c, err)
	}
	return ok(c, secret)
}

func (a *API) DeleteSecretHandler(c echo.Context) error {
	secretID, err := strconv.ParseUint(c.Param("secretId"), 10, 64)
	if err != nil {
		return a.fail(c, serrors.NewValidationError("secret id must be a number"))
	}

	if err := a.svc.Applications.DeleteSecret(c.Request().Context(), authUserID(c), c.Param("id"), secretID); err != nil {
		return a.fail(c, err)
	}
	return ok(c, nil)
}
