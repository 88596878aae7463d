package sssoecho

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	serrors "github.com/delbertbeta/s-sso/errors"
	"github.com/delbertbeta/s-sso/log"
)

type successResponse struct {
	Code int `json:"code"`
	Data any `json:"data"`
}

type errorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, successResponse{Code: 0, Data: data})
}

// fail renders err in the application API envelope. Causes of internal
// errors are logged and never sent.
func (a *API) fail(c echo.Context, err error) error {
	var svcErr *serrors.ServiceError
	if !errors.As(err, &svcErr) {
		svcErr = serrors.NewInternalError(err)
	}

	if svcErr.Internal() {
		a.logger.Error(c.Request().Context(), "request failed", err, log.Fields{
			"path": c.Path(),
			"code": svcErr.Code,
		})
	}

	return c.JSON(svcErr.Status, errorResponse{Code: svcErr.Code, Msg: svcErr.Message})
}

// oauthFail renders err as an OAuth2 error body. Client facing service
// errors such as a missing login keep the application envelope; internal
// failures become server_error.
func (a *API) oauthFail(c echo.Context, err error) error {
	var oauthErr *serrors.OAuth2Error
	if errors.As(err, &oauthErr) {
		return c.JSON(oauthErr.HTTPStatus(), oauthErr)
	}

	var svcErr *serrors.ServiceError
	if errors.As(err, &svcErr) && !svcErr.Internal() {
		return a.fail(c, err)
	}

	a.logger.Error(c.Request().Context(), "oauth request failed", err, log.Fields{"path": c.Path()})
	serverErr := serrors.NewServerError("internal server error")
	return c.JSON(serverErr.HTTPStatus(), serverErr)
}

// bind decodes the request into v, mapping decode failures to InvalidInput.
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return serrors.NewInvalidInput(err)
	}
	return nil
}
