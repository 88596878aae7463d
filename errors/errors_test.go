package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	serrors "github.com/delbertbeta/s-sso/errors"
	"github.com/stretchr/testify/assert"
)

func TestServiceErrorMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", serrors.ErrLoginFailed)
	assert.ErrorIs(t, wrapped, serrors.ErrLoginFailed)
	assert.NotErrorIs(t, wrapped, serrors.ErrLoginRequired)

	v := serrors.NewValidationError("username is too long")
	assert.ErrorIs(t, v, serrors.ErrValidation)
	assert.Contains(t, v.Message, "username is too long")
}

func TestServiceErrorHidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:3306: connection refused")
	err := serrors.NewDatabaseError(cause)

	assert.True(t, err.Internal())
	assert.Equal(t, serrors.CodeDatabase, err.Code)
	assert.Equal(t, "Database error", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.False(t, serrors.ErrNotFound.Internal())
}

func TestOAuth2ErrorStatus(t *testing.T) {
	tests := []struct {
		err    *serrors.OAuth2Error
		status int
	}{
		{serrors.NewInvalidClient("x"), http.StatusUnauthorized},
		{serrors.NewInvalidToken("x"), http.StatusUnauthorized},
		{serrors.NewInvalidGrant("x"), http.StatusBadRequest},
		{serrors.NewInvalidRedirectURI("x"), http.StatusBadRequest},
		{serrors.NewUnsupportedResponseType(), http.StatusBadRequest},
		{serrors.NewServerError("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
		})
	}

	assert.ErrorIs(t, fmt.Errorf("wrap: %w", serrors.NewInvalidGrant("expired")), serrors.NewInvalidGrant(""))
}
