package ssso

import (
	"errors"

	"github.com/delbertbeta/s-sso/domain"
	serrors "github.com/delbertbeta/s-sso/errors"
)

// storeError converts a repository error into a ServiceError. Missing records
// become NotFound, everything else is an opaque database failure.
func storeError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return serrors.ErrNotFound
	}
	return serrors.NewDatabaseError(err)
}

// isClientError reports whether err already carries a client facing code.
func isClientError(err error) bool {
	var svcErr *serrors.ServiceError
	var oauthErr *serrors.OAuth2Error
	return errors.As(err, &svcErr) || errors.As(err, &oauthErr)
}
