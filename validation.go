package ssso

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	serrors "github.com/delbertbeta/s-sso/errors"
)

const (
	maxNameLength        = 24
	maxApplicationName   = 64
	maxDescriptionLength = 1024
)

// validateName checks usernames and nicknames: 1..24 characters, no control
// characters, no surrounding whitespace.
func validateName(field, value string) error {
	n := utf8.RuneCountInString(value)
	if n == 0 || n > maxNameLength {
		return serrors.NewValidationError("%s must be 1 to %d characters", field, maxNameLength)
	}
	if !utf8.ValidString(value) {
		return serrors.NewValidationError("%s is not valid UTF-8", field)
	}
	if strings.TrimSpace(value) != value {
		return serrors.NewValidationError("%s must not start or end with whitespace", field)
	}
	if strings.IndexFunc(value, unicode.IsControl) >= 0 {
		return serrors.NewValidationError("%s must not contain control characters", field)
	}
	return nil
}

func validateEmail(value string) error {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || addr.Name != "" {
		return serrors.NewValidationError("email is not a valid address")
	}
	return nil
}

// validateRedirectURI requires an absolute URL without a fragment.
func validateRedirectURI(value string) error {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" || u.Fragment != "" {
		return serrors.NewValidationError("redirect uri %q must be an absolute URL without fragment", value)
	}
	return nil
}
