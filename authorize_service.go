package ssso

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/delbertbeta/s-sso/domain"
	serrors "github.com/delbertbeta/s-sso/errors"
	"github.com/delbertbeta/s-sso/internal/metrics"
	"github.com/delbertbeta/s-sso/log"
	"github.com/delbertbeta/s-sso/tracing"
)

// AuthorizationCodeTTL is how long a minted code can be redeemed.
const AuthorizationCodeTTL = 10 * time.Minute

// AuthorizeRequest holds the query parameters of /authorize.
type AuthorizeRequest struct {
	ResponseType string `query:"response_type"`
	ClientID     string `query:"client_id"`
	RedirectURI  string `query:"redirect_uri"`
	Scope        string `query:"scope"`
	State        string `query:"state"`
}

// AuthorizeService mints authorization codes for logged-in users.
type AuthorizeService struct {
	store  domain.Store
	logger log.Logger
	now    func() time.Time
}

func NewAuthorizeService(store domain.Store, logger log.Logger) *AuthorizeService {
	return &AuthorizeService{store: store, logger: logger, now: time.Now}
}

// Authorize validates the request, stores a code for userID and returns the
// URL the user agent must be redirected to.
func (s *AuthorizeService) Authorize(ctx context.Context, req AuthorizeRequest, userID uint64) (string, error) {
	ctx, span := tracing.Start(ctx, "AuthorizeService.Authorize")
	defer span.End()

	if req.ResponseType != "code" {
		return "", serrors.NewUnsupportedResponseType()
	}

	app, err := s.store.GetApplication(ctx, req.ClientID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", serrors.NewInvalidClient("unknown client_id")
	}
	if err != nil {
		return "", serrors.NewDatabaseError(err)
	}

	if !app.HasRedirectURI(req.RedirectURI) {
		return "", serrors.NewInvalidRedirectURI("redirect_uri is not registered for this client")
	}

	// Registered URIs are validated on write, so this only fails for
	// records written before validation existed.
	target, err := url.Parse(req.RedirectURI)
	if err != nil {
		return "", serrors.NewInvalidRedirectURI("redirect_uri is not a valid URL")
	}

	code, err := generateOpaqueToken()
	if err != nil {
		return "", serrors.NewCryptoError(err)
	}

	now := s.now().UTC()
	authCode := &domain.AuthorizationCode{
		Code:          code,
		ApplicationID: app.ID,
		UserID:        userID,
		Scopes:        ParseScopes(req.Scope),
		RedirectURI:   req.RedirectURI,
		ExpiresAt:     now.Add(AuthorizationCodeTTL),
		CreatedAt:     now,
	}
	if err := s.store.SaveAuthorizationCode(ctx, authCode); err != nil {
		return "", serrors.NewDatabaseError(err)
	}

	metrics.AuthorizationCodesIssuedTotal.Inc()
	s.logger.Debug(ctx, "authorization code issued", log.Fields{"client_id": app.ID, "user_id": userID})

	query := target.Query()
	query.Set("code", code)
	if req.State != "" {
		query.Set("state", req.State)
	}
	target.RawQuery = query.Encode()

	return target.String(), nil
}

// ParseScopes splits a space separated scope parameter, dropping empty and
// repeated entries while keeping the order.
func ParseScopes(scope string) []string {
	fields := strings.Fields(scope)
	scopes := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		scopes = append(scopes, f)
	}
	return scopes
}
