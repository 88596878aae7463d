package ssso

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"time"

	"github.com/delbertbeta/s-sso/domain"
	serrors "github.com/delbertbeta/s-sso/errors"
	"github.com/delbertbeta/s-sso/internal/audit"
	"github.com/delbertbeta/s-sso/internal/metrics"
	"github.com/delbertbeta/s-sso/log"
	"github.com/delbertbeta/s-sso/tracing"
	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// AccessTokenTTL is the lifetime of access tokens and ID tokens.
	AccessTokenTTL = time.Hour

	GrantTypeAuthorizationCode = domain.GrantTypeAuthorizationCode
	TokenTypeBearer            = "Bearer"
)

// TokenRequest holds the form parameters of /token.
type TokenRequest struct {
	GrantType    string `form:"grant_type"`
	Code         string `form:"code"`
	RedirectURI  string `form:"redirect_uri"`
	ClientID     string `form:"client_id"`
	ClientSecret string `form:"client_secret"`
}

// TokenResponse is the successful /token response body.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// IDTokenSigner signs ID token claims.
type IDTokenSigner interface {
	Sign(claims jwt.Claims) (string, error)
}

// TokenService redeems authorization codes.
type TokenService struct {
	store  domain.Store
	signer IDTokenSigner
	issuer string
	logger log.Logger
	now    func() time.Time
}

func NewTokenService(store domain.Store, signer IDTokenSigner, issuer string, logger log.Logger) *TokenService {
	return &TokenService{
		store:  store,
		signer: signer,
		issuer: NormalizeIssuer(issuer),
		logger: logger,
		now:    time.Now,
	}
}

// Exchange redeems a code for tokens. All reads and writes happen in one
// transaction; the code row is deleted before any token is minted, so of
// two concurrent redemptions only the one whose delete affects the row can
// succeed. On any error the transaction rolls back.
func (s *TokenService) Exchange(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	ctx, span := tracing.Start(ctx, "TokenService.Exchange", trace.WithAttributes(attribute.String("client_id", req.ClientID)))
	defer span.End()

	if req.GrantType != GrantTypeAuthorizationCode {
		return nil, s.reject(serrors.NewInvalidGrant("unsupported grant_type"))
	}

	var (
		resp   *TokenResponse
		userID uint64
	)
	err := s.store.Transaction(ctx, func(ctx context.Context, tx domain.Store) error {
		now := s.now().UTC()

		code, err := tx.GetAuthorizationCode(ctx, req.Code)
		if errors.Is(err, domain.ErrNotFound) {
			return serrors.NewInvalidGrant("unknown authorization code")
		}
		if err != nil {
			return serrors.NewDatabaseError(err)
		}

		if code.Expired(now) {
			return serrors.NewInvalidGrant("authorization code expired")
		}

		app, err := tx.GetApplication(ctx, code.ApplicationID)
		if errors.Is(err, domain.ErrNotFound) {
			return serrors.NewInvalidClient("client no longer exists")
		}
		if err != nil {
			return serrors.NewDatabaseError(err)
		}
		if app.ID != req.ClientID {
			return serrors.NewInvalidClient("code was issued to another client")
		}

		if code.RedirectURI != req.RedirectURI {
			return serrors.NewInvalidGrant("redirect_uri does not match")
		}

		err = tx.DeleteAuthorizationCode(ctx, code.Code)
		if errors.Is(err, domain.ErrNotFound) {
			return serrors.NewInvalidGrant("authorization code already redeemed")
		}
		if err != nil {
			return serrors.NewDatabaseError(err)
		}

		secrets, err := tx.ListApplicationSecrets(ctx, app.ID)
		if err != nil {
			return serrors.NewDatabaseError(err)
		}
		if !secretMatches(secrets, req.ClientSecret) {
			return serrors.NewInvalidClient("invalid client credentials")
		}

		user, err := tx.GetUserByID(ctx, code.UserID)
		if err != nil {
			// A code always points at an existing user.
			return serrors.NewDatabaseError(err)
		}

		accessToken, err := generateOpaqueToken()
		if err != nil {
			return serrors.NewCryptoError(err)
		}
		refreshToken, err := generateOpaqueToken()
		if err != nil {
			return serrors.NewCryptoError(err)
		}

		expiresAt := now.Add(AccessTokenTTL)
		token := &domain.Token{
			AccessToken:   accessToken,
			RefreshToken:  refreshToken,
			ApplicationID: app.ID,
			UserID:        user.ID,
			Scopes:        code.Scopes,
			ExpiresAt:     expiresAt,
			CreatedAt:     now,
		}
		if err := tx.SaveToken(ctx, token); err != nil {
			return serrors.NewDatabaseError(err)
		}

		idToken, err := s.signer.Sign(jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatUint(user.ID, 10),
			Audience:  jwt.ClaimStrings{app.ID},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		})
		if err != nil {
			return serrors.NewCryptoError(err)
		}

		userID = user.ID
		resp = &TokenResponse{
			AccessToken:  accessToken,
			IDToken:      idToken,
			TokenType:    TokenTypeBearer,
			ExpiresIn:    int(AccessTokenTTL.Seconds()),
			RefreshToken: refreshToken,
		}
		return nil
	})
	if err != nil {
		if isClientError(err) {
			return nil, s.reject(err)
		}
		return nil, serrors.NewDatabaseError(err)
	}

	metrics.TokensCreatedTotal.Inc()
	audit.Record(ctx, audit.ActionTokenIssue, userID, req.ClientID, nil)
	s.logger.Info(ctx, "tokens issued", log.Fields{"client_id": req.ClientID})

	return resp, nil
}

func (s *TokenService) reject(err error) error {
	var oauthErr *serrors.OAuth2Error
	if errors.As(err, &oauthErr) {
		metrics.TokenExchangeFailuresTotal.WithLabelValues(oauthErr.Code).Inc()
	}
	return err
}

// secretMatches compares the supplied secret against every registered one.
func secretMatches(secrets []*domain.ApplicationSecret, supplied string) bool {
	if supplied == "" {
		return false
	}
	matched := false
	for _, sec := range secrets {
		if subtle.ConstantTimeCompare([]byte(sec.Secret), []byte(supplied)) == 1 {
			matched = true
		}
	}
	return matched
}
