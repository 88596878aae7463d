package ssso

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/delbertbeta/s-sso/domain"
	serrors "github.com/delbertbeta/s-sso/errors"
)

const bearerPrefix = "Bearer "

// UserInfo is the /userinfo response body.
type UserInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// UserInfoService maps bearer access tokens to user claims.
type UserInfoService struct {
	store domain.Store
	now   func() time.Time
}

func NewUserInfoService(store domain.Store) *UserInfoService {
	return &UserInfoService{store: store, now: time.Now}
}

// Resolve takes the raw Authorization header value.
func (s *UserInfoService) Resolve(ctx context.Context, authorization string) (*UserInfo, error) {
	accessToken, ok := strings.CutPrefix(authorization, bearerPrefix)
	if !ok || accessToken == "" {
		return nil, serrors.NewInvalidToken("missing bearer token")
	}

	token, err := s.store.GetTokenByAccessToken(ctx, accessToken)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, serrors.NewInvalidToken("unknown access token")
	}
	if err != nil {
		return nil, serrors.NewDatabaseError(err)
	}
	if token.Expired(s.now().UTC()) {
		return nil, serrors.NewInvalidToken("access token expired")
	}

	user, err := s.store.GetUserByID(ctx, token.UserID)
	if err != nil {
		return nil, storeError(err)
	}

	return &UserInfo{
		Sub:     strconv.FormatUint(user.ID, 10),
		Name:    user.Username,
		Email:   user.Email,
		Picture: user.AvatarRef(),
	}, nil
}
