package gormstore

import (
	"context"
	"time"

	"github.com/delbertbeta/s-sso/domain"
)

func (s *Store) SaveAuthorizationCode(ctx context.Context, code *domain.AuthorizationCode) error {
	row := &authorizationCodeRow{
		Code:          code.Code,
		ApplicationID: code.ApplicationID,
		UserID:        code.UserID,
		Scopes:        code.Scopes,
		RedirectURI:   code.RedirectURI,
		ExpiresAt:     code.ExpiresAt,
		CreatedAt:     code.CreatedAt,
	}
	return translate(s.db.WithContext(ctx).Create(row).Error)
}

func (s *Store) GetAuthorizationCode(ctx context.Context, code string) (*domain.AuthorizationCode, error) {
	var row authorizationCodeRow
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return row.toDomain(), nil
}

// DeleteAuthorizationCode deletes the row and reports domain.ErrNotFound when
// it was already gone. Under MySQL the delete waits on the row lock held by
// a concurrent redemption and then affects zero rows.
func (s *Store) DeleteAuthorizationCode(ctx context.Context, code string) error {
	return affected(s.db.WithContext(ctx).Where("code = ?", code).Delete(&authorizationCodeRow{}))
}

func (s *Store) DeleteExpiredAuthorizationCodes(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", time.Now().UTC()).Delete(&authorizationCodeRow{})
	return res.RowsAffected, translate(res.Error)
}

func (s *Store) SaveToken(ctx context.Context, token *domain.Token) error {
	row := &tokenRow{
		AccessToken:   token.AccessToken,
		RefreshToken:  token.RefreshToken,
		ApplicationID: token.ApplicationID,
		UserID:        token.UserID,
		Scopes:        token.Scopes,
		ExpiresAt:     token.ExpiresAt,
		CreatedAt:     token.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err)
	}
	token.ID = row.ID
	return nil
}

func (s *Store) GetTokenByAccessToken(ctx context.Context, accessToken string) (*domain.Token, error) {
	var row tokenRow
	if err := s.db.WithContext(ctx).Where("access_token = ?", accessToken).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", time.Now().UTC()).Delete(&tokenRow{})
	return res.RowsAffected, translate(res.Error)
}
