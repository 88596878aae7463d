package mongodb

import (
	"context"
	"time"

	"github.com/delbertbeta/s-sso/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *Store) SaveAuthorizationCode(ctx context.Context, code *domain.AuthorizationCode) error {
	if _, err := s.codes.InsertOne(ctx, code); err != nil {
		log.Error().Err(err).Str("client_id", code.ApplicationID).Msg("Error saving authorization code")
		return translate(err)
	}
	return nil
}

func (s *Store) GetAuthorizationCode(ctx context.Context, code string) (*domain.AuthorizationCode, error) {
	var authCode domain.AuthorizationCode
	if err := s.codes.FindOne(ctx, bson.M{"_id": code}).Decode(&authCode); err != nil {
		return nil, translate(err)
	}
	return &authCode, nil
}

// DeleteAuthorizationCode deletes the code. Inside a transaction a concurrent
// delete of the same document surfaces as a write conflict, after which the
// retried transaction no longer finds the code.
func (s *Store) DeleteAuthorizationCode(ctx context.Context, code string) error {
	res, err := s.codes.DeleteOne(ctx, bson.M{"_id": code})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteExpiredAuthorizationCodes(ctx context.Context) (int64, error) {
	res, err := s.codes.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now().UTC()}})
	if err != nil {
		return 0, translate(err)
	}
	return res.DeletedCount, nil
}

func (s *Store) SaveToken(ctx context.Context, token *domain.Token) error {
	id, err := s.nextID(ctx, TokensCollection)
	if err != nil {
		return err
	}
	token.ID = id
	_, err = s.tokens.InsertOne(ctx, token)
	return translate(err)
}

func (s *Store) GetTokenByAccessToken(ctx context.Context, accessToken string) (*domain.Token, error) {
	var token domain.Token
	if err := s.tokens.FindOne(ctx, bson.M{"access_token": accessToken}).Decode(&token); err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (s *Store) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	res, err := s.tokens.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now().UTC()}})
	if err != nil {
		return 0, translate(err)
	}
	return res.DeletedCount, nil
}
