package mongodb

import (
	"context"

	"github.com/delbertbeta/s-sso/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	id, err := s.nextID(ctx, UsersCollection)
	if err != nil {
		return err
	}
	user.ID = id
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		user.ID = 0
		return translate(err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint64) (*domain.User, error) {
	var user domain.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []uint64) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, translate(err)
	}
	var users []*domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	res, err := s.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
