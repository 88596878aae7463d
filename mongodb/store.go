// Package mongodb implements domain.Store on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/delbertbeta/s-sso/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Store implements domain.Store. Operations join the session transaction
// carried by their context, if any.
type Store struct {
	client             *mongo.Client
	users              *mongo.Collection
	applications       *mongo.Collection
	applicationSecrets *mongo.Collection
	codes              *mongo.Collection
	tokens             *mongo.Collection
	counters           *mongo.Collection
}

// NewStore opens the collections of db and makes sure their indexes exist.
func NewStore(ctx context.Context, client *mongo.Client, dbName string) (*Store, error) {
	db := client.Database(dbName)
	s := &Store{
		client:             client,
		users:              db.Collection(UsersCollection),
		applications:       db.Collection(ApplicationsCollection),
		applicationSecrets: db.Collection(ApplicationSecretsCollection),
		codes:              db.Collection(CodesCollection),
		tokens:             db.Collection(TokensCollection),
		counters:           db.Collection(CountersCollection),
	}
	if err := s.createIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) createIndexes(ctx context.Context) error {
	indexes := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{s.users, []mongo.IndexModel{
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{s.applications, []mongo.IndexModel{
			{Keys: bson.D{{Key: "creator_id", Value: 1}, {Key: "created_at", Value: 1}}},
		}},
		{s.applicationSecrets, []mongo.IndexModel{
			{Keys: bson.D{{Key: "application_id", Value: 1}}},
		}},
		{s.codes, []mongo.IndexModel{
			{Keys: bson.D{{Key: "expires_at", Value: 1}}},
		}},
		{s.tokens, []mongo.IndexModel{
			{Keys: bson.D{{Key: "access_token", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "refresh_token", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "expires_at", Value: 1}}},
		}},
	}

	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateMany(ctx, idx.models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

// Transaction implements domain.Store.Transaction with a session
// transaction. The driver retries fn on transient errors such as a write
// conflict with a concurrent transaction.
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context, tx domain.Store) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx, s)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, fn(ctx, s)
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	if err := s.client.Disconnect(context.Background()); err != nil {
		log.Error().Err(err).Msg("Error closing MongoDB connection")
		return err
	}
	return nil
}

// nextID allocates the next value of a named sequence.
func (s *Store) nextID(ctx context.Context, name string) (uint64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", name, err)
	}
	return uint64(counter.Seq), nil
}

// translate maps driver errors onto the domain sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
	default:
		return err
	}
}

var _ domain.Store = (*Store)(nil)
