package mongodb

import (
	"context"

	"github.com/delbertbeta/s-sso/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (s *Store) CreateApplication(ctx context.Context, app *domain.Application) error {
	_, err := s.applications.InsertOne(ctx, app)
	return translate(err)
}

func (s *Store) GetApplication(ctx context.Context, id string) (*domain.Application, error) {
	var app domain.Application
	if err := s.applications.FindOne(ctx, bson.M{"_id": id}).Decode(&app); err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (s *Store) ListApplicationsByCreator(ctx context.Context, creatorID uint64) ([]*domain.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.applications.Find(ctx, bson.M{"creator_id": creatorID}, opts)
	if err != nil {
		return nil, translate(err)
	}
	apps := []*domain.Application{}
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, translate(err)
	}
	return apps, nil
}

func (s *Store) UpdateApplication(ctx context.Context, app *domain.Application) error {
	update := bson.M{"$set": bson.M{
		"name":          app.Name,
		"description":   app.Description,
		"homepage":      app.Homepage,
		"icon":          app.Icon,
		"redirect_uris": app.RedirectURIs,
		"grant_types":   app.GrantTypes,
		"updated_at":    app.UpdatedAt,
	}}
	res, err := s.applications.UpdateOne(ctx, bson.M{"_id": app.ID}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteApplication(ctx context.Context, id string) error {
	return s.Transaction(ctx, func(ctx context.Context, _ domain.Store) error {
		if _, err := s.applicationSecrets.DeleteMany(ctx, bson.M{"application_id": id}); err != nil {
			return translate(err)
		}
		res, err := s.applications.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return translate(err)
		}
		if res.DeletedCount == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (s *Store) CreateApplicationSecret(ctx context.Context, secret *domain.ApplicationSecret) error {
	id, err := s.nextID(ctx, ApplicationSecretsCollection)
	if err != nil {
		return err
	}
	secret.ID = id
	_, err = s.applicationSecrets.InsertOne(ctx, secret)
	return translate(err)
}

func (s *Store) ListApplicationSecrets(ctx context.Context, applicationID string) ([]*domain.ApplicationSecret, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.applicationSecrets.Find(ctx, bson.M{"application_id": applicationID}, opts)
	if err != nil {
		return nil, translate(err)
	}
	secrets := []*domain.ApplicationSecret{}
	if err := cursor.All(ctx, &secrets); err != nil {
		return nil, translate(err)
	}
	return secrets, nil
}

func (s *Store) DeleteApplicationSecret(ctx context.Context, applicationID string, secretID uint64) error {
	res, err := s.applicationSecrets.DeleteOne(ctx, bson.M{"_id": secretID, "application_id": applicationID})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
