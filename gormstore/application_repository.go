package gormstore

import (
	"context"

	"github.com/delbertbeta/s-sso/domain"
	"gorm.io/gorm"
)

func (s *Store) CreateApplication(ctx context.Context, app *domain.Application) error {
	return translate(s.db.WithContext(ctx).Create(newApplicationRow(app)).Error)
}

func (s *Store) GetApplication(ctx context.Context, id string) (*domain.Application, error) {
	var row applicationRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) ListApplicationsByCreator(ctx context.Context, creatorID uint64) ([]*domain.Application, error) {
	var rows []applicationRow
	err := s.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	apps := make([]*domain.Application, 0, len(rows))
	for i := range rows {
		apps = append(apps, rows[i].toDomain())
	}
	return apps, nil
}

func (s *Store) UpdateApplication(ctx context.Context, app *domain.Application) error {
	err := s.db.WithContext(ctx).
		Model(&applicationRow{ID: app.ID}).
		Select("*").
		Omit("id", "creator_id", "created_at").
		Updates(newApplicationRow(app)).Error
	return translate(err)
}

func (s *Store) DeleteApplication(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", id).Delete(&applicationSecretRow{}).Error; err != nil {
			return translate(err)
		}
		return affected(tx.Where("id = ?", id).Delete(&applicationRow{}))
	})
}

func (s *Store) CreateApplicationSecret(ctx context.Context, secret *domain.ApplicationSecret) error {
	row := &applicationSecretRow{
		ApplicationID: secret.ApplicationID,
		Secret:        secret.Secret,
		CreatedAt:     secret.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err)
	}
	secret.ID = row.ID
	return nil
}

func (s *Store) ListApplicationSecrets(ctx context.Context, applicationID string) ([]*domain.ApplicationSecret, error) {
	var rows []applicationSecretRow
	err := s.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	secrets := make([]*domain.ApplicationSecret, 0, len(rows))
	for i := range rows {
		secrets = append(secrets, rows[i].toDomain())
	}
	return secrets, nil
}

func (s *Store) DeleteApplicationSecret(ctx context.Context, applicationID string, secretID uint64) error {
	return affected(s.db.WithContext(ctx).
		Where("id = ? AND application_id = ?", secretID, applicationID).
		Delete(&applicationSecretRow{}))
}
