package gormstore

import (
	"context"

	"github.com/delbertbeta/s-sso/domain"
)

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	row := newUserRow(user)
	row.ID = 0
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err)
	}
	user.ID = row.ID
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint64) (*domain.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []uint64) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []userRow
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toDomain())
	}
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	row := newUserRow(user)
	err := s.db.WithContext(ctx).
		Model(&userRow{ID: user.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(row).Error
	return translate(err)
}
