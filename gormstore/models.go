package gormstore

import (
	"time"

	"github.com/delbertbeta/s-sso/domain"
)

type userRow struct {
	ID           uint64  `gorm:"primaryKey;autoIncrement"`
	Username     string  `gorm:"size:64;not null;uniqueIndex"`
	Salt         string  `gorm:"size:64;not null"`
	PasswordHash string  `gorm:"size:128;not null"`
	Email        string  `gorm:"size:255;not null"`
	Nickname     string  `gorm:"size:64;not null"`
	Profile      string  `gorm:"type:text"`
	Avatar       *string `gorm:"size:512"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "user" }

func newUserRow(u *domain.User) *userRow {
	return &userRow{
		ID:           u.ID,
		Username:     u.Username,
		Salt:         u.Salt,
		PasswordHash: u.PasswordHash,
		Email:        u.Email,
		Nickname:     u.Nickname,
		Profile:      u.Profile,
		Avatar:       u.Avatar,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		Salt:         r.Salt,
		PasswordHash: r.PasswordHash,
		Email:        r.Email,
		Nickname:     r.Nickname,
		Profile:      r.Profile,
		Avatar:       r.Avatar,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type applicationRow struct {
	ID           string   `gorm:"primaryKey;size:36"`
	Name         string   `gorm:"size:128;not null"`
	Description  string   `gorm:"type:text"`
	Homepage     string   `gorm:"size:512"`
	Icon         *string  `gorm:"size:512"`
	RedirectURIs []string `gorm:"column:redirect_uris;serializer:json;type:json"`
	GrantTypes   []string `gorm:"column:grant_types;serializer:json;type:json"`
	CreatorID    uint64   `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (applicationRow) TableName() string { return "application" }

func newApplicationRow(a *domain.Application) *applicationRow {
	return &applicationRow{
		ID:           a.ID,
		Name:         a.Name,
		Description:  a.Description,
		Homepage:     a.Homepage,
		Icon:         a.Icon,
		RedirectURIs: a.RedirectURIs,
		GrantTypes:   a.GrantTypes,
		CreatorID:    a.CreatorID,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (r *applicationRow) toDomain() *domain.Application {
	return &domain.Application{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Homepage:     r.Homepage,
		Icon:         r.Icon,
		RedirectURIs: r.RedirectURIs,
		GrantTypes:   r.GrantTypes,
		CreatorID:    r.CreatorID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type applicationSecretRow struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	ApplicationID string `gorm:"size:36;not null;index"`
	Secret        string `gorm:"size:64;not null"`
	CreatedAt     time.Time
}

func (applicationSecretRow) TableName() string { return "application_secret" }

func (r *applicationSecretRow) toDomain() *domain.ApplicationSecret {
	return &domain.ApplicationSecret{
		ID:            r.ID,
		ApplicationID: r.ApplicationID,
		Secret:        r.Secret,
		CreatedAt:     r.CreatedAt,
	}
}

type authorizationCodeRow struct {
	Code          string    `gorm:"primaryKey;size:64"`
	ApplicationID string    `gorm:"size:36;not null"`
	UserID        uint64    `gorm:"not null"`
	Scopes        []string  `gorm:"serializer:json;type:json"`
	RedirectURI   string    `gorm:"size:512;not null"`
	ExpiresAt     time.Time `gorm:"not null;index"`
	CreatedAt     time.Time
}

func (authorizationCodeRow) TableName() string { return "authorization_code" }

func (r *authorizationCodeRow) toDomain() *domain.AuthorizationCode {
	return &domain.AuthorizationCode{
		Code:          r.Code,
		ApplicationID: r.ApplicationID,
		UserID:        r.UserID,
		Scopes:        r.Scopes,
		RedirectURI:   r.RedirectURI,
		ExpiresAt:     r.ExpiresAt,
		CreatedAt:     r.CreatedAt,
	}
}

type tokenRow struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	AccessToken   string    `gorm:"size:64;not null;uniqueIndex"`
	RefreshToken  string    `gorm:"size:64;not null;uniqueIndex"`
	ApplicationID string    `gorm:"size:36;not null;index"`
	UserID        uint64    `gorm:"not null;index"`
	Scopes        []string  `gorm:"serializer:json;type:json"`
	ExpiresAt     time.Time `gorm:"not null;index"`
	CreatedAt     time.Time
}

func (tokenRow) TableName() string { return "token" }

func (r *tokenRow) toDomain() *domain.Token {
	return &domain.Token{
		ID:            r.ID,
		AccessToken:   r.AccessToken,
		RefreshToken:  r.RefreshToken,
		ApplicationID: r.ApplicationID,
		UserID:        r.UserID,
		Scopes:        r.Scopes,
		ExpiresAt:     r.ExpiresAt,
		CreatedAt:     r.CreatedAt,
	}
}

// models lists every table, in creation order.
var models = []interface{}{
	&userRow{},
	&applicationRow{},
	&applicationSecretRow{},
	&authorizationCodeRow{},
	&tokenRow{},
}
