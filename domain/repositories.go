package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a record does not exist. For deletes it
	// means no row was affected.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository stores users.
type UserRepository interface {
	// CreateUser inserts the user and sets its ID.
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uint64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	// GetUsersByIDs returns the users that exist, in no particular order.
	GetUsersByIDs(ctx context.Context, ids []uint64) ([]*User, error)
	UpdateUser(ctx context.Context, user *User) error
}

// ApplicationRepository stores applications and their secrets.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *Application) error
	GetApplication(ctx context.Context, id string) (*Application, error)
	ListApplicationsByCreator(ctx context.Context, creatorID uint64) ([]*Application, error)
	UpdateApplication(ctx context.Context, app *Application) error
	// DeleteApplication removes the application and all of its secrets.
	DeleteApplication(ctx context.Context, id string) error

	CreateApplicationSecret(ctx context.Context, secret *ApplicationSecret) error
	ListApplicationSecrets(ctx context.Context, applicationID string) ([]*ApplicationSecret, error)
	DeleteApplicationSecret(ctx context.Context, applicationID string, secretID uint64) error
}

// AuthorizationCodeRepository stores authorization codes.
type AuthorizationCodeRepository interface {
	SaveAuthorizationCode(ctx context.Context, code *AuthorizationCode) error
	GetAuthorizationCode(ctx context.Context, code string) (*AuthorizationCode, error)
	// DeleteAuthorizationCode returns ErrNotFound when nothing was deleted,
	// which inside a transaction means another redemption got there first.
	DeleteAuthorizationCode(ctx context.Context, code string) error
	DeleteExpiredAuthorizationCodes(ctx context.Context) (int64, error)
}

// TokenRepository stores issued tokens.
type TokenRepository interface {
	SaveToken(ctx context.Context, token *Token) error
	GetTokenByAccessToken(ctx context.Context, accessToken string) (*Token, error)
	DeleteExpiredTokens(ctx context.Context) (int64, error)
}

// Store is the persistence store shared by every service.
type Store interface {
	UserRepository
	ApplicationRepository
	AuthorizationCodeRepository
	TokenRepository

	// Transaction runs fn inside a single transaction. The Store passed to fn
	// and the context it receives must be used for every operation that
	// belongs to the transaction. Returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Ping(ctx context.Context) error
	Close() error
}
