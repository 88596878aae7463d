package ssso

import (
	"context"
	"errors"
	"time"

	"github.com/delbertbeta/s-sso/cache"
	"github.com/delbertbeta/s-sso/domain"
	serrors "github.com/delbertbeta/s-sso/errors"
	"github.com/delbertbeta/s-sso/internal/audit"
	"github.com/delbertbeta/s-sso/internal/metrics"
	"github.com/delbertbeta/s-sso/log"
	"github.com/delbertbeta/s-sso/tracing"
)

// transportPasswordLength is the length of the hex SHA-256 digest clients
// send instead of the raw password.
const transportPasswordLength = 64

// An unknown username is still verified against these so both login failures
// cost one key derivation.
const (
	dummySalt = "AAAAAAAAAAAAAAAAAAAAAA"
	dummyHash = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
)

// PasswordHasher derives and checks stored password hashes.
type PasswordHasher interface {
	Hash(password, salt string) (string, string, error)
	Verify(password, salt, expectedHash string) bool
}

// RegisterRequest carries a registration. Password is the base64 ciphertext
// of the hex SHA-256 of the real password, encrypted under the key issued
// for Token.
type RegisterRequest struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// LoginRequest carries a login with the same password transport as
// RegisterRequest.
type LoginRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// LoginResult is a successful login. Handle is the value of the session cookie.
type LoginResult struct {
	Handle string
	User   *domain.User
}

// LoginService registers users and manages their login sessions.
type LoginService struct {
	users  domain.UserRepository
	keys   *KeyExchange
	hasher PasswordHasher
	logins *cache.TypedStore[cache.LoginRecord]
	logger log.Logger
	now    func() time.Time
}

func NewLoginService(
	users domain.UserRepository,
	keys *KeyExchange,
	hasher PasswordHasher,
	sessions cache.SessionStore,
	logger log.Logger,
) *LoginService {
	return &LoginService{
		users:  users,
		keys:   keys,
		hasher: hasher,
		logins: cache.NewLoginStore(sessions),
		logger: logger,
		now:    time.Now,
	}
}

// SessionTTL is the lifetime of a login session and its cookie.
func (s *LoginService) SessionTTL() time.Duration {
	return s.logins.TTL()
}

// decryptPassword recovers the transport password and enforces its length.
func (s *LoginService) decryptPassword(ctx context.Context, handle, ciphertext string) (string, error) {
	password, err := s.keys.Decrypt(ctx, handle, ciphertext)
	if err != nil {
		return "", err
	}
	if len(password) != transportPasswordLength {
		return "", serrors.ErrInvalidPassword
	}
	return password, nil
}

// Register creates a new user.
func (s *LoginService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := validateName("username", req.Username); err != nil {
		return nil, err
	}
	if err := validateName("nickname", req.Nickname); err != nil {
		return nil, err
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}

	password, err := s.decryptPassword(ctx, req.Token, req.Password)
	if err != nil {
		return nil, err
	}

	_, err = s.users.GetUserByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return nil, serrors.ErrDuplicatedUsername
	case !errors.Is(err, domain.ErrNotFound):
		return nil, serrors.NewDatabaseError(err)
	}

	salt, hash, err := s.hasher.Hash(password, "")
	if err != nil {
		return nil, serrors.NewPasswordError(err)
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     req.Username,
		Salt:         salt,
		PasswordHash: hash,
		Email:        req.Email,
		Nickname:     req.Nickname,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, serrors.ErrDuplicatedUsername
		}
		return nil, serrors.NewDatabaseError(err)
	}

	metrics.UserRegisteredTotal.Inc()
	audit.Record(ctx, audit.ActionRegister, user.ID, user.Username, nil)
	s.logger.Info(ctx, "user registered", log.Fields{"user_id": user.ID, "username": user.Username})

	return user, nil
}

// Login checks the credentials and opens a login session. An unknown user and
// a wrong password fail identically.
func (s *LoginService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	ctx, span := tracing.Start(ctx, "LoginService.Login")
	defer span.End()

	if err := validateName("username", req.Username); err != nil {
		return nil, err
	}

	password, err := s.decryptPassword(ctx, req.Token, req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, domain.ErrNotFound) {
		s.hasher.Verify(password, dummySalt, dummyHash)
		metrics.LoginFailureTotal.Inc()
		audit.Record(ctx, audit.ActionLogin, 0, req.Username, serrors.ErrLoginFailed)
		return nil, serrors.ErrLoginFailed
	}
	if err != nil {
		return nil, serrors.NewDatabaseError(err)
	}

	if !s.hasher.Verify(password, user.Salt, user.PasswordHash) {
		metrics.LoginFailureTotal.Inc()
		audit.Record(ctx, audit.ActionLogin, user.ID, req.Username, serrors.ErrLoginFailed)
		return nil, serrors.ErrLoginFailed
	}

	handle, err := s.logins.Save(ctx, &cache.LoginRecord{UserID: user.ID})
	if err != nil {
		return nil, serrors.NewInternalError(err)
	}

	metrics.LoginSuccessTotal.Inc()
	audit.Record(ctx, audit.ActionLogin, user.ID, "", nil)
	s.logger.Info(ctx, "user logged in", log.Fields{"user_id": user.ID})

	return &LoginResult{Handle: handle, User: user}, nil
}

// Logout destroys the login session behind handle.
func (s *LoginService) Logout(ctx context.Context, handle string) error {
	userID, err := s.CurrentUserID(ctx, handle)
	if err != nil {
		return err
	}
	if err := s.logins.Destroy(ctx, handle); err != nil {
		return serrors.NewInternalError(err)
	}
	audit.Record(ctx, audit.ActionLogout, userID, "", nil)
	return nil
}

// CurrentUserID resolves the user bound to a login session.
func (s *LoginService) CurrentUserID(ctx context.Context, handle string) (uint64, error) {
	rec, err := s.logins.Load(ctx, handle)
	if cache.IsNotFound(err) {
		return 0, serrors.ErrLoginRequired
	}
	if err != nil {
		return 0, serrors.NewInternalError(err)
	}
	return rec.UserID, nil
}
