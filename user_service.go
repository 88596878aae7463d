package ssso

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/delbertbeta/s-sso/domain"
	serrors "github.com/delbertbeta/s-sso/errors"
)

const maxProfileLength = 4096

// UserProfile is the public view of a user.
type UserProfile struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Profile  string `json:"profile"`
	Avatar   string `json:"avatar,omitempty"`
}

func newUserProfile(u *domain.User) *UserProfile {
	return &UserProfile{
		ID:       u.ID,
		Username: u.Username,
		Nickname: u.Nickname,
		Email:    u.Email,
		Profile:  u.Profile,
		Avatar:   u.AvatarRef(),
	}
}

// ProfilePatch lists the fields a user may change. Nil fields are left alone.
type ProfilePatch struct {
	Nickname *string `json:"nickname"`
	Email    *string `json:"email"`
	Profile  *string `json:"profile"`
	Avatar   *string `json:"avatar"`
}

// UserService serves profile reads and updates, and the lookups other
// services use to identify a user.
type UserService struct {
	users  domain.UserRepository
	logins *LoginService
	now    func() time.Time
}

func NewUserService(users domain.UserRepository, logins *LoginService) *UserService {
	return &UserService{users: users, logins: logins, now: time.Now}
}

// GetProfile returns the profile of userID.
func (s *UserService) GetProfile(ctx context.Context, userID uint64) (*UserProfile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	return newUserProfile(user), nil
}

// UpdateProfile applies patch to userID's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, patch ProfilePatch) (*UserProfile, error) {
	if patch.Nickname != nil {
		if err := validateName("nickname", *patch.Nickname); err != nil {
			return nil, err
		}
	}
	if patch.Email != nil {
		if err := validateEmail(*patch.Email); err != nil {
			return nil, err
		}
	}
	if patch.Profile != nil && utf8.RuneCountInString(*patch.Profile) > maxProfileLength {
		return nil, serrors.NewValidationError("profile must be at most %d characters", maxProfileLength)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}

	if patch.Nickname != nil {
		user.Nickname = *patch.Nickname
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Profile != nil {
		user.Profile = *patch.Profile
	}
	if patch.Avatar != nil {
		if *patch.Avatar == "" {
			user.Avatar = nil
		} else {
			avatar := *patch.Avatar
			user.Avatar = &avatar
		}
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, storeError(err)
	}
	return newUserProfile(user), nil
}

// GetUserIDByCookie resolves a session cookie value to a user id.
func (s *UserService) GetUserIDByCookie(ctx context.Context, cookie string) (uint64, error) {
	return s.logins.CurrentUserID(ctx, cookie)
}

// GetUsers returns the profiles of the given ids in request order. Unknown
// ids are skipped.
func (s *UserService) GetUsers(ctx context.Context, ids []uint64) ([]*UserProfile, error) {
	if len(ids) == 0 {
		return []*UserProfile{}, nil
	}

	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, serrors.NewDatabaseError(err)
	}

	byID := make(map[uint64]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	profiles := make([]*UserProfile, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			profiles = append(profiles, newUserProfile(u))
		}
	}
	return profiles, nil
}
