package ssso

import (
	"context"
	"testing"

	"github.com/delbertbeta/s-sso/domain"
	serrors "github.com/delbertbeta/s-sso/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUserService_Profile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "pw")

	profile, err := env.users.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)

	profile, err = env.users.UpdateProfile(ctx, alice.ID, ProfilePatch{
		Nickname: ptr("Alice A."),
		Profile:  ptr("hello"),
		Avatar:   ptr("https://cdn.example/a.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", profile.Nickname)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, "https://cdn.example/a.png", profile.Avatar)

	profile, err = env.users.UpdateProfile(ctx, alice.ID, ProfilePatch{Avatar: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, profile.Avatar)
	assert.Equal(t, "hello", profile.Profile)

	_, err = env.users.UpdateProfile(ctx, alice.ID, ProfilePatch{Email: ptr("Alice <alice@example.com>")})
	assert.ErrorIs(t, err, serrors.ErrValidation)

	_, err = env.users.UpdateProfile(ctx, alice.ID, ProfilePatch{Nickname: ptr(" padded")})
	assert.ErrorIs(t, err, serrors.ErrValidation)

	_, err = env.users.GetProfile(ctx, alice.ID+1000)
	assert.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestUserService_Lookups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "pw")
	bob := env.register(t, "bob", "pw")

	result, err := env.login(t, "bob", "pw")
	require.NoError(t, err)

	id, err := env.users.GetUserIDByCookie(ctx, result.Handle)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, id)

	_, err = env.users.GetUserIDByCookie(ctx, "stale")
	assert.ErrorIs(t, err, serrors.ErrLoginRequired)

	profiles, err := env.users.GetUsers(ctx, []uint64{bob.ID, 999, alice.ID})
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "bob", profiles[0].Username)
	assert.Equal(t, "alice", profiles[1].Username)

	profiles, err = env.users.GetUsers(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) GetUserByID(ctx context.Context, id uint64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetUsersByIDs(ctx context.Context, ids []uint64) ([]*domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *mockUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func TestUserService_DatabaseErrors(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	repo.On("GetUserByID", ctx, uint64(7)).Return(nil, assert.AnError)
	repo.On("GetUsersByIDs", ctx, []uint64{7}).Return(nil, assert.AnError)

	_, err := svc.GetProfile(ctx, 7)
	var svcErr *serrors.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, serrors.CodeDatabase, svcErr.Code)
	assert.ErrorIs(t, err, assert.AnError)

	_, err = svc.GetUsers(ctx, []uint64{7})
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, serrors.CodeDatabase, svcErr.Code)

	repo.AssertExpectations(t)
}
