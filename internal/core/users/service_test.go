package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *User) (*User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

type stubIssuer struct {
	err error
}

func (s stubIssuer) Issue(user *User) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + user.Username, nil
}

func newTestService(repo UserRepository, issuer TokenIssuer) *userService {
	svc := NewUserService(repo, issuer, nil).(*userService)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestUserService_Register(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestService(repo, stubIssuer{})

	display := "  Alice A.  "
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Username == "alice" &&
			u.IsActive &&
			u.DisplayName != nil && *u.DisplayName == "Alice A." &&
			bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte("correct horse")) == nil
	})).Return(&User{ID: 7, Username: "alice", IsActive: true}, nil)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username:    "  Alice ",
		Password:    "correct horse",
		DisplayName: &display,
	})
	require.NoError(t, err)
	assert.Equal(t, "token-for-alice", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int64(7), resp.User.ID)
	repo.AssertExpectations(t)
}

func TestUserService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		req      RegisterRequest
		username bool
	}{
		{name: "empty username", req: RegisterRequest{Username: "", Password: "password123"}, username: true},
		{name: "too short", req: RegisterRequest{Username: "ab", Password: "password123"}, username: true},
		{name: "bad characters", req: RegisterRequest{Username: "bob smith", Password: "password123"}, username: true},
		{name: "leading dot", req: RegisterRequest{Username: ".bob", Password: "password123"}, username: true},
		{name: "short password", req: RegisterRequest{Username: "bobby", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			svc := newTestService(repo, stubIssuer{})

			_, err := svc.Register(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var usernameErr *InvalidUsernameError
			assert.Equal(t, tt.username, errors.As(err, &usernameErr))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestService(repo, stubIssuer{})
	repo.On("Create", mock.Anything, mock.Anything).Return(nil, ErrUsernameTaken)

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "alice", Password: "password123"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	active := &User{ID: 1, Username: "alice", HashedPassword: string(hashed), IsActive: true}
	inactive := &User{ID: 2, Username: "carol", HashedPassword: string(hashed), IsActive: false}

	repo := new(MockUserRepository)
	repo.On("GetByUsername", mock.Anything, "alice").Return(active, nil)
	repo.On("GetByUsername", mock.Anything, "carol").Return(inactive, nil)
	repo.On("GetByUsername", mock.Anything, "nobody").Return(nil, ErrUserNotFound)

	svc := newTestService(repo, stubIssuer{})
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Username: "ALICE", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "token-for-alice", resp.AccessToken)
	assert.Equal(t, "alice", resp.User.DisplayName, "display name falls back to username")

	_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Username: "carol", Password: "password123"})
	assert.ErrorIs(t, err, ErrInactiveUser)

	_, err = svc.Login(ctx, LoginRequest{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_IssueFailure(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	repo := new(MockUserRepository)
	repo.On("GetByUsername", mock.Anything, "alice").
		Return(&User{ID: 1, Username: "alice", HashedPassword: string(hashed), IsActive: true}, nil)

	svc := newTestService(repo, stubIssuer{err: errors.New("no key")})
	_, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "password123"})
	assert.ErrorContains(t, err, "failed to issue token")
}

func TestUserService_GetUserByID(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByID", mock.Anything, int64(3)).Return(&User{ID: 3, Username: "dave"}, nil)
	svc := newTestService(repo, stubIssuer{})

	u, err := svc.GetUserByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "dave", u.Username)

	_, err = svc.GetUserByID(context.Background(), 0)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUser_Profile(t *testing.T) {
	name := "Dave D"
	avatar := "https://cdn.example/dave.png"

	withFields := (&User{ID: 1, Username: "dave", DisplayName: &name, AvatarURL: &avatar}).Profile()
	assert.Equal(t, "Dave D", withFields.DisplayName)
	assert.Equal(t, avatar, withFields.AvatarURL)

	empty := ""
	defaults := (&User{ID: 2, Username: "eve smith", DisplayName: &empty}).Profile()
	assert.Equal(t, "eve smith", defaults.DisplayName)
	assert.Equal(t, "https://ui-avatars.com/api/?name=eve+smith", defaults.AvatarURL)
}

func TestUserService_ListUsers(t *testing.T) {
	name := "Bob B"
	repo := new(MockUserRepository)
	repo.On("List", mock.Anything).Return([]*User{
		{ID: 1, Username: "alice", IsActive: true},
		{ID: 2, Username: "bob", DisplayName: &name, IsActive: false},
	}, nil).Once()
	svc := newTestService(repo, stubIssuer{})

	profiles, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "alice", profiles[0].DisplayName)
	assert.Equal(t, "Bob B", profiles[1].DisplayName)
	assert.False(t, profiles[1].IsActive)

	repo.On("List", mock.Anything).Return(nil, errors.New("db down")).Once()
	_, err = svc.ListUsers(context.Background())
	assert.ErrorContains(t, err, "db down")

	repo.On("List", mock.Anything).Return([]*User{}, nil).Once()
	profiles, err = svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, profiles)
	assert.Empty(t, profiles)
}
