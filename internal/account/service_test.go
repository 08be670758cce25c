package account

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskdeck/service-task-go/internal/account/entity"
	"github.com/taskdeck/service-task-go/internal/apperror"
	"github.com/taskdeck/service-task-go/internal/token"
)

// MockStore mocks the Store interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockStore) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, a *entity.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

// countingHasher wraps BcryptHasher to count Hash calls.
type countingHasher struct {
	BcryptHasher
	hashCalls int
}

func (h *countingHasher) Hash(pw string) (string, error) {
	h.hashCalls++
	return h.BcryptHasher.Hash(pw)
}

func testTokens() *token.Service {
	return token.NewService(token.Config{
		Secret:     "test-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
}

func newTestService(store Store, hasher PasswordHasher) (*Service, *token.Service) {
	tokens := testTokens()
	return NewService(store, hasher, tokens, zap.NewNop().Sugar()), tokens
}

func TestService_Register(t *testing.T) {
	store := &MockStore{}
	svc, tokens := newTestService(store, BcryptHasher{Cost: 4})

	store.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, ErrAccountNotFound)
	store.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.Account) bool {
		return a.Email == "new@example.com" && a.Role == entity.RoleMember &&
			a.PasswordHash != "" && a.PasswordHash != "password123"
	})).Return(nil)

	result, err := svc.Register(context.Background(), "New User", "new@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "New User", result.Account.Name)
	assert.NotEmpty(t, result.Account.ID)

	// issued access token decodes back to the created account id
	subject, err := tokens.VerifyAccess(result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.Account.ID, subject)

	store.AssertExpectations(t)
}

func TestService_RegisterDuplicate(t *testing.T) {
	store := &MockStore{}
	hasher := &countingHasher{BcryptHasher: BcryptHasher{Cost: 4}}
	svc, _ := newTestService(store, hasher)

	existing := &entity.Account{ID: "acct-1", Email: "taken@example.com"}
	store.On("GetByEmail", mock.Anything, "taken@example.com").Return(existing, nil)

	_, err := svc.Register(context.Background(), "Someone", "taken@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.StatusCode(err))
	assert.Equal(t, "duplicate_account", apperror.SafeKind(err))

	// duplicate short-circuits before the expensive hash and before Create
	assert.Zero(t, hasher.hashCalls)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_RegisterLosesCreationRace(t *testing.T) {
	store := &MockStore{}
	svc, _ := newTestService(store, BcryptHasher{Cost: 4})

	store.On("GetByEmail", mock.Anything, "racer@example.com").Return(nil, ErrAccountNotFound)
	store.On("Create", mock.Anything, mock.Anything).Return(ErrDuplicateEmail)

	_, err := svc.Register(context.Background(), "Racer", "racer@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.StatusCode(err))
}

func TestService_Login(t *testing.T) {
	hasher := BcryptHasher{Cost: 4}
	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)

	acct := &entity.Account{
		ID:           "acct-1",
		Name:         "Existing",
		Email:        "user@example.com",
		PasswordHash: hash,
		Role:         entity.RoleMember,
	}

	tests := []struct {
		name     string
		email    string
		password string
		found    bool
		wantErr  bool
	}{
		{name: "success", email: "user@example.com", password: "correct horse", found: true},
		{name: "wrong password", email: "user@example.com", password: "wrong", found: true, wantErr: true},
		{name: "unknown email", email: "ghost@example.com", password: "correct horse", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockStore{}
			if tt.found {
				store.On("GetByEmail", mock.Anything, tt.email).Return(acct, nil)
			} else {
				store.On("GetByEmail", mock.Anything, tt.email).Return(nil, ErrAccountNotFound)
			}
			svc, tokens := newTestService(store, hasher)

			result, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr {
				require.Error(t, err)
				// unknown email and wrong password are indistinguishable
				assert.Equal(t, "invalid_credentials", apperror.SafeKind(err))
				assert.Equal(t, "invalid credentials", apperror.SafeMessage(err))
				assert.Equal(t, http.StatusUnauthorized, apperror.StatusCode(err))
				return
			}
			require.NoError(t, err)
			subject, err := tokens.VerifyAccess(result.Tokens.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, acct.ID, subject)
		})
	}
}

func TestService_Refresh(t *testing.T) {
	acct := &entity.Account{ID: "acct-1", Email: "user@example.com"}

	t.Run("valid refresh token", func(t *testing.T) {
		store := &MockStore{}
		store.On("GetByID", mock.Anything, "acct-1").Return(acct, nil)
		svc, tokens := newTestService(store, BcryptHasher{Cost: 4})

		pair, err := tokens.Issue("acct-1")
		require.NoError(t, err)

		result, err := svc.Refresh(context.Background(), pair.RefreshToken)
		require.NoError(t, err)
		subject, err := tokens.VerifyAccess(result.Tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "acct-1", subject)
	})

	t.Run("access token rejected", func(t *testing.T) {
		store := &MockStore{}
		svc, tokens := newTestService(store, BcryptHasher{Cost: 4})

		pair, err := tokens.Issue("acct-1")
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), pair.AccessToken)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, apperror.StatusCode(err))
	})

	t.Run("deleted subject", func(t *testing.T) {
		store := &MockStore{}
		store.On("GetByID", mock.Anything, "acct-1").Return(nil, ErrAccountNotFound)
		svc, tokens := newTestService(store, BcryptHasher{Cost: 4})

		pair, err := tokens.Issue("acct-1")
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), pair.RefreshToken)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, apperror.StatusCode(err))
	})
}

func TestBcryptHasher(t *testing.T) {
	hasher := BcryptHasher{Cost: 4}

	h1, err := hasher.Hash("password123")
	require.NoError(t, err)
	h2, err := hasher.Hash("password123")
	require.NoError(t, err)

	// per-call salt: same input, different digests, both verify
	assert.NotEqual(t, h1, h2)
	assert.True(t, hasher.Verify("password123", h1))
	assert.True(t, hasher.Verify("password123", h2))
	assert.False(t, hasher.Verify("other", h1))

	// digest never equals plaintext
	assert.NotEqual(t, "password123", h1)

	// malformed digest verifies false, no panic or error escape
	assert.False(t, hasher.Verify("password123", "not-a-bcrypt-digest"))
	assert.False(t, hasher.Verify("password123", ""))
}
