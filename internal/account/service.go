package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/service-task-go/internal/account/entity"
	"github.com/taskdeck/service-task-go/internal/apperror"
	"github.com/taskdeck/service-task-go/internal/token"
	"github.com/taskdeck/service-task-go/pkg/utilities"
)

// PasswordHasher defines the minimal hashing interface (abstract so we can
// swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(pw, hash string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt. The salt is generated
// per call, so hashing the same password twice yields different digests.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify compares in constant time relative to the secret content. A
// malformed digest verifies false rather than surfacing an error.
func (b BcryptHasher) Verify(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// AuthResult is the outcome of a successful register, login, or refresh.
type AuthResult struct {
	Account entity.PublicView `json:"user"`
	Tokens  token.Pair        `json:"tokens"`
}

// Service orchestrates account lifecycle and credential issuance.
type Service struct {
	store  Store
	hasher PasswordHasher
	tokens *token.Service
	logger *zap.SugaredLogger
}

func NewService(store Store, hasher PasswordHasher, tokens *token.Service, logger *zap.SugaredLogger) *Service {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 12}
	}
	return &Service{store: store, hasher: hasher, tokens: tokens, logger: logger}
}

// Register creates a new account and issues its first credential pair.
// The email uniqueness check runs before the hash step so duplicate
// requests short-circuit without paying for bcrypt.
func (s *Service) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return nil, apperror.Internal(fmt.Errorf("lookup account by email: %w", err))
	}
	if existing != nil {
		return nil, apperror.DuplicateAccount()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("hash password: %w", err))
	}

	acct := &entity.Account{
		ID:           utilities.NewKSUID(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleMember,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Create(ctx, acct); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			// lost the race against a concurrent register for the same email
			return nil, apperror.DuplicateAccount()
		}
		return nil, apperror.Internal(fmt.Errorf("create account: %w", err))
	}

	pair, err := s.tokens.Issue(acct.ID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("issue tokens: %w", err))
	}

	s.logger.Infow("account registered", "account_id", acct.ID)
	return &AuthResult{Account: acct.Public(), Tokens: pair}, nil
}

// Login verifies credentials and issues a fresh pair. Unknown email and
// wrong password produce the same error so responses cannot be used to
// enumerate accounts.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	acct, err := s.store.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, ErrAccountNotFound) {
		return nil, apperror.InvalidCredentials()
	}
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("lookup account by email: %w", err))
	}

	if !s.hasher.Verify(password, acct.PasswordHash) {
		return nil, apperror.InvalidCredentials()
	}

	pair, err := s.tokens.Issue(acct.ID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("issue tokens: %w", err))
	}

	s.logger.Debugw("account logged in", "account_id", acct.ID)
	return &AuthResult{Account: acct.Public(), Tokens: pair}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The subject
// must still exist; tokens survive account deletion only until this check.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	subjectID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Unauthenticated("invalid refresh token")
	}

	acct, err := s.store.GetByID(ctx, subjectID)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, apperror.Unauthenticated("invalid refresh token")
	}
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("lookup account by id: %w", err))
	}

	pair, err := s.tokens.Issue(acct.ID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("issue tokens: %w", err))
	}
	return &AuthResult{Account: acct.Public(), Tokens: pair}, nil
}

// GetByID returns the public projection of an account.
func (s *Service) GetByID(ctx context.Context, id string) (*entity.PublicView, error) {
	acct, err := s.store.GetByID(ctx, id)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, apperror.NotFound("account not found")
	}
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("lookup account by id: %w", err))
	}
	view := acct.Public()
	return &view, nil
}
