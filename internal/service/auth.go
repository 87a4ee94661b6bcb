package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tasktracker/internal/domain"
	"tasktracker/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const minPasswordLen = 8

// UserStore is the persistence seam for the auth service.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// AuthService handles registration, credential verification and token
// issuance.
type AuthService struct {
	users  UserStore
	tokens *TokenManager
	clock  Clock

	// compared against on unknown email so login cost does not reveal
	// whether the account exists
	dummyHash []byte
}

func NewAuthService(users UserStore, tokens *TokenManager, clock Clock) *AuthService {
	if clock == nil {
		clock = SystemClock()
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("tasktracker-dummy"), bcrypt.DefaultCost)
	return &AuthService{users: users, tokens: tokens, clock: clock, dummyHash: dummy}
}

// Register validates the input, hashes the password with bcrypt and creates
// the user. Duplicate email/username errors from the store pass through.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (int64, error) {
	if err := validateRegistration(username, email, password); err != nil {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return 0, err
	}
	return user.ID, nil
}

// Login verifies email and password and returns a signed session token.
// Unknown email and wrong password both yield ErrInvalidCredentials, and
// both paths run a bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Generate(user.ID)
}

func validateRegistration(username, email, password string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if !validEmail(email) {
		return fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	return nil
}

func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1
}
