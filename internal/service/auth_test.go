package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tasktracker/internal/domain"
	"tasktracker/internal/repository"
)

type fakeUserStore struct {
	seq   int64
	users map[int64]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*domain.User)}
}

func (s *fakeUserStore) Create(_ context.Context, u *domain.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
		if existing.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
	}
	s.seq++
	u.ID = s.seq
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func newAuthService(clock Clock) (*AuthService, *TokenManager) {
	tokens := NewTokenManager("test-secret", 24*time.Hour, clock)
	return NewAuthService(newFakeUserStore(), tokens, clock), tokens
}

func TestRegisterAndLogin(t *testing.T) {
	clock := newFakeClock()
	auth, tokens := newAuthService(clock)
	ctx := context.Background()

	id, err := auth.Register(ctx, "alice", "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id == 0 {
		t.Fatal("Register returned zero id")
	}

	token, err := auth.Login(ctx, "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	userID, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("Parse issued token: %v", err)
	}
	if userID != id {
		t.Fatalf("token carries user %d; want %d", userID, id)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _ := newAuthService(newFakeClock())
	ctx := context.Background()

	if _, err := auth.Register(ctx, "alice", "alice@example.com", "password-1"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := auth.Register(ctx, "bob", "alice@example.com", "password-2")
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("second Register = %v; want ErrDuplicateEmail", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	auth, _ := newAuthService(newFakeClock())
	ctx := context.Background()

	if _, err := auth.Register(ctx, "alice", "alice@example.com", "password-1"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := auth.Register(ctx, "alice", "alice2@example.com", "password-2")
	if !errors.Is(err, repository.ErrDuplicateUsername) {
		t.Fatalf("second Register = %v; want ErrDuplicateUsername", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	auth, _ := newAuthService(newFakeClock())
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"empty username", "", "a@example.com", "long-enough"},
		{"empty email", "alice", "", "long-enough"},
		{"email without at", "alice", "example.com", "long-enough"},
		{"email without domain", "alice", "alice@", "long-enough"},
		{"short password", "alice", "a@example.com", "short"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Register(ctx, tc.username, tc.email, tc.password)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Register = %v; want ErrValidation", err)
			}
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	auth, _ := newAuthService(newFakeClock())
	ctx := context.Background()

	if _, err := auth.Register(ctx, "alice", "alice@example.com", "correct horse"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, wrongPw := auth.Login(ctx, "alice@example.com", "battery staple")
	_, wrongEmail := auth.Login(ctx, "nobody@example.com", "correct horse")

	if !errors.Is(wrongPw, ErrInvalidCredentials) {
		t.Fatalf("wrong password = %v; want ErrInvalidCredentials", wrongPw)
	}
	if !errors.Is(wrongEmail, ErrInvalidCredentials) {
		t.Fatalf("unknown email = %v; want ErrInvalidCredentials", wrongEmail)
	}
	if wrongPw.Error() != wrongEmail.Error() {
		t.Fatalf("failure shapes differ: %q vs %q", wrongPw, wrongEmail)
	}
}

// erroringUserStore simulates an unavailable backend.
type erroringUserStore struct {
	err error
}

func (s *erroringUserStore) Create(_ context.Context, _ *domain.User) error { return s.err }

func (s *erroringUserStore) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, s.err
}

func (s *erroringUserStore) GetByID(_ context.Context, _ int64) (*domain.User, error) {
	return nil, s.err
}

func TestLoginPropagatesStoreErrors(t *testing.T) {
	clock := newFakeClock()
	infraErr := errors.New("connection refused")
	tokens := NewTokenManager("test-secret", 24*time.Hour, clock)
	auth := NewAuthService(&erroringUserStore{err: infraErr}, tokens, clock)

	_, err := auth.Login(context.Background(), "alice@example.com", "correct horse")
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("store failure reported as invalid credentials")
	}
	if !errors.Is(err, infraErr) {
		t.Fatalf("Login = %v; want wrapped store error", err)
	}
}

func TestPasswordStoredHashed(t *testing.T) {
	clock := newFakeClock()
	store := newFakeUserStore()
	tokens := NewTokenManager("test-secret", 24*time.Hour, clock)
	auth := NewAuthService(store, tokens, clock)

	id, err := auth.Register(context.Background(), "alice", "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	u := store.users[id]
	if u.PasswordHash == "" {
		t.Fatal("password hash is empty")
	}
	if u.PasswordHash == "correct horse" {
		t.Fatal("password stored in plaintext")
	}
}
