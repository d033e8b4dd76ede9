package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// UserStore is the persistence boundary for user records. Create must
// enforce username uniqueness and return ErrUsernameTaken on violation.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	Create(ctx context.Context, username, passwordHash string) (User, error)
}

// Service coordinates registration and login against the user store and
// the token service. It holds no cross-request state.
type Service struct {
	store  UserStore
	tokens *TokenService
}

func NewService(store UserStore, tokens *TokenService) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
	}
}

// Register creates a new user with a bcrypt-hashed password. The lookup is
// a fast-path duplicate check; the store's unique constraint is what
// decides a race, so a violating insert surfaces ErrUsernameTaken as well.
func (s *Service) Register(ctx context.Context, username, password string) (RegisterResult, error) {
	username = strings.TrimSpace(username)

	_, err := s.store.GetByUsername(ctx, username)
	if err == nil {
		return RegisterResult{}, ErrUsernameTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		return RegisterResult{}, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return RegisterResult{}, err
	}

	user, err := s.store.Create(ctx, username, hash)
	if err != nil {
		return RegisterResult{}, err
	}

	return RegisterResult{
		Status:   "CREATED",
		Message:  fmt.Sprintf("User registered successfully with username: %s", user.Username),
		Username: user.Username,
	}, nil
}

// Login verifies the credentials and issues a bearer token. A missing user
// and a wrong password return the same ErrInvalidCredentials so callers
// cannot tell which case occurred. No writes happen on this path.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)

	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		Message:     "Login successful",
		AccessToken: token,
	}, nil
}
