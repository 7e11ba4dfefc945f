package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"kharcha/internal/auth"
	"kharcha/internal/core"
	"kharcha/internal/log"
	"kharcha/internal/storage"
)

// ErrInvalidCredentials covers unknown identifiers and wrong passwords so a
// login failure never reveals which of the two it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

const minPasswordLength = 8

// AccountService handles signup and login and issues bearer tokens.
type AccountService struct {
	storage  *storage.SQLiteRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewAccountService(storage *storage.SQLiteRepository, secret []byte, tokenTTL time.Duration) *AccountService {
	return &AccountService{
		storage:  storage,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Signup validates the registration fields and creates the account. Taken
// usernames and emails surface as storage.ErrDuplicateUser.
func (s *AccountService) Signup(ctx context.Context, username, email, password string) (storage.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return storage.User{}, fmt.Errorf("%w: username is required", core.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return storage.User{}, fmt.Errorf("%w: invalid email address", core.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return storage.User{}, fmt.Errorf("%w: password must be at least %d characters", core.ErrValidation, minPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return storage.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.storage.CreateUser(ctx, username, email, hash)
	if err != nil {
		return storage.User{}, err
	}

	log.FromContext(ctx).InfoContext(ctx, "User registered",
		log.FieldUserID, user.ID,
		log.FieldUsername, user.Username)

	return user, nil
}

// Login accepts a username or email plus password and returns a signed
// token and the user's ID.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (string, string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return "", "", ErrInvalidCredentials
	}

	user, err := s.storage.GetUserByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("look up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}

	log.FromContext(ctx).InfoContext(ctx, "User logged in", log.FieldUserID, user.ID)

	return token, user.ID, nil
}
