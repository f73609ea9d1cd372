package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/BuzzLyutic/taskhub-api/internal/auth"
	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/internal/repo"
)

const (
	minPasswordLen = 8
	maxUsernameLen = 150
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// Tokens issues and verifies the access/refresh pair.
type Tokens interface {
	IssuePair(u model.User) (auth.Pair, error)
	ParseRefresh(token string) (*auth.Claims, error)
}

type AuthService struct {
	users     repo.UserRepository
	blacklist repo.TokenBlacklist
	tokens    Tokens
}

func NewAuthService(users repo.UserRepository, blacklist repo.TokenBlacklist, tokens Tokens) *AuthService {
	return &AuthService{users: users, blacklist: blacklist, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	var ve ValidationError

	username := strings.TrimSpace(in.Username)
	switch {
	case username == "":
		ve.Add("username", requiredMsg)
	case utf8.RuneCountInString(username) > maxUsernameLen:
		ve.Add("username", maxLenMsg(maxUsernameLen))
	case !usernamePattern.MatchString(username):
		ve.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		ve.Add("email", requiredMsg)
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		ve.Add("email", "Enter a valid email address.")
	}

	switch {
	case in.Password == "":
		ve.Add("password", requiredMsg)
	case utf8.RuneCountInString(in.Password) < minPasswordLen:
		ve.Add("password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLen))
	case isNumeric(in.Password):
		ve.Add("password", "This password is entirely numeric.")
	}
	if in.Password2 == "" {
		ve.Add("password2", requiredMsg)
	} else if in.Password != "" && in.Password != in.Password2 {
		ve.Add("password", "Passwords do not match.")
	}

	if username != "" && len(ve.Fields["username"]) == 0 {
		_, err := s.users.GetUserByUsername(ctx, username)
		switch {
		case err == nil:
			ve.Add("username", "A user with that username already exists.")
		case !errors.Is(err, repo.ErrorNotFound):
			return model.User{}, err
		}
	}
	if err := ve.Err(); err != nil {
		return model.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.CreateUser(ctx, model.User{Username: username, Email: email, PasswordHash: hash})
	if errors.Is(err, repo.ErrorConflict) {
		return model.User{}, fieldError("username", "A user with that username already exists.")
	}
	return u, err
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (auth.Pair, error) {
	var ve ValidationError
	if in.Username == "" {
		ve.Add("username", requiredMsg)
	}
	if in.Password == "" {
		ve.Add("password", requiredMsg)
	}
	if err := ve.Err(); err != nil {
		return auth.Pair{}, err
	}

	u, err := s.users.GetUserByUsername(ctx, in.Username)
	if errors.Is(err, repo.ErrorNotFound) {
		return auth.Pair{}, ErrInvalidCredentials
	}
	if err != nil {
		return auth.Pair{}, err
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return auth.Pair{}, ErrInvalidCredentials
	}
	return s.tokens.IssuePair(u)
}

// Refresh rotates the pair: the presented refresh token is blacklisted and
// can never be used again.
func (s *AuthService) Refresh(ctx context.Context, in RefreshInput) (auth.Pair, error) {
	claims, err := s.revoke(ctx, in.Refresh)
	if err != nil {
		return auth.Pair{}, err
	}
	u, err := s.users.GetUser(ctx, claims.UserID())
	if errors.Is(err, repo.ErrorNotFound) {
		return auth.Pair{}, ErrToken
	}
	if err != nil {
		return auth.Pair{}, err
	}
	return s.tokens.IssuePair(u)
}

func (s *AuthService) Logout(ctx context.Context, caller model.Caller, in RefreshInput) error {
	if !caller.Authenticated() {
		return ErrUnauthorized
	}
	_, err := s.revoke(ctx, in.Refresh)
	return err
}

// revoke validates a refresh token and blacklists it. Only one of several
// concurrent calls with the same token succeeds.
func (s *AuthService) revoke(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, fieldError("refresh", requiredMsg)
	}
	claims, err := s.tokens.ParseRefresh(token)
	if err != nil {
		return nil, ErrToken
	}
	listed, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if listed {
		return nil, ErrToken
	}
	err = s.blacklist.BlacklistToken(ctx, claims.ID, claims.UserID(), claims.ExpiresAtTime())
	if errors.Is(err, repo.ErrorConflict) {
		return nil, ErrToken
	}
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
