package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Skotchmaster/ezwallet/internal/apperr"
	"github.com/Skotchmaster/ezwallet/internal/models"
	"github.com/Skotchmaster/ezwallet/internal/repo"
	"github.com/Skotchmaster/ezwallet/internal/transport"
	"github.com/Skotchmaster/ezwallet/pkg/events"
	pkghash "github.com/Skotchmaster/ezwallet/pkg/hash"
	"github.com/Skotchmaster/ezwallet/pkg/logging"
	"github.com/Skotchmaster/ezwallet/pkg/tokens"
)

var (
	ErrMissingAttributes = apperr.Validation("Missing attributes")
	ErrEmptyAttributes   = apperr.Validation("Empty attributes")
	ErrInvalidEmail      = apperr.Validation("Email is not valid")
	ErrPasswordTooLong   = apperr.Validation("Password is too long")
	ErrEmailTaken        = apperr.Conflict("Email is already registered")
	ErrUsernameTaken     = apperr.Conflict("Username is already taken")
	ErrNotRegistered     = apperr.Authentication("please you need to register")
	ErrWrongCredentials  = apperr.Authentication("wrong credentials")
	ErrSessionNotFound   = apperr.Authentication("user not found")
)

// AuthService is the Session Controller.
type AuthService struct {
	Store  UserStore
	Codec  *tokens.Codec
	Events events.Publisher
}

func NewAuthService(store UserStore, codec *tokens.Codec, pub events.Publisher) *AuthService {
	return &AuthService{Store: store, Codec: codec, Events: pub}
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) error {
	return s.register(ctx, req, models.RoleRegular)
}

func (s *AuthService) RegisterAdmin(ctx context.Context, req transport.RegisterRequest) error {
	return s.register(ctx, req, models.RoleAdmin)
}

// register checks, in order: missing fields, empty fields, email shape,
// password length, duplicate email, duplicate username.
func (s *AuthService) register(ctx context.Context, req transport.RegisterRequest, role string) error {
	l := logging.FromContext(ctx).With("svc", "auth.register", "role", role)

	if !transport.Present(req.Username, req.Email, req.Password) {
		l.Warn("register_failed", "status", 400, "reason", "missing attributes")
		return ErrMissingAttributes
	}
	username, email, password := *req.Username, *req.Email, *req.Password
	if transport.Blank(username, email, password) {
		l.Warn("register_failed", "status", 400, "reason", "empty attributes")
		return ErrEmptyAttributes
	}
	if !transport.ValidEmail(email) {
		l.Warn("register_failed", "status", 400, "reason", "invalid email")
		return ErrInvalidEmail
	}
	if len(password) > pkghash.MaxPasswordBytes {
		l.Warn("register_failed", "status", 400, "reason", "password too long")
		return ErrPasswordTooLong
	}

	if taken, err := s.exists(ctx, s.Store.FindUserByEmail, email); err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return apperr.Internal(err)
	} else if taken {
		l.Warn("register_failed", "status", 400, "reason", "email already registered")
		return ErrEmailTaken
	}
	if taken, err := s.exists(ctx, s.Store.FindUserByUsername, username); err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return apperr.Internal(err)
	} else if taken {
		l.Warn("register_failed", "status", 400, "reason", "username taken")
		return ErrUsernameTaken
	}

	pwHash, err := pkghash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return apperr.Internal(err)
	}

	user := models.User{Username: username, Email: email, PasswordHash: pwHash, Role: role}
	if err := s.Store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return s.duplicate(ctx, l, email)
		}
		l.Error("register_failed", "status", 500, "error", err)
		return apperr.Internal(err)
	}

	publish(ctx, s.Events, events.TopicUsers, user.Username, "user_registered", transport.UserView{
		Username: user.Username, Email: user.Email, Role: user.Role,
	})
	l.Info("register_success", "username", username)
	return nil
}

// duplicate reports which unique key a concurrent registration took first,
// keeping the email-before-username order of the checks above.
func (s *AuthService) duplicate(ctx context.Context, l *slog.Logger, email string) error {
	taken, err := s.exists(ctx, s.Store.FindUserByEmail, email)
	if err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return apperr.Internal(err)
	}
	if taken {
		l.Warn("register_failed", "status", 400, "reason", "email already registered")
		return ErrEmailTaken
	}
	l.Warn("register_failed", "status", 400, "reason", "username taken")
	return ErrUsernameTaken
}

func (s *AuthService) exists(ctx context.Context, find func(context.Context, string) (*models.User, error), key string) (bool, error) {
	_, err := find(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repo.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Login issues a fresh token pair and stores the refresh token, replacing any
// previous session of the user.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if !transport.Present(req.Email, req.Password) {
		l.Warn("login_failed", "status", 400, "reason", "missing attributes")
		return nil, ErrMissingAttributes
	}
	if transport.Blank(*req.Email, *req.Password) {
		l.Warn("login_failed", "status", 400, "reason", "empty attributes")
		return nil, ErrEmptyAttributes
	}

	user, err := s.Store.FindUserByEmail(ctx, *req.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 400, "reason", "user not registered")
			return nil, ErrNotRegistered
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, apperr.Internal(err)
	}
	l = l.With("username", user.Username)

	if !pkghash.CheckPassword(user.PasswordHash, *req.Password) {
		l.Warn("login_failed", "status", 400, "reason", "wrong password")
		return nil, ErrWrongCredentials
	}

	claims := tokens.Claims{Username: user.Username, Email: user.Email, ID: user.ID, Role: user.Role}
	access, err := s.Codec.Sign(claims, tokens.AccessTTL)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, apperr.Internal(err)
	}
	refresh, err := s.Codec.Sign(claims, tokens.RefreshTTL)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, apperr.Internal(err)
	}

	if err := s.Store.SetRefreshToken(ctx, user.ID, &refresh); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot store refresh token", "error", err)
		return nil, apperr.Internal(err)
	}

	publish(ctx, s.Events, events.TopicUsers, user.Username, "user_logged_in", transport.UserView{
		Username: user.Username, Email: user.Email, Role: user.Role,
	})
	l.Info("login_success")
	return &transport.LoginResult{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout clears the stored session matching refreshToken exactly. The token's
// own expiry is not checked.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if refreshToken == "" {
		l.Warn("logout_failed", "status", 400, "reason", "no refresh token cookie")
		return ErrSessionNotFound
	}

	user, err := s.Store.FindUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("logout_failed", "status", 400, "reason", "unknown refresh token")
			return ErrSessionNotFound
		}
		l.Error("logout_failed", "status", 500, "error", err)
		return apperr.Internal(err)
	}

	if err := s.Store.SetRefreshToken(ctx, user.ID, nil); err != nil {
		l.Error("logout_failed", "status", 500, "error", err)
		return apperr.Internal(err)
	}

	publish(ctx, s.Events, events.TopicUsers, user.Username, "user_logged_out", transport.UserView{
		Username: user.Username, Email: user.Email, Role: user.Role,
	})
	l.Info("logout_success", "username", user.Username)
	return nil
}
