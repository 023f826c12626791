package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/ezwallet/internal/apperr"
	"github.com/Skotchmaster/ezwallet/internal/models"
	"github.com/Skotchmaster/ezwallet/internal/repo"
	"github.com/Skotchmaster/ezwallet/internal/transport"
	"github.com/Skotchmaster/ezwallet/pkg/events"
	"github.com/Skotchmaster/ezwallet/pkg/logging"
)

var (
	ErrUserNotFound      = apperr.NotFound("User not found")
	ErrCannotDeleteAdmin = apperr.Validation("Cannot delete an admin")
)

type UserService struct {
	Store  UserStore
	Events events.Publisher
}

func NewUserService(store UserStore, pub events.Publisher) *UserService {
	return &UserService{Store: store, Events: pub}
}

func (s *UserService) List(ctx context.Context) ([]transport.UserView, error) {
	users, err := s.Store.ListUsers(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_users_failed", "status", 500, "error", err)
		return nil, apperr.Internal(err)
	}
	out := make([]transport.UserView, 0, len(users))
	for _, u := range users {
		out = append(out, userView(u))
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*transport.UserView, error) {
	u, err := s.Store.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(ctx, err, ErrUserNotFound, "get_user_failed")
	}
	v := userView(*u)
	return &v, nil
}

// Delete removes a regular user with their transactions and group membership.
func (s *UserService) Delete(ctx context.Context, req transport.EmailRequest) (*transport.DeletedUser, error) {
	l := logging.FromContext(ctx).With("svc", "users.delete")

	if req.Email == nil {
		return nil, ErrMissingAttributes
	}
	if transport.Blank(*req.Email) {
		return nil, ErrEmptyAttributes
	}
	if !transport.ValidEmail(*req.Email) {
		return nil, ErrInvalidEmail
	}

	u, err := s.Store.FindUserByEmail(ctx, *req.Email)
	if err != nil {
		return nil, notFoundOr(ctx, err, ErrUserNotFound, "delete_user_failed")
	}
	if u.Role == models.RoleAdmin {
		l.Warn("delete_user_failed", "status", 400, "reason", "target is an admin")
		return nil, ErrCannotDeleteAdmin
	}

	deleted, left, err := s.Store.DeleteUser(ctx, u)
	if err != nil {
		return nil, notFoundOr(ctx, err, ErrUserNotFound, "delete_user_failed")
	}

	publish(ctx, s.Events, events.TopicUsers, u.Username, "user_deleted", map[string]any{
		"username":            u.Username,
		"deletedTransactions": deleted,
		"deletedFromGroup":    left,
	})
	l.Info("delete_user_success", "username", u.Username, "transactions", deleted)
	return &transport.DeletedUser{DeletedTransactions: deleted, DeletedFromGroup: left}, nil
}

func userView(u models.User) transport.UserView {
	return transport.UserView{Username: u.Username, Email: u.Email, Role: u.Role}
}

// notFoundOr maps a store not-found to notFound and anything else to an internal error.
func notFoundOr(ctx context.Context, err error, notFound *apperr.Error, event string) error {
	l := logging.FromContext(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		l.Warn(event, "status", 400, "reason", notFound.Message)
		return notFound
	}
	l.Error(event, "status", 500, "error", err)
	return apperr.Internal(err)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	return err
}

func internal(ctx context.Context, event string, err error) error {
	logging.FromContext(ctx).Error(event, "status", 500, "error", err)
	return apperr.Internal(err)
}
