package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/ezwallet/internal/apperr"
	"github.com/Skotchmaster/ezwallet/internal/models"
	"github.com/Skotchmaster/ezwallet/internal/repo"
	"github.com/Skotchmaster/ezwallet/internal/transport"
	"github.com/Skotchmaster/ezwallet/pkg/events"
	"github.com/Skotchmaster/ezwallet/pkg/logging"
)

var (
	ErrUsernameMismatch    = apperr.Validation("Username mismatch")
	ErrInvalidAmount       = apperr.Validation("Invalid amount")
	ErrTransactionNotFound = apperr.NotFound("Transaction not found")
)

type TransactionDeps interface {
	TransactionStore
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUsersByEmails(ctx context.Context, emails []string) ([]models.User, error)
	FindCategory(ctx context.Context, typ string) (*models.Category, error)
}

type TransactionService struct {
	Store  TransactionDeps
	Events events.Publisher
	Now    func() time.Time
}

func NewTransactionService(store TransactionDeps, pub events.Publisher) *TransactionService {
	return &TransactionService{Store: store, Events: pub, Now: time.Now}
}

// Create records a transaction for username, dated now.
func (s *TransactionService) Create(ctx context.Context, username string, req transport.TransactionRequest) (*models.Transaction, error) {
	l := logging.FromContext(ctx).With("svc", "transactions.create", "username", username)

	if !transport.Present(req.Username, req.Type) || req.Amount == nil {
		return nil, ErrMissingAttributes
	}
	if transport.Blank(*req.Username, *req.Type) {
		return nil, ErrEmptyAttributes
	}
	if raw, ok := req.Amount.(string); ok && transport.Blank(raw) {
		return nil, ErrEmptyAttributes
	}
	if *req.Username != username {
		l.Warn("create_transaction_failed", "status", 400, "reason", "username mismatch")
		return nil, ErrUsernameMismatch
	}
	amount, ok := transport.ParseAmount(req.Amount)
	if !ok {
		l.Warn("create_transaction_failed", "status", 400, "reason", "invalid amount")
		return nil, ErrInvalidAmount
	}

	if _, err := s.Store.FindUserByUsername(ctx, username); err != nil {
		return nil, notFoundOr(ctx, err, ErrUserNotFound, "create_transaction_failed")
	}
	if _, err := s.Store.FindCategory(ctx, *req.Type); err != nil {
		return nil, notFoundOr(ctx, err, ErrCategoryNotFound, "create_transaction_failed")
	}

	t := &models.Transaction{
		Username: username,
		Type:     *req.Type,
		Amount:   amount,
		Date:     s.Now().UTC(),
	}
	if err := s.Store.CreateTransaction(ctx, t); err != nil {
		return nil, internal(ctx, "create_transaction_failed", err)
	}

	publish(ctx, s.Events, events.TopicTransactions, username, "transaction_created", t)
	l.Info("create_transaction_success", "id", t.ID)
	return t, nil
}

func (s *TransactionService) ListAll(ctx context.Context) ([]models.TransactionView, error) {
	return s.list(ctx, repo.TransactionFilter{})
}

// ListByUser lists the transactions of one user, optionally of one category
// and narrowed by filter.
func (s *TransactionService) ListByUser(ctx context.Context, username, category string, filter repo.TransactionFilter) ([]models.TransactionView, error) {
	if _, err := s.Store.FindUserByUsername(ctx, username); err != nil {
		return nil, notFoundOr(ctx, err, ErrUserNotFound, "list_transactions_failed")
	}
	if err := s.checkCategory(ctx, category); err != nil {
		return nil, err
	}
	filter.Usernames = []string{username}
	filter.Type = category
	return s.list(ctx, filter)
}

// ListByGroup lists the transactions of every member of g.
func (s *TransactionService) ListByGroup(ctx context.Context, g *models.Group, category string) ([]models.TransactionView, error) {
	if err := s.checkCategory(ctx, category); err != nil {
		return nil, err
	}
	users, err := s.Store.FindUsersByEmails(ctx, MemberEmails(g))
	if err != nil {
		return nil, internal(ctx, "list_transactions_failed", err)
	}
	usernames := make([]string, 0, len(users))
	for _, u := range users {
		usernames = append(usernames, u.Username)
	}
	return s.list(ctx, repo.TransactionFilter{Usernames: usernames, Type: category})
}

func (s *TransactionService) checkCategory(ctx context.Context, category string) error {
	if category == "" {
		return nil
	}
	if _, err := s.Store.FindCategory(ctx, category); err != nil {
		return notFoundOr(ctx, err, ErrCategoryNotFound, "list_transactions_failed")
	}
	return nil
}

func (s *TransactionService) list(ctx context.Context, f repo.TransactionFilter) ([]models.TransactionView, error) {
	views, err := s.Store.ListTransactions(ctx, f)
	if err != nil {
		return nil, internal(ctx, "list_transactions_failed", err)
	}
	return views, nil
}

// Delete removes one of username's transactions.
func (s *TransactionService) Delete(ctx context.Context, username string, req transport.IDRequest) error {
	if req.ID == nil {
		return ErrMissingAttributes
	}
	if transport.Blank(*req.ID) {
		return ErrEmptyAttributes
	}
	if _, err := s.Store.FindUserByUsername(ctx, username); err != nil {
		return notFoundOr(ctx, err, ErrUserNotFound, "delete_transaction_failed")
	}
	if err := s.Store.DeleteTransaction(ctx, *req.ID, username); err != nil {
		return notFoundOr(ctx, err, ErrTransactionNotFound, "delete_transaction_failed")
	}
	publish(ctx, s.Events, events.TopicTransactions, username, "transaction_deleted", map[string]string{"_id": *req.ID})
	logging.FromContext(ctx).Info("delete_transaction_success", "username", username, "id", *req.ID)
	return nil
}

// DeleteMany removes every listed transaction, or none if one is missing.
func (s *TransactionService) DeleteMany(ctx context.Context, req transport.IDsRequest) (int64, error) {
	if req.IDs == nil {
		return 0, ErrMissingAttributes
	}
	if len(*req.IDs) == 0 || transport.Blank(*req.IDs...) {
		return 0, ErrEmptyAttributes
	}
	ids := dedupe(*req.IDs)
	deleted, err := s.Store.DeleteTransactions(ctx, ids)
	if err != nil {
		return 0, notFoundOr(ctx, err, ErrTransactionNotFound, "delete_transactions_failed")
	}
	publish(ctx, s.Events, events.TopicTransactions, "", "transactions_deleted", map[string]any{"_ids": ids})
	logging.FromContext(ctx).Info("delete_transactions_success", "count", deleted)
	return deleted, nil
}
