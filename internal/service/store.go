package service

import (
	"context"

	"github.com/Skotchmaster/ezwallet/internal/models"
	"github.com/Skotchmaster/ezwallet/internal/repo"
)

// UserStore is the Credential Store: user records and their single stored session.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByRefreshToken(ctx context.Context, token string) (*models.User, error)
	FindUsersByEmails(ctx context.Context, emails []string) ([]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SetRefreshToken(ctx context.Context, userID string, token *string) error
	DeleteUser(ctx context.Context, u *models.User) (deletedTransactions int64, leftGroup bool, err error)
}

type GroupStore interface {
	CreateGroup(ctx context.Context, g *models.Group) error
	FindGroupByName(ctx context.Context, name string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	GroupedEmails(ctx context.Context, emails []string) ([]string, error)
	AddMembers(ctx context.Context, groupID string, members []models.GroupMember) error
	RemoveMembers(ctx context.Context, groupID string, emails []string) error
	DeleteGroup(ctx context.Context, groupID string) error
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	FindCategory(ctx context.Context, typ string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, oldType, newType, color string) (int64, error)
	DeleteCategories(ctx context.Context, types []string, fallback string) (int64, error)
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	ListTransactions(ctx context.Context, f repo.TransactionFilter) ([]models.TransactionView, error)
	DeleteTransaction(ctx context.Context, id, username string) error
	DeleteTransactions(ctx context.Context, ids []string) (int64, error)
}

// Store is everything the services need; both the gorm and the mongo stores satisfy it.
type Store interface {
	UserStore
	GroupStore
	CategoryStore
	TransactionStore
	RefreshTokenMatches(ctx context.Context, username, token string) (bool, error)
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
}

var (
	_ Store = (*repo.GormRepo)(nil)
)
