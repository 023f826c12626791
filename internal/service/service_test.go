package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ezwallet/internal/models"
	"github.com/Skotchmaster/ezwallet/internal/repo"
	"github.com/Skotchmaster/ezwallet/pkg/db"
	"github.com/Skotchmaster/ezwallet/pkg/events"
	pkghash "github.com/Skotchmaster/ezwallet/pkg/hash"
	"github.com/Skotchmaster/ezwallet/pkg/tokens"
)

const testPassword = "s3cret-pass"

var (
	hashOnce   sync.Once
	hashedTest string
)

// passwordHash computes the bcrypt hash of testPassword once per test binary.
func passwordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := pkghash.HashPassword(testPassword)
		require.NoError(t, err)
		hashedTest = h
	})
	return hashedTest
}

func ptr[T any](v T) *T { return &v }

type env struct {
	store  *repo.GormRepo
	events *events.Recorder
	codec  *tokens.Codec
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	require.NoError(t, r.Migrate(ctx))
	return &env{store: r, events: &events.Recorder{}, codec: tokens.NewCodec([]byte("service-test-key"))}
}

func (e *env) user(t *testing.T, username, email, role string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: email, PasswordHash: passwordHash(t), Role: role}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *env) category(t *testing.T, typ, color string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, e.store.CreateCategory(context.Background(), &models.Category{Type: typ, Color: color, CreatedAt: createdAt}))
}

func (e *env) transaction(t *testing.T, username, typ string, amount float64, date time.Time) *models.Transaction {
	t.Helper()
	tx := &models.Transaction{Username: username, Type: typ, Amount: amount, Date: date}
	require.NoError(t, e.store.CreateTransaction(context.Background(), tx))
	return tx
}
