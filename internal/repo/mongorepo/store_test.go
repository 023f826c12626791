package mongorepo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ezwallet/internal/models"
	"github.com/Skotchmaster/ezwallet/internal/repo"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	s, err := Connect(ctx, uri, "ezwallet_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Drop(context.Background())
		_ = s.Close(context.Background())
	})
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := &models.User{Username: "mario", Email: "mario@ezwallet.io", PasswordHash: "x", Role: models.RoleRegular}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.NotEmpty(t, u.ID)

	err := s.CreateUser(ctx, &models.User{Username: "mario", Email: "other@ezwallet.io", Role: models.RoleRegular})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	token := "refresh"
	require.NoError(t, s.SetRefreshToken(ctx, u.ID, &token))
	got, err := s.FindUserByRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "mario", got.Username)

	require.NoError(t, s.SetRefreshToken(ctx, u.ID, nil))
	_, err = s.FindUserByRefreshToken(ctx, token)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestStore_GroupsAndDeleteUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := &models.User{Username: "a", Email: "a@x.io", Role: models.RoleRegular}
	b := &models.User{Username: "b", Email: "b@x.io", Role: models.RoleRegular}
	require.NoError(t, s.CreateUser(ctx, a))
	require.NoError(t, s.CreateUser(ctx, b))

	g := &models.Group{Name: "family", Members: []models.GroupMember{{Email: a.Email, UserID: a.ID}}}
	require.NoError(t, s.CreateGroup(ctx, g))
	require.NoError(t, s.AddMembers(ctx, g.ID, []models.GroupMember{{Email: b.Email, UserID: b.ID}}))

	grouped, err := s.GroupedEmails(ctx, []string{b.Email, "ghost@x.io"})
	require.NoError(t, err)
	assert.Equal(t, []string{b.Email}, grouped)

	require.NoError(t, s.CreateTransaction(ctx, &models.Transaction{Username: "a", Type: "food", Amount: 3, Date: time.Now().UTC()}))
	deleted, left, err := s.DeleteUser(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.True(t, left)

	got, err := s.FindGroupByName(ctx, "family")
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
	assert.Equal(t, b.Email, got.Members[0].Email)

	_, _, err = s.DeleteUser(ctx, b)
	require.NoError(t, err)
	_, err = s.FindGroupByName(ctx, "family")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestStore_Transactions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.CreateCategory(ctx, &models.Category{Type: "food", Color: "red"}))

	day := func(d int) time.Time { return time.Date(2026, 3, d, 10, 0, 0, 0, time.UTC) }
	for i, amount := range []float64{10, 50, 100} {
		require.NoError(t, s.CreateTransaction(ctx, &models.Transaction{Username: "a", Type: "food", Amount: amount, Date: day(i + 1)}))
	}

	minAmount := 20.0
	views, err := s.ListTransactions(ctx, repo.TransactionFilter{Usernames: []string{"a"}, Min: &minAmount})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 100.0, views[0].Amount)
	assert.Equal(t, "red", views[0].Color)

	moved, err := s.UpdateCategory(ctx, "food", "groceries", "green")
	require.NoError(t, err)
	assert.Equal(t, int64(3), moved)

	_, err = s.DeleteTransactions(ctx, []string{views[0].ID, "missing"})
	assert.ErrorIs(t, err, repo.ErrNotFound)
	n, err := s.DeleteTransactions(ctx, []string{views[0].ID, views[1].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
