package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ezwallet/internal/repo"
	"github.com/Skotchmaster/ezwallet/internal/transport"
	"github.com/Skotchmaster/ezwallet/pkg/events"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestCategoryService_Create(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	svc := NewCategoryService(e.store, e.events)
	ctx := context.Background()

	_, err := svc.Create(ctx, transport.CategoryRequest{Type: ptr("food")})
	assert.ErrorIs(t, err, ErrMissingAttributes)
	_, err = svc.Create(ctx, transport.CategoryRequest{Type: ptr("food"), Color: ptr(" ")})
	assert.ErrorIs(t, err, ErrEmptyAttributes)

	c, err := svc.Create(ctx, transport.CategoryRequest{Type: ptr("food"), Color: ptr("red")})
	require.NoError(t, err)
	assert.Equal(t, "food", c.Type)

	_, err = svc.Create(ctx, transport.CategoryRequest{Type: ptr("food"), Color: ptr("blue")})
	assert.ErrorIs(t, err, ErrCategoryExists)

	cats, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	ev, ok := e.events.Last(events.TopicCategories)
	require.True(t, ok)
	assert.Equal(t, "category_created", ev.Event["type"])
}

func TestCategoryService_Update(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	svc := NewCategoryService(e.store, e.events)
	ctx := context.Background()
	e.category(t, "food", "red", epoch)
	e.category(t, "rent", "blue", epoch.Add(time.Hour))
	e.transaction(t, "a", "food", 1, epoch)
	e.transaction(t, "a", "food", 2, epoch)

	_, err := svc.Update(ctx, "ghost", transport.CategoryRequest{Type: ptr("x"), Color: ptr("y")})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	_, err = svc.Update(ctx, "food", transport.CategoryRequest{Type: ptr("rent"), Color: ptr("y")})
	assert.ErrorIs(t, err, ErrCategoryTypeExists)

	res, err := svc.Update(ctx, "food", transport.CategoryRequest{Type: ptr("groceries"), Color: ptr("green")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Count)

	res, err = svc.Update(ctx, "groceries", transport.CategoryRequest{Type: ptr("groceries"), Color: ptr("black")})
	require.NoError(t, err)
	assert.Zero(t, res.Count)

	c, err := e.store.FindCategory(ctx, "groceries")
	require.NoError(t, err)
	assert.Equal(t, "black", c.Color)
}

func TestCategoryService_Delete(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	svc := NewCategoryService(e.store, e.events)
	ctx := context.Background()
	e.category(t, "investment", "gold", epoch)

	_, err := svc.Delete(ctx, transport.TypesRequest{})
	assert.ErrorIs(t, err, ErrMissingAttributes)
	_, err = svc.Delete(ctx, transport.TypesRequest{Types: &[]string{}})
	assert.ErrorIs(t, err, ErrEmptyAttributes)
	_, err = svc.Delete(ctx, transport.TypesRequest{Types: &[]string{"investment"}})
	assert.ErrorIs(t, err, ErrLastCategory)

	e.category(t, "food", "red", epoch.Add(time.Hour))
	e.category(t, "rent", "blue", epoch.Add(2*time.Hour))
	e.transaction(t, "a", "food", 1, epoch)
	e.transaction(t, "a", "rent", 2, epoch)

	_, err = svc.Delete(ctx, transport.TypesRequest{Types: &[]string{"food", "ghost"}})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	_, err = svc.Delete(ctx, transport.TypesRequest{Types: &[]string{"food", " "}})
	assert.ErrorIs(t, err, ErrEmptyAttributes)

	res, err := svc.Delete(ctx, transport.TypesRequest{Types: &[]string{"investment", "food", "rent"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Count)

	cats, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "investment", cats[0].Type)

	views, err := e.store.ListTransactions(ctx, repo.TransactionFilter{Type: "investment"})
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestCategoryService_DeleteMovesToOldestRemaining(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	svc := NewCategoryService(e.store, e.events)
	ctx := context.Background()
	e.category(t, "investment", "gold", epoch)
	e.category(t, "food", "red", epoch.Add(time.Hour))
	e.category(t, "rent", "blue", epoch.Add(2*time.Hour))
	e.transaction(t, "a", "investment", 1, epoch)

	res, err := svc.Delete(ctx, transport.TypesRequest{Types: &[]string{"investment"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Count)

	views, err := e.store.ListTransactions(ctx, repo.TransactionFilter{Type: "food"})
	require.NoError(t, err)
	assert.Len(t, views, 1)
}
