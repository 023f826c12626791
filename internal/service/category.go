package service

import (
	"context"
	"slices"

	"github.com/Skotchmaster/ezwallet/internal/apperr"
	"github.com/Skotchmaster/ezwallet/internal/models"
	"github.com/Skotchmaster/ezwallet/internal/transport"
	"github.com/Skotchmaster/ezwallet/pkg/events"
	"github.com/Skotchmaster/ezwallet/pkg/logging"
)

var (
	ErrCategoryExists     = apperr.Conflict("Category already exists")
	ErrCategoryTypeExists = apperr.Conflict("Category type already exists")
	ErrCategoryNotFound   = apperr.NotFound("Category not found")
	ErrLastCategory       = apperr.Validation("Cannot delete the last category")
)

type CategoryService struct {
	Store  CategoryStore
	Events events.Publisher
}

func NewCategoryService(store CategoryStore, pub events.Publisher) *CategoryService {
	return &CategoryService{Store: store, Events: pub}
}

func (s *CategoryService) Create(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	l := logging.FromContext(ctx).With("svc", "categories.create")

	if !transport.Present(req.Type, req.Color) {
		return nil, ErrMissingAttributes
	}
	if transport.Blank(*req.Type, *req.Color) {
		return nil, ErrEmptyAttributes
	}

	if _, err := s.Store.FindCategory(ctx, *req.Type); err == nil {
		l.Warn("create_category_failed", "status", 400, "reason", "category exists", "type", *req.Type)
		return nil, ErrCategoryExists
	} else if err := ignoreNotFound(err); err != nil {
		return nil, internal(ctx, "create_category_failed", err)
	}

	c := &models.Category{Type: *req.Type, Color: *req.Color}
	if err := s.Store.CreateCategory(ctx, c); err != nil {
		return nil, internal(ctx, "create_category_failed", err)
	}

	publish(ctx, s.Events, events.TopicCategories, c.Type, "category_created", c)
	l.Info("create_category_success", "type", c.Type)
	return c, nil
}

// Update renames and recolors a category; its transactions follow the new type.
func (s *CategoryService) Update(ctx context.Context, oldType string, req transport.CategoryRequest) (*transport.CountMessage, error) {
	l := logging.FromContext(ctx).With("svc", "categories.update", "type", oldType)

	if !transport.Present(req.Type, req.Color) {
		return nil, ErrMissingAttributes
	}
	if transport.Blank(*req.Type, *req.Color) {
		return nil, ErrEmptyAttributes
	}
	if _, err := s.Store.FindCategory(ctx, oldType); err != nil {
		return nil, notFoundOr(ctx, err, ErrCategoryNotFound, "update_category_failed")
	}
	if *req.Type != oldType {
		if _, err := s.Store.FindCategory(ctx, *req.Type); err == nil {
			l.Warn("update_category_failed", "status", 400, "reason", "new type exists")
			return nil, ErrCategoryTypeExists
		} else if err := ignoreNotFound(err); err != nil {
			return nil, internal(ctx, "update_category_failed", err)
		}
	}

	moved, err := s.Store.UpdateCategory(ctx, oldType, *req.Type, *req.Color)
	if err != nil {
		return nil, notFoundOr(ctx, err, ErrCategoryNotFound, "update_category_failed")
	}

	publish(ctx, s.Events, events.TopicCategories, *req.Type, "category_updated", map[string]any{
		"oldType": oldType, "type": *req.Type, "color": *req.Color, "count": moved,
	})
	l.Info("update_category_success", "new_type", *req.Type, "moved", moved)
	return &transport.CountMessage{Message: "Category edited successfully", Count: moved}, nil
}

// Delete removes categories and moves their transactions to the oldest
// remaining category. When every category is named the oldest one is kept.
func (s *CategoryService) Delete(ctx context.Context, req transport.TypesRequest) (*transport.CountMessage, error) {
	l := logging.FromContext(ctx).With("svc", "categories.delete")

	if req.Types == nil {
		return nil, ErrMissingAttributes
	}
	if len(*req.Types) == 0 || transport.Blank(*req.Types...) {
		return nil, ErrEmptyAttributes
	}

	all, err := s.Store.ListCategories(ctx)
	if err != nil {
		return nil, internal(ctx, "delete_categories_failed", err)
	}
	if len(all) <= 1 {
		l.Warn("delete_categories_failed", "status", 400, "reason", "last category")
		return nil, ErrLastCategory
	}

	types := dedupe(*req.Types)
	existing := make([]string, 0, len(all))
	for _, c := range all {
		existing = append(existing, c.Type)
	}
	for _, t := range types {
		if !slices.Contains(existing, t) {
			l.Warn("delete_categories_failed", "status", 400, "reason", "unknown type", "type", t)
			return nil, ErrCategoryNotFound
		}
	}

	if len(types) == len(existing) {
		types = slices.DeleteFunc(types, func(t string) bool { return t == existing[0] })
	}
	var fallback string
	for _, t := range existing {
		if !slices.Contains(types, t) {
			fallback = t
			break
		}
	}

	moved, err := s.Store.DeleteCategories(ctx, types, fallback)
	if err != nil {
		return nil, internal(ctx, "delete_categories_failed", err)
	}

	publish(ctx, s.Events, events.TopicCategories, fallback, "categories_deleted", map[string]any{
		"types": types, "movedTo": fallback, "count": moved,
	})
	l.Info("delete_categories_success", "deleted", len(types), "moved", moved)
	return &transport.CountMessage{Message: "Categories deleted", Count: moved}, nil
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	cats, err := s.Store.ListCategories(ctx)
	if err != nil {
		return nil, internal(ctx, "list_categories_failed", err)
	}
	return cats, nil
}
