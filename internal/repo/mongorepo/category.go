package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/ezwallet/internal/models"
	"github.com/Skotchmaster/ezwallet/internal/repo"
)

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	stamp(&c.ID, &c.CreatedAt)
	_, err := s.col(colCategories).InsertOne(ctx, c)
	return translate(err)
}

func (s *Store) FindCategory(ctx context.Context, typ string) (*models.Category, error) {
	var c models.Category
	if err := s.col(colCategories).FindOne(ctx, bson.M{"type": typ}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	return findAll[models.Category](ctx, s.col(colCategories), bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
}

func (s *Store) UpdateCategory(ctx context.Context, oldType, newType, color string) (int64, error) {
	res, err := s.col(colCategories).UpdateOne(ctx,
		bson.M{"type": oldType},
		bson.M{"$set": bson.M{"type": newType, "color": color}})
	if err != nil {
		return 0, translate(err)
	}
	if res.MatchedCount == 0 {
		return 0, repo.ErrNotFound
	}
	if oldType == newType {
		return 0, nil
	}
	moved, err := s.col(colTransactions).UpdateMany(ctx,
		bson.M{"type": oldType},
		bson.M{"$set": bson.M{"type": newType}})
	if err != nil {
		return 0, err
	}
	return moved.ModifiedCount, nil
}

func (s *Store) DeleteCategories(ctx context.Context, types []string, fallback string) (int64, error) {
	if _, err := s.col(colCategories).DeleteMany(ctx, bson.M{"type": bson.M{"$in": types}}); err != nil {
		return 0, err
	}
	moved, err := s.col(colTransactions).UpdateMany(ctx,
		bson.M{"type": bson.M{"$in": types}},
		bson.M{"$set": bson.M{"type": fallback}})
	if err != nil {
		return 0, err
	}
	return moved.ModifiedCount, nil
}
