package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Skotchmaster/ezwallet/internal/models"
	"github.com/Skotchmaster/ezwallet/internal/repo"
)

func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	stamp(&t.ID, &t.CreatedAt)
	_, err := s.col(colTransactions).InsertOne(ctx, t)
	return err
}

// ListTransactions joins each transaction with its category color via $lookup.
func (s *Store) ListTransactions(ctx context.Context, f repo.TransactionFilter) ([]models.TransactionView, error) {
	views := []models.TransactionView{}
	if f.Usernames != nil && len(f.Usernames) == 0 {
		return views, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: matchFilter(f)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         colCategories,
			"localField":   "type",
			"foreignField": "type",
			"as":           "category",
		}}},
		{{Key: "$project", Value: bson.M{
			"username": 1,
			"type":     1,
			"amount":   1,
			"date":     1,
			"color": bson.M{"$ifNull": bson.A{
				bson.M{"$arrayElemAt": bson.A{"$category.color", 0}}, "",
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := s.col(colTransactions).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func matchFilter(f repo.TransactionFilter) bson.M {
	match := bson.M{}
	if f.Usernames != nil {
		match["username"] = bson.M{"$in": f.Usernames}
	}
	if f.Type != "" {
		match["type"] = f.Type
	}
	date := bson.M{}
	if f.From != nil {
		date["$gte"] = *f.From
	}
	if f.Before != nil {
		date["$lt"] = *f.Before
	}
	if len(date) > 0 {
		match["date"] = date
	}
	amount := bson.M{}
	if f.Min != nil {
		amount["$gte"] = *f.Min
	}
	if f.Max != nil {
		amount["$lte"] = *f.Max
	}
	if len(amount) > 0 {
		match["amount"] = amount
	}
	return match
}

func (s *Store) DeleteTransaction(ctx context.Context, id, username string) error {
	res, err := s.col(colTransactions).DeleteOne(ctx, bson.M{"_id": id, "username": username})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTransactions(ctx context.Context, ids []string) (int64, error) {
	filter := bson.M{"_id": bson.M{"$in": ids}}
	n, err := s.col(colTransactions).CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}
	if n != int64(len(ids)) {
		return 0, repo.ErrNotFound
	}
	res, err := s.col(colTransactions).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
