package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/ezwallet/internal/models"
	"github.com/Skotchmaster/ezwallet/internal/repo"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	stamp(&u.ID, &u.CreatedAt)
	_, err := s.col(colUsers).InsertOne(ctx, u)
	return translate(err)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *Store) FindUserByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"refreshToken": token})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.col(colUsers).FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) FindUsersByEmails(ctx context.Context, emails []string) ([]models.User, error) {
	if len(emails) == 0 {
		return []models.User{}, nil
	}
	return findAll[models.User](ctx, s.col(colUsers), bson.M{"email": bson.M{"$in": emails}})
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.col(colUsers), bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (s *Store) SetRefreshToken(ctx context.Context, userID string, token *string) error {
	update := bson.M{"$unset": bson.M{"refreshToken": ""}}
	if token != nil {
		update = bson.M{"$set": bson.M{"refreshToken": *token}}
	}
	res, err := s.col(colUsers).UpdateByID(ctx, userID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) RefreshTokenMatches(ctx context.Context, username, token string) (bool, error) {
	n, err := s.col(colUsers).CountDocuments(ctx, bson.M{"username": username, "refreshToken": token})
	return n > 0, err
}

func (s *Store) DeleteUser(ctx context.Context, u *models.User) (int64, bool, error) {
	res, err := s.col(colTransactions).DeleteMany(ctx, bson.M{"username": u.Username})
	if err != nil {
		return 0, false, err
	}
	deleted := res.DeletedCount

	upd, err := s.col(colGroups).UpdateOne(ctx,
		bson.M{"members.email": u.Email},
		bson.M{"$pull": bson.M{"members": bson.M{"email": u.Email}}})
	if err != nil {
		return deleted, false, err
	}
	left := upd.ModifiedCount > 0
	if left {
		if _, err := s.col(colGroups).DeleteMany(ctx, bson.M{"members": bson.M{"$size": 0}}); err != nil {
			return deleted, left, err
		}
	}

	del, err := s.col(colUsers).DeleteOne(ctx, bson.M{"_id": u.ID})
	if err != nil {
		return deleted, left, err
	}
	if del.DeletedCount == 0 {
		return deleted, left, repo.ErrNotFound
	}
	return deleted, left, nil
}
