package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/ezwallet/internal/models"
	"github.com/Skotchmaster/ezwallet/internal/repo"
)

func (s *Store) CreateGroup(ctx context.Context, g *models.Group) error {
	stamp(&g.ID, &g.CreatedAt)
	if g.Members == nil {
		g.Members = []models.GroupMember{}
	}
	_, err := s.col(colGroups).InsertOne(ctx, g)
	return translate(err)
}

func (s *Store) FindGroupByName(ctx context.Context, name string) (*models.Group, error) {
	var g models.Group
	if err := s.col(colGroups).FindOne(ctx, bson.M{"name": name}).Decode(&g); err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (s *Store) ListGroups(ctx context.Context) ([]models.Group, error) {
	return findAll[models.Group](ctx, s.col(colGroups), bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (s *Store) GroupedEmails(ctx context.Context, emails []string) ([]string, error) {
	found := []string{}
	if len(emails) == 0 {
		return found, nil
	}
	groups, err := findAll[models.Group](ctx, s.col(colGroups), bson.M{"members.email": bson.M{"$in": emails}})
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		wanted[e] = struct{}{}
	}
	for _, g := range groups {
		for _, m := range g.Members {
			if _, ok := wanted[m.Email]; ok {
				found = append(found, m.Email)
			}
		}
	}
	return found, nil
}

// AddMembers appends to the embedded member array, which keeps insertion order.
func (s *Store) AddMembers(ctx context.Context, groupID string, members []models.GroupMember) error {
	if len(members) == 0 {
		return nil
	}
	res, err := s.col(colGroups).UpdateByID(ctx, groupID,
		bson.M{"$push": bson.M{"members": bson.M{"$each": members}}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) RemoveMembers(ctx context.Context, groupID string, emails []string) error {
	if len(emails) == 0 {
		return nil
	}
	_, err := s.col(colGroups).UpdateByID(ctx, groupID,
		bson.M{"$pull": bson.M{"members": bson.M{"email": bson.M{"$in": emails}}}})
	return err
}

func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.col(colGroups).DeleteOne(ctx, bson.M{"_id": groupID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}
