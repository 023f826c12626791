package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/ezwallet/internal/models"
)

func orderedMembers(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// CreateGroup stores the group and its members in one transaction.
func (r *GormRepo) CreateGroup(ctx context.Context, g *models.Group) error {
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(g).Error
	}))
}

func (r *GormRepo) FindGroupByName(ctx context.Context, name string) (*models.Group, error) {
	var g models.Group
	err := r.DB.WithContext(ctx).
		Preload("Members", orderedMembers).
		Where("name = ?", name).
		First(&g).Error
	if err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *GormRepo) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := r.DB.WithContext(ctx).
		Preload("Members", orderedMembers).
		Order("created_at ASC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// GroupedEmails returns the subset of emails that already belong to a group.
func (r *GormRepo) GroupedEmails(ctx context.Context, emails []string) ([]string, error) {
	var found []string
	if len(emails) == 0 {
		return found, nil
	}
	err := r.DB.WithContext(ctx).Model(&models.GroupMember{}).
		Where("email IN ?", emails).
		Pluck("email", &found).Error
	return found, err
}

// AddMembers appends members after the current last position.
func (r *GormRepo) AddMembers(ctx context.Context, groupID string, members []models.GroupMember) error {
	if len(members) == 0 {
		return nil
	}
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last struct{ Max *int }
		if err := tx.Model(&models.GroupMember{}).
			Select("MAX(position) AS max").
			Where("group_id = ?", groupID).
			Scan(&last).Error; err != nil {
			return err
		}
		next := 0
		if last.Max != nil {
			next = *last.Max + 1
		}
		for i := range members {
			members[i].GroupID = groupID
			members[i].Position = next + i
		}
		return tx.Create(&members).Error
	}))
}

func (r *GormRepo) RemoveMembers(ctx context.Context, groupID string, emails []string) error {
	if len(emails) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Where("group_id = ? AND email IN ?", groupID, emails).
		Delete(&models.GroupMember{}).Error
}

func (r *GormRepo) DeleteGroup(ctx context.Context, groupID string) error {
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Group{}, "id = ?", groupID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}
