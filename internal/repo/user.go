package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/ezwallet/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return translate(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, "email = ?", email)
}

func (r *GormRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findUser(ctx, "username = ?", username)
}

func (r *GormRepo) FindUserByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return r.findUser(ctx, "refresh_token = ?", token)
}

func (r *GormRepo) findUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) FindUsersByEmails(ctx context.Context, emails []string) ([]models.User, error) {
	var users []models.User
	if len(emails) == 0 {
		return users, nil
	}
	if err := r.DB.WithContext(ctx).Where("email IN ?", emails).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetRefreshToken overwrites the stored session; nil clears it.
func (r *GormRepo) SetRefreshToken(ctx context.Context, userID string, token *string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) RefreshTokenMatches(ctx context.Context, username, token string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND refresh_token = ?", username, token).
		Count(&count).Error
	return count > 0, err
}

// DeleteUser removes the user with their transactions and group membership.
// A group left without members is deleted too.
func (r *GormRepo) DeleteUser(ctx context.Context, u *models.User) (deletedTransactions int64, leftGroup bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("username = ?", u.Username).Delete(&models.Transaction{})
		if res.Error != nil {
			return res.Error
		}
		deletedTransactions = res.RowsAffected

		var member models.GroupMember
		err := tx.Where("email = ?", u.Email).First(&member).Error
		switch {
		case err == nil:
			if err := tx.Delete(&member).Error; err != nil {
				return err
			}
			leftGroup = true
			if err := deleteGroupIfEmpty(tx, member.GroupID); err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		res = tx.Delete(&models.User{}, "id = ?", u.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return deletedTransactions, leftGroup, err
}

func deleteGroupIfEmpty(tx *gorm.DB, groupID string) error {
	var remaining int64
	if err := tx.Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&remaining).Error; err != nil {
		return err
	}
	if remaining > 0 {
		return nil
	}
	return tx.Delete(&models.Group{}, "id = ?", groupID).Error
}
