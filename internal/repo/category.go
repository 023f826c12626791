package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/ezwallet/internal/models"
)

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(r.DB.WithContext(ctx).Create(c).Error)
}

func (r *GormRepo) FindCategory(ctx context.Context, typ string) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).Where("type = ?", typ).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// ListCategories returns categories oldest first.
func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

// UpdateCategory renames and recolors a category, moving its transactions to
// the new type. It returns how many transactions moved.
func (r *GormRepo) UpdateCategory(ctx context.Context, oldType, newType, color string) (int64, error) {
	var moved int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Category{}).
			Where("type = ?", oldType).
			Updates(map[string]any{"type": newType, "color": color})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if oldType == newType {
			return nil
		}
		res = tx.Model(&models.Transaction{}).Where("type = ?", oldType).Update("type", newType)
		moved = res.RowsAffected
		return res.Error
	})
	return moved, translate(err)
}

// DeleteCategories removes types and moves their transactions to fallback.
func (r *GormRepo) DeleteCategories(ctx context.Context, types []string, fallback string) (int64, error) {
	var moved int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("type IN ?", types).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Transaction{}).Where("type IN ?", types).Update("type", fallback)
		moved = res.RowsAffected
		return res.Error
	})
	return moved, err
}
