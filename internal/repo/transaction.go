package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/ezwallet/internal/models"
)

func (r *GormRepo) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

// ListTransactions returns matching transactions joined with their category
// color, newest first.
func (r *GormRepo) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.TransactionView, error) {
	views := []models.TransactionView{}
	if f.Usernames != nil && len(f.Usernames) == 0 {
		return views, nil
	}

	q := r.DB.WithContext(ctx).
		Table("transactions AS t").
		Select("t.id, t.username, t.type, t.amount, t.date, COALESCE(c.color, '') AS color").
		Joins("LEFT JOIN categories AS c ON c.type = t.type")
	q = applyFilter(q, f)

	if err := q.Order("t.date DESC").Order("t.id ASC").Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

func applyFilter(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Usernames != nil {
		q = q.Where("t.username IN ?", f.Usernames)
	}
	if f.Type != "" {
		q = q.Where("t.type = ?", f.Type)
	}
	if f.From != nil {
		q = q.Where("t.date >= ?", *f.From)
	}
	if f.Before != nil {
		q = q.Where("t.date < ?", *f.Before)
	}
	if f.Min != nil {
		q = q.Where("t.amount >= ?", *f.Min)
	}
	if f.Max != nil {
		q = q.Where("t.amount <= ?", *f.Max)
	}
	return q
}

// DeleteTransaction removes one transaction owned by username.
func (r *GormRepo) DeleteTransaction(ctx context.Context, id, username string) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND username = ?", id, username).Delete(&models.Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTransactions removes every id or none of them.
func (r *GormRepo) DeleteTransactions(ctx context.Context, ids []string) (int64, error) {
	var deleted int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Transaction{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(ids)) {
			return ErrNotFound
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Transaction{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}
