package repo

import (
	"context"

	"github.com/Skotchmaster/tonstore/services/storefront/internal/models"
	"gorm.io/gorm"
)

// CreateOrder writes the order row and its items in one transaction.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// AttachCharge records the processor session code and moves the order to
// pending. It only matches an order that is still new and has no code, so the
// code is written at most once.
func (r *GormRepo) AttachCharge(ctx context.Context, id uint, code string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND charge_code IS NULL AND status = ?", id, string(models.OrderStatusNew)).
		Updates(map[string]any{
			"charge_code": code,
			"status":      string(models.OrderStatusPending),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetStatus overwrites the status by id with no check of the current value.
// Returns the number of matched rows (0 for an unknown id).
func (r *GormRepo) SetStatus(ctx context.Context, id uint, status models.OrderStatus) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *GormRepo) CountOrders(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
