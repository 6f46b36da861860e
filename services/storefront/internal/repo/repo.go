package repo

import (
	"github.com/Skotchmaster/tonstore/services/storefront/internal/models"
	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.ProductColor{},
		&models.ProductMemory{},
		&models.Order{},
		&models.OrderItem{},
	)
}
