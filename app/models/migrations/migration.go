package migrations

import (
	"github.com/pisangijoevi/ongkir/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.ShippingQuoteLog{})
}
