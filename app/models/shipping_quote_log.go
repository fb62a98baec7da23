package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ShippingQuoteLog struct {
	ID            string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	RequestID     string          `gorm:"size:36;index" json:"request_id"`
	Origin        string          `gorm:"size:20;not null" json:"origin"`
	Destination   string          `gorm:"size:20;not null;index" json:"destination"`
	WeightGrams   int             `gorm:"not null" json:"weight_grams"`
	Courier       string          `gorm:"size:20;not null" json:"courier"`
	Source        string          `gorm:"size:20;not null" json:"source"`
	Success       bool            `json:"success"`
	CheapestCost  decimal.Decimal `gorm:"type:decimal(16,2);" json:"cheapest_cost"`
	ServicesCount int             `json:"services_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (l *ShippingQuoteLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return
}
