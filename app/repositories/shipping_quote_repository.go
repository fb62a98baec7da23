package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/pisangijoevi/ongkir/app/helpers"
	"github.com/pisangijoevi/ongkir/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ShippingQuoteRepository interface {
	RecordQuote(ctx context.Context, req models.QuoteRequest, result models.CostResult) error
	FindRecent(ctx context.Context, limit int) ([]models.ShippingQuoteLog, error)
	CountBySourceSince(ctx context.Context, since time.Time) (map[string]int64, error)
}

type GormShippingQuoteRepository struct {
	db *gorm.DB
}

func NewGormShippingQuoteRepository(db *gorm.DB) *GormShippingQuoteRepository {
	return &GormShippingQuoteRepository{db: db}
}

func (r *GormShippingQuoteRepository) RecordQuote(ctx context.Context, req models.QuoteRequest, result models.CostResult) error {
	services := 0
	for _, c := range result.Costs {
		services += len(c.Services)
	}

	entry := &models.ShippingQuoteLog{
		RequestID:     helpers.RequestID(ctx),
		Origin:        req.OriginCityID,
		Destination:   req.DestinationCityID,
		WeightGrams:   req.WeightGrams,
		Courier:       req.CarrierCode,
		Source:        string(result.Source),
		Success:       result.Success,
		CheapestCost:  decimal.NewFromInt(result.Cheapest()),
		ServicesCount: services,
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record shipping quote: %w", err)
	}
	return nil
}

func (r *GormShippingQuoteRepository) FindRecent(ctx context.Context, limit int) ([]models.ShippingQuoteLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var logs []models.ShippingQuoteLog
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to find recent shipping quotes: %w", err)
	}
	return logs, nil
}

func (r *GormShippingQuoteRepository) CountBySourceSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	var rows []struct {
		Source string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.ShippingQuoteLog{}).
		Select("source, COUNT(*) AS total").
		Where("created_at >= ?", since).
		Group("source").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count shipping quotes by source: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Source] = row.Total
	}
	return out, nil
}
