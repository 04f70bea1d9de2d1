package stats

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/exhibition/models"
)

// Summary is the admin console's statistics panel.
type Summary struct {
	Today          models.DailyStat   `json:"today"`
	TotalVisitors  int64              `json:"total_visitors"`
	TotalDailyView int64              `json:"total_daily_views"`
	LiveViews      int64              `json:"live_views"`
	ArtworkCount   int64              `json:"artwork_count"`
	CommentCount   int64              `json:"comment_count"`
	TopArtworks    []models.Artwork   `json:"top_artworks"`
	Recent         []models.DailyStat `json:"recent"`
}

// Reader aggregates counters for display. It never writes.
type Reader struct {
	counter *Counter
}

// NewReader returns a Reader sharing the counter's store and clock.
func NewReader(c *Counter) *Reader {
	return &Reader{counter: c}
}

// Today returns today's row, or a zero row carrying today's date when nothing was counted yet.
func (r *Reader) Today(ctx context.Context) (models.DailyStat, error) {
	day := r.counter.Today()
	var row models.DailyStat
	err := r.counter.db.WithContext(ctx).Where("date = ?", day).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DailyStat{Date: day}, nil
	}
	if err != nil {
		return models.DailyStat{}, fmt.Errorf("load today's stats: %w", err)
	}
	return row, nil
}

// Recent returns up to days rows, newest first.
func (r *Reader) Recent(ctx context.Context, days int) ([]models.DailyStat, error) {
	if days <= 0 {
		days = 30
	}
	var rows []models.DailyStat
	if err := r.counter.db.WithContext(ctx).Order("date DESC").Limit(days).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load recent stats: %w", err)
	}
	return rows, nil
}

// Summary collects every figure shown on the admin console.
func (r *Reader) Summary(ctx context.Context, recentDays, top int) (Summary, error) {
	var s Summary
	var err error
	db := r.counter.db.WithContext(ctx)

	if s.Today, err = r.Today(ctx); err != nil {
		return s, err
	}
	if s.Recent, err = r.Recent(ctx, recentDays); err != nil {
		return s, err
	}

	if err := db.Model(&models.DailyStat{}).Select("COALESCE(SUM(visitor_count),0)").Scan(&s.TotalVisitors).Error; err != nil {
		return s, fmt.Errorf("sum visitors: %w", err)
	}
	if err := db.Model(&models.DailyStat{}).Select("COALESCE(SUM(total_view_count),0)").Scan(&s.TotalDailyView).Error; err != nil {
		return s, fmt.Errorf("sum daily views: %w", err)
	}
	if err := db.Model(&models.Artwork{}).Select("COALESCE(SUM(views),0)").Scan(&s.LiveViews).Error; err != nil {
		return s, fmt.Errorf("sum artwork views: %w", err)
	}
	if err := db.Model(&models.Artwork{}).Count(&s.ArtworkCount).Error; err != nil {
		return s, fmt.Errorf("count artworks: %w", err)
	}
	if err := db.Model(&models.Comment{}).Count(&s.CommentCount).Error; err != nil {
		return s, fmt.Errorf("count comments: %w", err)
	}
	if top > 0 {
		if err := db.Where("views > ?", 0).Order("views DESC").Order("id ASC").Limit(top).Find(&s.TopArtworks).Error; err != nil {
			return s, fmt.Errorf("load top artworks: %w", err)
		}
	}
	return s, nil
}
