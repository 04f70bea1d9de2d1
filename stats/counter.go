// Package stats counts site visits and artwork views into per-day aggregates.
//
// Days are bucketed in local exhibition time, a fixed UTC+9 offset that does not depend on the
// host timezone. Deduplication per browser session is the caller's job; every call here counts.
package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/exhibition/models"
)

// LocalOffset is the exhibition's fixed offset from UTC.
const LocalOffset = 9 * time.Hour

// ErrArtworkNotFound is returned by RecordView when no artwork has the given id.
var ErrArtworkNotFound = errors.New("artwork not found")

// LocalDate returns the YYYY-MM-DD key of the local day containing t.
func LocalDate(t time.Time) string {
	return t.UTC().Add(LocalOffset).Format("2006-01-02")
}

// Counter writes visit and view increments.
type Counter struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCounter returns a Counter using the wall clock.
func NewCounter(db *gorm.DB) *Counter {
	return &Counter{db: db, now: time.Now}
}

// WithClock returns a copy of c reading time from now.
func (c *Counter) WithClock(now func() time.Time) *Counter {
	return &Counter{db: c.db, now: now}
}

// Today returns the current local date key.
func (c *Counter) Today() string {
	return LocalDate(c.now())
}

// RecordVisit adds one visitor to today's row, creating the row on the first event of the day.
func (c *Counter) RecordVisit(ctx context.Context) error {
	if err := bumpDaily(c.db.WithContext(ctx), c.Today(), "visitor_count"); err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordView adds one view to the artwork and to today's total in a single transaction.
func (c *Counter) RecordView(ctx context.Context, artworkID uint) error {
	day := c.Today()
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Artwork{}).
			Where("id = ?", artworkID).
			UpdateColumn("views", gorm.Expr("views + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrArtworkNotFound
		}
		return bumpDaily(tx, day, "total_view_count")
	})
	if err != nil {
		return fmt.Errorf("record view of artwork %d: %w", artworkID, err)
	}
	return nil
}

// ResetViews zeroes every artwork's counter. Daily totals already recorded are left as they are.
func (c *Counter) ResetViews(ctx context.Context) (int64, error) {
	res := c.db.WithContext(ctx).Model(&models.Artwork{}).
		Where("views <> ?", 0).
		UpdateColumn("views", 0)
	if res.Error != nil {
		return 0, fmt.Errorf("reset views: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// bumpDaily increments one column of the day's row with an atomic upsert, so two requests racing
// on a new day both land on the same row.
func bumpDaily(tx *gorm.DB, day, column string) error {
	row := models.DailyStat{Date: day}
	switch column {
	case "visitor_count":
		row.VisitorCount = 1
	case "total_view_count":
		row.TotalViewCount = 1
	default:
		return fmt.Errorf("unknown daily column %q", column)
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			column:       gorm.Expr(column+" + ?", 1),
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error
}
