package models

import "time"

// DailyStat aggregates site visits and artwork views for one local (UTC+9) calendar day.
type DailyStat struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Date           string    `gorm:"size:10;uniqueIndex;not null" json:"date"`
	VisitorCount   int64     `gorm:"not null;default:0" json:"visitor_count"`
	TotalViewCount int64     `gorm:"not null;default:0" json:"total_view_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// All lists every model for schema creation at startup.
func All() []interface{} {
	return []interface{}{&User{}, &Artwork{}, &Comment{}, &DailyStat{}}
}
