package models

import "time"

// Artwork is one exhibited piece. Views only grows, except for the admin bulk reset.
type Artwork struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:100;not null" json:"title"`
	Artist       string    `gorm:"size:50;index;not null" json:"artist"`
	Medium       string    `gorm:"size:200;not null" json:"medium"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	ImageFile    string    `gorm:"size:255;not null" json:"image_file"`
	ThumbFile    string    `gorm:"size:255" json:"thumb_file"`
	Room         int       `gorm:"index;not null;default:1" json:"room"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	Views        int64     `gorm:"not null;default:0" json:"views"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Comments     []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`
}

// ImageRef returns the thumbnail when one was generated, the original image otherwise.
func (a Artwork) ImageRef() string {
	if a.ThumbFile != "" {
		return a.ThumbFile
	}
	return a.ImageFile
}
