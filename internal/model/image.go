package model

import "time"

// Image is the metadata of an uploaded file. Path holds the public URL
// the file is served from.
type Image struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Path      string    `gorm:"not null" json:"path"`
	CreatedAt time.Time `json:"createdAt"`
}
