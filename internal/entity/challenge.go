package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Challenge dates are stored as plain YYYY-MM-DD strings. The "today" lookup is
// an exact match on start_date, not a range query: a challenge whose window
// spans today but started on an earlier date does not surface as today's.
type Challenge struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	StartDate   string    `gorm:"size:10;index;not null" json:"start_date"`
	EndDate     string    `gorm:"size:10;not null" json:"end_date"`
	IsSpecial   bool      `gorm:"default:false" json:"is_special"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
