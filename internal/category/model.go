package category

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxNameLen = 50

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
