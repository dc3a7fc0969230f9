package note

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"notely/internal/category"
)

const (
	MaxTitleLen = 40
	copyPrefix  = "Copy of "
)

// Note is owned by exactly one user. IsActive=false means archived.
type Note struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string              `gorm:"not null" json:"title"`
	Content    string              `gorm:"not null" json:"content"`
	IsActive   bool                `gorm:"not null" json:"isActive"`
	UserID     uuid.UUID           `gorm:"type:uuid;not null" json:"userId"`
	Categories []category.Category `gorm:"many2many:notes_categories;" json:"categories"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

func (n *Note) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// CopyTitle prefixes title for a duplicate, truncated to MaxTitleLen runes.
func CopyTitle(title string) string {
	r := []rune(copyPrefix + title)
	if len(r) > MaxTitleLen {
		r = r[:MaxTitleLen]
	}
	return string(r)
}

// Patch holds the fields of a partial update. Nil means "leave as is";
// a non-nil CategoryIDs replaces the whole category set.
type Patch struct {
	Title       *string
	Content     *string
	CategoryIDs *[]uuid.UUID
}
