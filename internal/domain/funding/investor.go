package funding

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Investor carries nothing but its name and never changes after creation.
type Investor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:256;not null;uniqueIndex:idx_investor_name" json:"name"`
	NameKey   string    `gorm:"column:name_key;size:256;not null;uniqueIndex:idx_investor_name_key" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Investor) TableName() string { return "investor" }

func (i *Investor) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
