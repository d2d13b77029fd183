package funding

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FundingRound is unique per (CompanyID, Stage). AnnouncedAt holds an ISO date (YYYY-MM-DD)
// so range filters compare lexically on every backend.
type FundingRound struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_funding_round_company_stage,priority:1" json:"company_id"`
	Company   *Company  `gorm:"constraint:OnDelete:RESTRICT;foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	Stage     string    `gorm:"column:stage;size:50;not null;uniqueIndex:idx_funding_round_company_stage,priority:2;index" json:"stage"`

	AmountUSD   *int64  `gorm:"column:amount_usd" json:"amount_usd,omitempty"`
	AnnouncedAt *string `gorm:"column:announced_at;size:10;index" json:"announced_at,omitempty"`
	SourceURL   *string `gorm:"column:source_url;size:512" json:"source_url,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (FundingRound) TableName() string { return "funding_round" }

func (r *FundingRound) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RoundFields are the enrichable round columns after amount/date normalization.
type RoundFields struct {
	AmountUSD   *int64
	AnnouncedAt *string
	SourceURL   *string
}
