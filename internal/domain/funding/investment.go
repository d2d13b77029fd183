package funding

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Investment links one investor to one funding round; the pair is unique.
type Investment struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	FundingRoundID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_investment_round_investor,priority:1" json:"funding_round_id"`
	FundingRound   *FundingRound `gorm:"constraint:OnDelete:RESTRICT;foreignKey:FundingRoundID;references:ID" json:"funding_round,omitempty"`
	InvestorID     uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_investment_round_investor,priority:2;index" json:"investor_id"`
	Investor       *Investor     `gorm:"constraint:OnDelete:RESTRICT;foreignKey:InvestorID;references:ID" json:"investor,omitempty"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
}

func (Investment) TableName() string { return "investment" }

func (i *Investment) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
