package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/fundgraph-backend/internal/data/repos/funding"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

type CompanyRepo = funding.CompanyRepo
type InvestorRepo = funding.InvestorRepo
type FundingRoundRepo = funding.FundingRoundRepo
type InvestmentRepo = funding.InvestmentRepo

type EventFilter = funding.EventFilter

func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	return funding.NewCompanyRepo(db, baseLog)
}
func NewInvestorRepo(db *gorm.DB, baseLog *logger.Logger) InvestorRepo {
	return funding.NewInvestorRepo(db, baseLog)
}
func NewFundingRoundRepo(db *gorm.DB, baseLog *logger.Logger) FundingRoundRepo {
	return funding.NewFundingRoundRepo(db, baseLog)
}
func NewInvestmentRepo(db *gorm.DB, baseLog *logger.Logger) InvestmentRepo {
	return funding.NewInvestmentRepo(db, baseLog)
}

// IsUniqueViolation is exposed for callers that write outside the repos.
func IsUniqueViolation(err error) bool { return funding.IsUniqueViolation(err) }
