package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/fundgraph-backend/internal/data/repos"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

type Repos struct {
	Company      repos.CompanyRepo
	Investor     repos.InvestorRepo
	FundingRound repos.FundingRoundRepo
	Investment   repos.InvestmentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Company:      repos.NewCompanyRepo(db, log),
		Investor:     repos.NewInvestorRepo(db, log),
		FundingRound: repos.NewFundingRoundRepo(db, log),
		Investment:   repos.NewInvestmentRepo(db, log),
	}
}
