package domain

import "github.com/yungbote/fundgraph-backend/internal/domain/funding"

type Company = funding.Company
type CompanyFields = funding.CompanyFields
type Investor = funding.Investor
type FundingRound = funding.FundingRound
type RoundFields = funding.RoundFields
type Investment = funding.Investment

// Models lists every table in migration order (parents before children).
func Models() []interface{} {
	return []interface{}{
		&funding.Company{},
		&funding.Investor{},
		&funding.FundingRound{},
		&funding.Investment{},
	}
}
