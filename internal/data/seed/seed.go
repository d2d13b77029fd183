// Package seed holds a small demo dataset that is loaded through the ingestion pipeline.
package seed

import "github.com/yungbote/fundgraph-backend/internal/services"

func Deals() []services.DealRecord {
	return []services.DealRecord{
		{
			CompanyName:       "Terra CO2 Technology",
			Country:           "USA",
			ClimateTechSector: "Industry",
			Problem:           "High emissions from cement.",
			Impact:            "tCO2e abated",
			Tags:              "Hardware,B2B",
			FundingStage:      "Series B",
			AmountRaisedRaw:   "$82M",
			AnnouncedAt:       "2025-03-04",
			SourceURL:         "https://example.com/1",
			LeadInvestors:     services.FlexStrings{"Breakthrough Energy Ventures"},
		},
		{
			CompanyName:       "VerdeGo",
			Country:           "USA",
			ClimateTechSector: "Food & Agriculture",
			Problem:           "Inefficient water use in farming.",
			Impact:            "Water saved",
			Tags:              "SaaS,AI/ML",
			FundingStage:      "Series A",
			AmountRaisedRaw:   "$12M",
			AnnouncedAt:       "2025-02-18",
			SourceURL:         "https://example.com/2",
			LeadInvestors:     services.FlexStrings{"S2G Ventures"},
		},
		{
			CompanyName:       "SunSpark Homes",
			Country:           "Germany",
			ClimateTechSector: "Energy",
			Problem:           "High cost of residential solar.",
			Impact:            "kWh generated",
			Tags:              "B2C,Fintech",
			FundingStage:      "Series A",
			AmountRaisedRaw:   "$25M",
			AnnouncedAt:       "2025-01-20",
			SourceURL:         "https://example.com/3",
			LeadInvestors:     services.FlexStrings{"Lowercarbon Capital"},
		},
		{
			CompanyName:     "Terra CO2 Technology",
			FundingStage:    "Series C",
			AmountRaisedRaw: "$150M",
			AnnouncedAt:     "2025-05-10",
			SourceURL:       "https://example.com/4",
			LeadInvestors:   services.FlexStrings{"Lowercarbon Capital"},
		},
	}
}
