package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	types "github.com/yungbote/fundgraph-backend/internal/domain"
)

// DealRecord is one extracted funding deal. Only CompanyName and FundingStage are required.
type DealRecord struct {
	CompanyName       FlexString  `json:"companyName"`
	Country           FlexString  `json:"country,omitempty"`
	ClimateTechSector FlexString  `json:"climateTechSector,omitempty"`
	Problem           FlexString  `json:"problem,omitempty"`
	Impact            FlexString  `json:"impact,omitempty"`
	Tags              FlexString  `json:"tags,omitempty"`
	FundingStage      FlexString  `json:"fundingStage"`
	AmountRaisedRaw   FlexString  `json:"amountRaisedRaw,omitempty"`
	AnnouncedAt       FlexString  `json:"announcedAt,omitempty"`
	SourceURL         FlexString  `json:"sourceUrl,omitempty"`
	LeadInvestors     FlexStrings `json:"leadInvestors,omitempty"`

	decodeErr error
}

// Err reports why the element could not be decoded as a deal, if it could not.
func (d DealRecord) Err() error { return d.decodeErr }

func (d DealRecord) CompanyFields() types.CompanyFields {
	return types.CompanyFields{
		Country:          string(d.Country),
		Industry:         string(d.ClimateTechSector),
		ProblemStatement: string(d.Problem),
		ImpactMetric:     string(d.Impact),
		Tags:             string(d.Tags),
	}
}

func (d DealRecord) RoundInput() RoundInput {
	return RoundInput{
		Stage:       string(d.FundingStage),
		AmountRaw:   string(d.AmountRaisedRaw),
		AnnouncedAt: string(d.AnnouncedAt),
		SourceURL:   string(d.SourceURL),
	}
}

// FlexString accepts a JSON string, number, bool, null, or an array of those (joined by ", ").
// Extractors are loose about types; "amountRaisedRaw": 82000000 must not reject the batch.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	switch b[0] {
	case '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
	case '[':
		var parts []FlexString
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if v := strings.TrimSpace(string(p)); v != "" {
				out = append(out, v)
			}
		}
		*s = FlexString(strings.Join(out, ", "))
	case '{':
		return fmt.Errorf("expected string, got object")
	default:
		*s = FlexString(b)
	}
	return nil
}

// FlexStrings accepts an array or a single string.
type FlexStrings []string

func (s *FlexStrings) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = nil
		return nil
	}
	if b[0] != '[' {
		var one FlexString
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*s = FlexStrings{string(one)}
		return nil
	}
	var parts []FlexString
	if err := json.Unmarshal(b, &parts); err != nil {
		return err
	}
	out := make(FlexStrings, 0, len(parts))
	for _, p := range parts {
		out = append(out, string(p))
	}
	*s = out
	return nil
}
