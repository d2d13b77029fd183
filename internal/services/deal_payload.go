package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	fgerrors "github.com/yungbote/fundgraph-backend/internal/pkg/errors"
)

// InvalidPayloadMessage is returned to pipeline callers when the body holds no deals array.
const InvalidPayloadMessage = `Invalid request body. Expected a "deals" array.`

// ParseDealPayload decodes {"deals": [...]} or a bare array. Markdown code fences around the
// JSON, as produced by LLM extractors, are stripped first. Only a missing or non-array batch is
// an error; an element that is not a deal comes back with its decode error attached so the
// ingestion loop fails that record alone.
func ParseDealPayload(raw []byte) ([]DealRecord, error) {
	body := bytes.TrimSpace(stripFences(raw))
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", fgerrors.ErrInvalidArgument)
	}
	switch body[0] {
	case '[':
		return decodeDeals(body)
	case '{':
		var env struct {
			Deals json.RawMessage `json:"deals"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("%w: decode body: %v", fgerrors.ErrInvalidArgument, err)
		}
		d := bytes.TrimSpace(env.Deals)
		if len(d) == 0 || d[0] != '[' {
			return nil, fmt.Errorf("%w: deals is not an array", fgerrors.ErrInvalidArgument)
		}
		return decodeDeals(d)
	}
	return nil, fmt.Errorf("%w: body is neither an object nor an array", fgerrors.ErrInvalidArgument)
}

func decodeDeals(arr []byte) ([]DealRecord, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(arr, &raws); err != nil {
		return nil, fmt.Errorf("%w: decode deals: %v", fgerrors.ErrInvalidArgument, err)
	}
	deals := make([]DealRecord, len(raws))
	for i, raw := range raws {
		deals[i] = decodeDeal(raw)
	}
	return deals, nil
}

func decodeDeal(raw json.RawMessage) DealRecord {
	var d DealRecord
	if err := json.Unmarshal(raw, &d); err != nil {
		return DealRecord{
			CompanyName: looseCompanyName(raw),
			decodeErr:   fmt.Errorf("%w: decode deal: %v", fgerrors.ErrInvalidArgument, err),
		}
	}
	return d
}

// looseCompanyName recovers a string companyName from an element that failed to decode, for
// the failure report.
func looseCompanyName(raw json.RawMessage) FlexString {
	var partial struct {
		CompanyName json.RawMessage `json:"companyName"`
	}
	if json.Unmarshal(raw, &partial) != nil {
		return ""
	}
	var name string
	if json.Unmarshal(partial.CompanyName, &name) != nil {
		return ""
	}
	return FlexString(name)
}

func stripFences(raw []byte) []byte {
	b := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:]
	} else {
		b = b[3:]
	}
	if end := bytes.LastIndex(b, []byte("```")); end >= 0 {
		b = b[:end]
	}
	return b
}
