package funding

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/fundgraph-backend/internal/domain"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

// EventFilter narrows Search. Empty fields do not filter; dates are inclusive YYYY-MM-DD bounds.
// SearchTerm and Tags match as literal case-insensitive substrings. SQLite's LOWER() folds ASCII
// only, so non-ASCII terms are case-sensitive there.
type EventFilter struct {
	SearchTerm string
	Stage      string
	Sector     string
	Country    string
	Tags       []string
	StartDate  string
	EndDate    string
	// SortOrder is "asc" or "desc" on announced_at; anything else keeps insertion order.
	SortOrder string
}

type FundingRoundRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.FundingRound) (*types.FundingRound, bool, error)
	GetByCompanyAndStage(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, stage string) (*types.FundingRound, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.FundingRound, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.FundingRound, error)
	// ListAll preloads Company.
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.FundingRound, error)
	Search(ctx context.Context, tx *gorm.DB, f EventFilter) ([]*types.FundingRound, error)

	FillEmpty(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields types.RoundFields) (bool, error)
}

type fundingRoundRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFundingRoundRepo(db *gorm.DB, baseLog *logger.Logger) FundingRoundRepo {
	return &fundingRoundRepo{db: db, log: baseLog.With("repo", "FundingRoundRepo")}
}

func (r *fundingRoundRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.FundingRound) (*types.FundingRound, bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.CompanyID == uuid.Nil || row.Stage == "" {
		return nil, false, errors.New("funding round upsert: missing company or stage")
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "stage"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return nil, false, classify("funding round upsert", res.Error)
	}
	if res.RowsAffected == 1 {
		return row, true, nil
	}
	existing, err := r.GetByCompanyAndStage(ctx, t, row.CompanyID, row.Stage)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, classify("funding round upsert", gorm.ErrDuplicatedKey)
	}
	return existing, false, nil
}

func (r *fundingRoundRepo) GetByCompanyAndStage(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, stage string) (*types.FundingRound, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.FundingRound
	if err := t.WithContext(ctx).
		Where("company_id = ? AND stage = ?", companyID, stage).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *fundingRoundRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.FundingRound, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.FundingRound
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Preload("Company").Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *fundingRoundRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.FundingRound, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *fundingRoundRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.FundingRound, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.FundingRound
	if err := t.WithContext(ctx).
		Preload("Company").
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *fundingRoundRepo) Search(ctx context.Context, tx *gorm.DB, f EventFilter) ([]*types.FundingRound, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).
		Model(&types.FundingRound{}).
		Select("funding_round.*").
		Joins("JOIN company ON company.id = funding_round.company_id").
		Preload("Company")

	if term := strings.ToLower(strings.TrimSpace(f.SearchTerm)); term != "" {
		like := containsPattern(term)
		q = q.Where(`(LOWER(company.name) LIKE ? ESCAPE '\'
			OR LOWER(COALESCE(company.industry, '')) LIKE ? ESCAPE '\'
			OR LOWER(COALESCE(company.country, '')) LIKE ? ESCAPE '\'
			OR LOWER(COALESCE(company.problem_statement, '')) LIKE ? ESCAPE '\'
			OR LOWER(COALESCE(company.tags, '')) LIKE ? ESCAPE '\'
			OR EXISTS (
				SELECT 1 FROM investment
				JOIN investor ON investor.id = investment.investor_id
				WHERE investment.funding_round_id = funding_round.id
				AND LOWER(investor.name) LIKE ? ESCAPE '\'
			))`, like, like, like, like, like, like)
	}
	if f.Stage != "" {
		q = q.Where("funding_round.stage = ?", f.Stage)
	}
	if f.Sector != "" {
		q = q.Where("company.industry = ?", f.Sector)
	}
	if f.Country != "" {
		q = q.Where("company.country = ?", f.Country)
	}
	for _, tag := range f.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		q = q.Where(`LOWER(COALESCE(company.tags, '')) LIKE ? ESCAPE '\'`, containsPattern(tag))
	}
	if f.StartDate != "" {
		q = q.Where("funding_round.announced_at >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where("funding_round.announced_at <= ?", f.EndDate)
	}

	switch strings.ToLower(f.SortOrder) {
	case "asc":
		q = q.Order("CASE WHEN funding_round.announced_at IS NULL THEN 1 ELSE 0 END").
			Order("funding_round.announced_at ASC")
	case "desc":
		q = q.Order("CASE WHEN funding_round.announced_at IS NULL THEN 1 ELSE 0 END").
			Order("funding_round.announced_at DESC")
	}
	q = q.Order("funding_round.created_at ASC").Order("funding_round.id ASC")

	var out []*types.FundingRound
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *fundingRoundRepo) FillEmpty(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields types.RoundFields) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	text := map[string]string{}
	if fields.AnnouncedAt != nil && *fields.AnnouncedAt != "" {
		text["announced_at"] = *fields.AnnouncedAt
	}
	if fields.SourceURL != nil && *fields.SourceURL != "" {
		text["source_url"] = *fields.SourceURL
	}
	hasAmount := fields.AmountUSD != nil && *fields.AmountUSD != 0
	if len(text) == 0 && !hasAmount {
		return false, nil
	}

	updates, where := fillEmptyText(text)
	if hasAmount {
		updates["amount_usd"] = gorm.Expr("COALESCE(NULLIF(amount_usd, 0), ?)", *fields.AmountUSD)
		guard := "(amount_usd IS NULL OR amount_usd = 0)"
		if len(text) == 0 {
			where = guard
		} else {
			where = "(" + where + " OR " + guard + ")"
		}
	}
	updates["updated_at"] = time.Now().UTC()

	res := t.WithContext(ctx).
		Model(&types.FundingRound{}).
		Where("id = ?", id).
		Where(where).
		Updates(updates)
	if res.Error != nil {
		return false, classify("funding round fill", res.Error)
	}
	return res.RowsAffected > 0, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching term literally anywhere in the value.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
