package funding

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/fundgraph-backend/internal/domain"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

type InvestmentRepo interface {
	// CreateIgnoreDuplicates returns how many links were new.
	CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.Investment) (int, error)

	GetByRoundIDs(ctx context.Context, tx *gorm.DB, roundIDs []uuid.UUID) ([]*types.Investment, error)
	GetByInvestorIDs(ctx context.Context, tx *gorm.DB, investorIDs []uuid.UUID) ([]*types.Investment, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Investment, error)
}

type investmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInvestmentRepo(db *gorm.DB, baseLog *logger.Logger) InvestmentRepo {
	return &investmentRepo{db: db, log: baseLog.With("repo", "InvestmentRepo")}
}

func (r *investmentRepo) CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.Investment) (int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "funding_round_id"}, {Name: "investor_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, classify("investment link", res.Error)
	}
	return int(res.RowsAffected), nil
}

// GetByRoundIDs preloads Investor so callers can render names.
func (r *investmentRepo) GetByRoundIDs(ctx context.Context, tx *gorm.DB, roundIDs []uuid.UUID) ([]*types.Investment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Investment
	if len(roundIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Preload("Investor").
		Where("funding_round_id IN ?", roundIDs).
		Order("funding_round_id ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *investmentRepo) GetByInvestorIDs(ctx context.Context, tx *gorm.DB, investorIDs []uuid.UUID) ([]*types.Investment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Investment
	if len(investorIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("investor_id IN ?", investorIDs).
		Order("investor_id ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *investmentRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Investment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Investment
	if err := t.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
