package funding

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/fundgraph-backend/internal/domain"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

type InvestorRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.Investor) (*types.Investor, bool, error)
	GetByNameKey(ctx context.Context, tx *gorm.DB, nameKey string) (*types.Investor, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Investor, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Investor, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Investor, error)
}

type investorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInvestorRepo(db *gorm.DB, baseLog *logger.Logger) InvestorRepo {
	return &investorRepo{db: db, log: baseLog.With("repo", "InvestorRepo")}
}

func (r *investorRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.Investor) (*types.Investor, bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.NameKey == "" {
		return nil, false, errors.New("investor upsert: missing name key")
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name_key"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return nil, false, classify("investor upsert", res.Error)
	}
	if res.RowsAffected == 1 {
		return row, true, nil
	}
	existing, err := r.GetByNameKey(ctx, t, row.NameKey)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, classify("investor upsert", gorm.ErrDuplicatedKey)
	}
	return existing, false, nil
}

func (r *investorRepo) GetByNameKey(ctx context.Context, tx *gorm.DB, nameKey string) (*types.Investor, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Investor
	if err := t.WithContext(ctx).Where("name_key = ?", nameKey).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *investorRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Investor, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Investor
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *investorRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Investor, error) {
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

func (r *investorRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Investor, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Investor
	if err := t.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
