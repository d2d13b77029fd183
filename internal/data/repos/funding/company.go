package funding

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/fundgraph-backend/internal/domain"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

type CompanyRepo interface {
	// Upsert inserts row unless its name_key exists and returns the stored row either way.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.Company) (*types.Company, bool, error)
	GetByNameKey(ctx context.Context, tx *gorm.DB, nameKey string) (*types.Company, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Company, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Company, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Company, error)

	// FillEmpty sets each column only where it is still NULL or ''. Reports whether a row changed.
	FillEmpty(ctx context.Context, tx *gorm.DB, id uuid.UUID, cols map[string]string) (bool, error)
}

type companyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	return &companyRepo{db: db, log: baseLog.With("repo", "CompanyRepo")}
}

func (r *companyRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.Company) (*types.Company, bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.NameKey == "" {
		return nil, false, errors.New("company upsert: missing name key")
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name_key"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return nil, false, classify("company upsert", res.Error)
	}
	if res.RowsAffected == 1 {
		return row, true, nil
	}
	existing, err := r.GetByNameKey(ctx, t, row.NameKey)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, classify("company upsert", gorm.ErrDuplicatedKey)
	}
	return existing, false, nil
}

func (r *companyRepo) GetByNameKey(ctx context.Context, tx *gorm.DB, nameKey string) (*types.Company, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Company
	if err := t.WithContext(ctx).Where("name_key = ?", nameKey).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *companyRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Company, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Company
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *companyRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Company, error) {
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

func (r *companyRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Company, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Company
	if err := t.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *companyRepo) FillEmpty(ctx context.Context, tx *gorm.DB, id uuid.UUID, cols map[string]string) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(cols) == 0 {
		return false, nil
	}
	updates, where := fillEmptyText(cols)
	updates["updated_at"] = time.Now().UTC()
	res := t.WithContext(ctx).
		Model(&types.Company{}).
		Where("id = ?", id).
		Where(where).
		Updates(updates)
	if res.Error != nil {
		return false, classify("company fill", res.Error)
	}
	return res.RowsAffected > 0, nil
}
