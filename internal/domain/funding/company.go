package funding

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is keyed by NameKey for resolution; Name keeps the first-seen spelling for display.
// Every optional column is write-once: ingestion only fills it while it is NULL or empty.
type Company struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string    `gorm:"column:name;size:256;not null;uniqueIndex:idx_company_name" json:"name"`
	NameKey string    `gorm:"column:name_key;size:256;not null;uniqueIndex:idx_company_name_key" json:"-"`

	Country          *string `gorm:"column:country;size:100;index" json:"country,omitempty"`
	Industry         *string `gorm:"column:industry;size:100;index" json:"industry,omitempty"`
	ProblemStatement *string `gorm:"column:problem_statement;type:text" json:"problem_statement,omitempty"`
	ImpactMetric     *string `gorm:"column:impact_metric;size:256" json:"impact_metric,omitempty"`
	Tags             *string `gorm:"column:tags;size:512" json:"tags,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Company) TableName() string { return "company" }

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CompanyFields are the enrichable columns carried by a deal record.
type CompanyFields struct {
	Country          string
	Industry         string
	ProblemStatement string
	ImpactMetric     string
	Tags             string
}

// Columns maps the non-empty fields onto their column names.
func (f CompanyFields) Columns() map[string]string {
	out := map[string]string{}
	if f.Country != "" {
		out["country"] = f.Country
	}
	if f.Industry != "" {
		out["industry"] = f.Industry
	}
	if f.ProblemStatement != "" {
		out["problem_statement"] = f.ProblemStatement
	}
	if f.ImpactMetric != "" {
		out["impact_metric"] = f.ImpactMetric
	}
	if f.Tags != "" {
		out["tags"] = f.Tags
	}
	return out
}
