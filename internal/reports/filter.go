package reports

import (
	"time"

	"github.com/ahmedEssyad/eter-reports-separated/internal/models"

	"gorm.io/gorm"
)

// FilterCriteria narrows report queries. Zero values mean "no constraint";
// every consumer (listing, statistics, exports) goes through the same
// object instead of building ad-hoc query maps.
type FilterCriteria struct {
	Status    models.FormStatus
	Depot     string // case-insensitive substring match
	StartDate *time.Time
	EndDate   *time.Time
	Search    string // matched against entree, origine, depot, chantier
}

func (fc FilterCriteria) apply(q *gorm.DB) *gorm.DB {
	if fc.Status != "" {
		q = q.Where("status = ?", fc.Status)
	}
	if fc.Depot != "" {
		q = q.Where("LOWER(depot) LIKE ?", "%"+lower(fc.Depot)+"%")
	}
	if fc.StartDate != nil && fc.EndDate != nil {
		q = q.Where("date >= ? AND date <= ?", *fc.StartDate, *fc.EndDate)
	} else if fc.StartDate != nil {
		q = q.Where("date >= ?", *fc.StartDate)
	} else if fc.EndDate != nil {
		q = q.Where("date <= ?", *fc.EndDate)
	}
	if fc.Search != "" {
		like := "%" + lower(fc.Search) + "%"
		q = q.Where(
			"LOWER(entree) LIKE ? OR LOWER(origine) LIKE ? OR LOWER(depot) LIKE ? OR LOWER(chantier) LIKE ?",
			like, like, like, like,
		)
	}
	return q
}

// withDefaultWindow fills in the trailing-30-days window when the caller
// supplied no date bounds.
func (fc FilterCriteria) withDefaultWindow(now time.Time) FilterCriteria {
	if fc.StartDate == nil && fc.EndDate == nil {
		start := now.AddDate(0, 0, -30)
		fc.StartDate = &start
	}
	return fc
}

type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 50
	}
	return p
}

type PageInfo struct {
	Current      int   `json:"current"`
	Total        int   `json:"total"`
	Count        int   `json:"count"`
	TotalRecords int64 `json:"totalRecords"`
	HasNext      bool  `json:"hasNext"`
	HasPrev      bool  `json:"hasPrev"`
}
