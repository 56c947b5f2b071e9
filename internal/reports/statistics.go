package reports

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ahmedEssyad/eter-reports-separated/internal/models"
)

// Statistics is the aggregate shape over a filtered report set. An empty
// set yields the zero value, not an error.
type Statistics struct {
	TotalReports         int     `json:"totalReports"`
	TotalFuelDelivered   float64 `json:"totalFuelDelivered"`
	TotalVehicles        int     `json:"totalVehicles"`
	UniqueDriversCount   int     `json:"uniqueDriversCount"`
	AvgVehiclesPerReport float64 `json:"avgVehiclesPerReport"`
}

type DepotBreakdown struct {
	Depot     string  `json:"depot"`
	FormCount int     `json:"formCount"`
	TotalFuel float64 `json:"totalFuel"`
}

type FormSummary struct {
	ID           string            `json:"id"`
	Depot        string            `json:"depot"`
	Date         time.Time         `json:"date"`
	Status       models.FormStatus `json:"status"`
	VehicleCount int               `json:"vehicleCount"`
	TotalFuel    float64           `json:"totalFuel"`
	SubmittedAt  time.Time         `json:"submittedAt"`
}

type Dashboard struct {
	Statistics
	FormsToday      int64            `json:"formsToday"`
	StatusBreakdown map[string]int   `json:"statusBreakdown"`
	DepotBreakdowns []DepotBreakdown `json:"depotBreakdowns"`
	RecentForms     []FormSummary    `json:"recentForms"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func lower(s string) string {
	return strings.ToLower(s)
}

// Statistics aggregates the reports matching fc. Vehicle line items live
// in a JSON column, so the sums are computed over the fetched rows rather
// than pushed into SQL; the set is bounded by the filter window (30
// trailing days when none given).
func (s *Service) Statistics(fc FilterCriteria) (Statistics, error) {
	forms, err := s.matching(fc.withDefaultWindow(time.Now()))
	if err != nil {
		return Statistics{}, err
	}
	return computeStatistics(forms), nil
}

// Summarize aggregates an already-fetched form set. The summary export
// uses it so its statistics block and its listing table always describe
// the same reports.
func Summarize(forms []models.Form) Statistics {
	return computeStatistics(forms)
}

func (s *Service) matching(fc FilterCriteria) ([]models.Form, error) {
	var forms []models.Form
	err := fc.apply(s.db.Model(&models.Form{})).
		Select("id", "report_id", "depot", "date", "status", "submitted_at", "vehicles").
		Find(&forms).Error
	return forms, err
}

func computeStatistics(forms []models.Form) Statistics {
	if len(forms) == 0 {
		return Statistics{}
	}

	var stats Statistics
	drivers := make(map[string]struct{})

	for i := range forms {
		f := &forms[i]
		stats.TotalReports++
		stats.TotalVehicles += f.VehicleCount()
		stats.TotalFuelDelivered += f.TotalFuelDelivered()
		for _, v := range f.Vehicles {
			name := lower(strings.TrimSpace(v.Chauffeur))
			if name != "" {
				drivers[name] = struct{}{}
			}
		}
	}

	stats.TotalFuelDelivered = round2(stats.TotalFuelDelivered)
	stats.UniqueDriversCount = len(drivers)
	stats.AvgVehiclesPerReport = round2(float64(stats.TotalVehicles) / float64(stats.TotalReports))
	return stats
}

// Dashboard assembles the admin landing-page payload: overall statistics
// plus today's count, per-status and per-depot groupings, and a recent
// listing (trailing 7 days, top 10, newest submission first).
func (s *Service) Dashboard(fc FilterCriteria) (*Dashboard, error) {
	now := time.Now()
	forms, err := s.matching(fc.withDefaultWindow(now))
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{
		Statistics:      computeStatistics(forms),
		StatusBreakdown: make(map[string]int),
	}

	depots := make(map[string]*DepotBreakdown)
	for i := range forms {
		f := &forms[i]
		dash.StatusBreakdown[string(f.Status)]++

		d, ok := depots[f.Depot]
		if !ok {
			d = &DepotBreakdown{Depot: f.Depot}
			depots[f.Depot] = d
		}
		d.FormCount++
		d.TotalFuel += f.TotalFuelDelivered()
	}
	for _, d := range depots {
		d.TotalFuel = math.Round(d.TotalFuel)
		dash.DepotBreakdowns = append(dash.DepotBreakdowns, *d)
	}
	sort.Slice(dash.DepotBreakdowns, func(i, j int) bool {
		a, b := dash.DepotBreakdowns[i], dash.DepotBreakdowns[j]
		if a.FormCount != b.FormCount {
			return a.FormCount > b.FormCount
		}
		return a.Depot < b.Depot
	})

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&models.Form{}).
		Where("submitted_at >= ? AND submitted_at < ?", today, today.AddDate(0, 0, 1)).
		Count(&dash.FormsToday).Error; err != nil {
		return nil, err
	}

	recent, err := s.Recent(7, 10)
	if err != nil {
		return nil, err
	}
	for i := range recent {
		f := &recent[i]
		dash.RecentForms = append(dash.RecentForms, FormSummary{
			ID:           f.ReportID,
			Depot:        f.Depot,
			Date:         f.Date,
			Status:       f.Status,
			VehicleCount: f.VehicleCount(),
			TotalFuel:    f.TotalFuelDelivered(),
			SubmittedAt:  f.SubmittedAt,
		})
	}

	return dash, nil
}
