package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ahmedEssyad/eter-reports-separated/internal/apperr"
	"github.com/ahmedEssyad/eter-reports-separated/internal/database"
	"github.com/ahmedEssyad/eter-reports-separated/internal/models"
	"github.com/ahmedEssyad/eter-reports-separated/internal/reports"
	"github.com/ahmedEssyad/eter-reports-separated/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FormHandler struct {
	reports     *reports.Service
	logger      *zap.Logger
	development bool
}

func NewFormHandler(svc *reports.Service, logger *zap.Logger, development bool) *FormHandler {
	return &FormHandler{reports: svc, logger: logger, development: development}
}

// Submit accepts a public daily report. The only endpoint reachable
// without a session.
func (h *FormHandler) Submit(c *gin.Context) {
	var in validation.FormInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, h.logger, h.development, apperr.BadRequest("INVALID_PAYLOAD", "Invalid request body"))
		return
	}

	form, diags, err := h.reports.Submit(&in, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	body := gin.H{
		"success": true,
		"message": "Form submitted successfully",
		"formId":  form.ReportID,
		"data": gin.H{
			"id":                 form.ReportID,
			"submittedAt":        form.SubmittedAt,
			"status":             form.Status,
			"totalFuelDelivered": form.TotalFuelDelivered(),
			"vehicleCount":       form.VehicleCount(),
		},
	}
	if len(diags) > 0 {
		body["diagnostics"] = diags
	}
	c.JSON(http.StatusCreated, body)
}

func (h *FormHandler) List(c *gin.Context) {
	fc, err := filterFromQuery(c)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	p := reports.Pagination{}
	p.Page, _ = strconv.Atoi(c.Query("page"))
	p.Limit, _ = strconv.Atoi(c.Query("limit"))

	forms, page, err := h.reports.List(fc, p)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"forms":      forms,
		"pagination": page,
		"filters": gin.H{
			"status": c.Query("status"),
			"depot":  c.Query("depot"),
			"search": c.Query("search"),
		},
	})
}

func (h *FormHandler) Get(c *gin.Context) {
	form, err := h.reports.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "form": form})
}

func (h *FormHandler) UpdateStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.logger, h.development, apperr.BadRequest("INVALID_PAYLOAD", "Invalid request body"))
		return
	}

	actorID := sessionUserID(c)
	form, err := h.reports.UpdateStatus(c.Param("id"), models.FormStatus(body.Status), body.Notes, actorID)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	database.CreateAuditLog(actorID, "form", form.ReportID, "status_change",
		fmt.Sprintf("status set to %s", form.Status))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Form status updated successfully",
		"form": gin.H{
			"id":         form.ReportID,
			"status":     form.Status,
			"approvedAt": form.ApprovedAt,
			"approvedBy": form.ApprovedBy,
			"notes":      form.Notes,
		},
	})
}

func (h *FormHandler) Delete(c *gin.Context) {
	actorID := sessionUserID(c)
	form, err := h.reports.Delete(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	database.CreateAuditLog(actorID, "form", form.ReportID, "delete",
		fmt.Sprintf("depot %s, date %s", form.Depot, form.Date.Format("2006-01-02")))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Form deleted successfully",
	})
}

func (h *FormHandler) Bulk(c *gin.Context) {
	var body struct {
		FormIDs []string `json:"formIds"`
		Updates struct {
			Status string `json:"status"`
			Notes  string `json:"notes"`
		} `json:"updates"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.logger, h.development, apperr.BadRequest("INVALID_PAYLOAD", "Invalid request body"))
		return
	}
	if len(body.FormIDs) == 0 {
		respondError(c, h.logger, h.development, apperr.BadRequest("FORM_IDS_REQUIRED", "Form IDs array is required"))
		return
	}
	if body.Updates.Status == "" && body.Updates.Notes == "" {
		respondError(c, h.logger, h.development, apperr.BadRequest("NO_VALID_UPDATES", "No valid updates provided"))
		return
	}

	actorID := sessionUserID(c)
	res, err := h.reports.BulkUpdateStatus(body.FormIDs, models.FormStatus(body.Updates.Status), body.Updates.Notes, actorID)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	database.CreateAuditLog(actorID, "form", strings.Join(body.FormIDs, ","), "bulk_update",
		fmt.Sprintf("%d matched, status %s", res.Matched, body.Updates.Status))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("%d forms updated successfully", res.Updated),
		"updated": res.Updated,
		"matched": res.Matched,
	})
}

func (h *FormHandler) DateRange(c *gin.Context) {
	start, end, err := requiredDateRange(c)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	forms, err := h.reports.ByDateRange(start, end, c.Query("depot"), models.FormStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"forms":   forms,
		"count":   len(forms),
		"dateRange": gin.H{
			"startDate": c.Query("startDate"),
			"endDate":   c.Query("endDate"),
		},
	})
}

func (h *FormHandler) Statistics(c *gin.Context) {
	fc, err := filterFromQuery(c)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	dash, err := h.reports.Dashboard(fc)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"statistics": gin.H{
			"totalReports":         dash.Statistics.TotalReports,
			"totalFuelDelivered":   dash.Statistics.TotalFuelDelivered,
			"totalVehicles":        dash.Statistics.TotalVehicles,
			"uniqueDriversCount":   dash.Statistics.UniqueDriversCount,
			"avgVehiclesPerReport": dash.Statistics.AvgVehiclesPerReport,
			"formsToday":           dash.FormsToday,
		},
		"breakdowns": gin.H{
			"status": dash.StatusBreakdown,
			"depots": dash.DepotBreakdowns,
		},
		"recentForms": dash.RecentForms,
	})
}

// filterFromQuery builds list/statistics criteria from the shared query
// parameters. Dates are optional here; both must be given to take effect.
func filterFromQuery(c *gin.Context) (reports.FilterCriteria, error) {
	fc := reports.FilterCriteria{
		Status: models.FormStatus(c.Query("status")),
		Depot:  c.Query("depot"),
		Search: c.Query("search"),
	}

	startRaw, endRaw := c.Query("startDate"), c.Query("endDate")
	if startRaw != "" && endRaw != "" {
		start, err := parseDateParam(startRaw)
		if err != nil {
			return fc, apperr.BadRequest("INVALID_DATE_RANGE", "Invalid start date")
		}
		end, err := parseDateParam(endRaw)
		if err != nil {
			return fc, apperr.BadRequest("INVALID_DATE_RANGE", "Invalid end date")
		}
		fc.StartDate = &start
		fc.EndDate = &end
	}
	return fc, nil
}

// requiredDateRange enforces the stricter contract of the date-range
// endpoints: both bounds present, ordered, and at most a year apart.
func requiredDateRange(c *gin.Context) (time.Time, time.Time, error) {
	startRaw, endRaw := c.Query("startDate"), c.Query("endDate")
	if startRaw == "" || endRaw == "" {
		return time.Time{}, time.Time{}, apperr.BadRequest("DATE_RANGE_REQUIRED", "Start date and end date are required")
	}
	start, err := parseDateParam(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.BadRequest("INVALID_DATE_RANGE", "Invalid start date")
	}
	end, err := parseDateParam(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.BadRequest("INVALID_DATE_RANGE", "Invalid end date")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperr.BadRequest("INVALID_DATE_RANGE", "End date must not precede start date")
	}
	if end.Sub(start) > 365*24*time.Hour {
		return time.Time{}, time.Time{}, apperr.BadRequest("DATE_RANGE_TOO_LARGE", "Date range must not exceed one year")
	}
	return start, end, nil
}

func parseDateParam(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
