package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ahmedEssyad/eter-reports-separated/internal/apperr"
	"github.com/ahmedEssyad/eter-reports-separated/internal/database"
	"github.com/ahmedEssyad/eter-reports-separated/internal/models"
	"github.com/ahmedEssyad/eter-reports-separated/internal/pdf"
	"github.com/ahmedEssyad/eter-reports-separated/internal/reports"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxExportIDs = 50

// PDFHandler serves the four export endpoints. Documents are rendered
// fully in memory before headers go out, so a render failure still
// produces a JSON error instead of a truncated download.
type PDFHandler struct {
	reports     *reports.Service
	renderer    *pdf.Renderer
	logger      *zap.Logger
	development bool
}

func NewPDFHandler(svc *reports.Service, renderer *pdf.Renderer, logger *zap.Logger, development bool) *PDFHandler {
	return &PDFHandler{reports: svc, renderer: renderer, logger: logger, development: development}
}

func sendPDF(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *PDFHandler) SingleReport(c *gin.Context) {
	form, err := h.reports.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	data, err := h.renderer.SingleReport(form)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	actorID := sessionUserID(c)
	database.CreateAuditLog(actorID, "form", form.ReportID, "export", "single report PDF")
	h.logger.Info("pdf generated",
		zap.String("type", "single_report"),
		zap.String("form_id", form.ReportID),
		zap.Uint("generated_by", actorID))

	sendPDF(c, fmt.Sprintf("rapport_%s_%s.pdf", form.ReportID, time.Now().Format("2006-01-02")), data)
}

func (h *PDFHandler) MultipleReports(c *gin.Context) {
	var body struct {
		FormIDs []string `json:"formIds"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.logger, h.development, apperr.BadRequest("INVALID_PAYLOAD", "Invalid request body"))
		return
	}
	if len(body.FormIDs) == 0 || len(body.FormIDs) > maxExportIDs {
		respondError(c, h.logger, h.development,
			apperr.BadRequest("FORM_IDS_REQUIRED", fmt.Sprintf("Form IDs array is required with 1-%d IDs", maxExportIDs)))
		return
	}

	forms, err := h.reports.ResolveMany(body.FormIDs)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	data, err := h.renderer.MultipleReports(forms)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	actorID := sessionUserID(c)
	database.CreateAuditLog(actorID, "form", strings.Join(body.FormIDs, ","), "export",
		fmt.Sprintf("multiple reports PDF, %d forms", len(forms)))
	h.logger.Info("pdf generated",
		zap.String("type", "multiple_reports"),
		zap.Int("form_count", len(forms)),
		zap.Uint("generated_by", actorID))

	sendPDF(c, fmt.Sprintf("rapports_multiples_%s.pdf", time.Now().Format("2006-01-02")), data)
}

func (h *PDFHandler) DateRangeReports(c *gin.Context) {
	start, end, err := exportDateRange(c, true)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}
	depot := c.Query("depot")

	forms, err := h.reports.ByDateRange(start, end, depot, models.FormStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}
	if len(forms) == 0 {
		respondError(c, h.logger, h.development,
			apperr.NotFound("NO_FORMS_IN_RANGE", "No forms found for the specified date range"))
		return
	}

	data, err := h.renderer.DateRangeReports(forms, start, end, depot)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	actorID := sessionUserID(c)
	database.CreateAuditLog(actorID, "form", "", "export",
		fmt.Sprintf("date range PDF %s to %s, %d forms",
			start.Format("2006-01-02"), end.Format("2006-01-02"), len(forms)))
	h.logger.Info("pdf generated",
		zap.String("type", "date_range_reports"),
		zap.Int("form_count", len(forms)),
		zap.Uint("generated_by", actorID))

	sendPDF(c, fmt.Sprintf("rapports_%s_%s.pdf",
		start.Format("2006-01-02"), end.Format("2006-01-02")), data)
}

func (h *PDFHandler) Summary(c *gin.Context) {
	start, end, err := exportDateRange(c, false)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	forms, err := h.reports.ByDateRange(start, end, c.Query("depot"), models.FormStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	// Statistics are computed over the listed forms themselves, so both
	// sections of the document always agree.
	data, err := h.renderer.Summary(forms, reports.Summarize(forms), start, end)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	actorID := sessionUserID(c)
	database.CreateAuditLog(actorID, "form", "", "export",
		fmt.Sprintf("summary PDF %s to %s", start.Format("2006-01-02"), end.Format("2006-01-02")))
	h.logger.Info("pdf generated",
		zap.String("type", "summary_report"),
		zap.Int("form_count", len(forms)),
		zap.Uint("generated_by", actorID))

	sendPDF(c, fmt.Sprintf("synthese_%s_%s.pdf",
		start.Format("2006-01-02"), end.Format("2006-01-02")), data)
}

// exportDateRange parses the mandatory bounds of the export endpoints.
// A single-day export (start == end) is valid; listings additionally cap
// the span at one year.
func exportDateRange(c *gin.Context, capSpan bool) (time.Time, time.Time, error) {
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
	if capSpan && end.Sub(start) > 365*24*time.Hour {
		return time.Time{}, time.Time{}, apperr.BadRequest("DATE_RANGE_TOO_LARGE", "Date range cannot exceed 365 days")
	}
	return start, end, nil
}
