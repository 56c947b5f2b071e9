package reports

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/ahmedEssyad/eter-reports-separated/internal/apperr"
	"github.com/ahmedEssyad/eter-reports-separated/internal/models"
	"github.com/ahmedEssyad/eter-reports-separated/internal/storage"
	"github.com/ahmedEssyad/eter-reports-separated/internal/validation"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service owns the report lifecycle: submission, queries, status workflow
// and deletion. All state lives in the database; the service itself holds
// no mutable data and is safe for concurrent use.
type Service struct {
	db         *gorm.DB
	signatures *storage.SignatureStore
	logger     *zap.Logger
}

func NewService(db *gorm.DB, signatures *storage.SignatureStore, logger *zap.Logger) *Service {
	return &Service{db: db, signatures: signatures, logger: logger}
}

// newReportID mirrors the paper-form numbering scheme: base-36 timestamp
// plus a short random suffix.
func newReportID() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + hex.EncodeToString(buf)
}

// Submit validates, persists the signatures, and inserts the report.
// Uniqueness of the report ID is enforced by the database: a concurrent
// submission racing past the existence check still comes back as a
// conflict, never as a silent overwrite.
func (s *Service) Submit(in *validation.FormInput, ip, userAgent string) (*models.Form, []validation.Diagnostic, error) {
	diags, fieldErrs := validation.Form(in, time.Now())
	if len(fieldErrs) > 0 {
		return nil, nil, apperr.Validation(fieldErrs)
	}

	reportID := in.ID
	if reportID == "" {
		reportID = newReportID()
	}

	var count int64
	if err := s.db.Model(&models.Form{}).Where("report_id = ?", reportID).Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if count > 0 {
		return nil, nil, apperr.Conflict("FORM_ID_EXISTS", "Form with this ID already exists")
	}

	urlResp, urlChef, err := s.saveSignatures(reportID, in.SignatureResponsable, in.SignatureChef)
	if err != nil {
		s.logger.Error("saving signatures failed", zap.String("form_id", reportID), zap.Error(err))
		return nil, nil, apperr.New(500, "SIGNATURE_SAVE_ERROR", "Error saving signatures")
	}

	in.ID = reportID
	return s.insert(in, urlResp, urlChef, ip, userAgent, diags)
}

// saveSignatures writes both signature images. A failure on the second
// removes the first so no unreferenced file stays in the uploads dir.
func (s *Service) saveSignatures(reportID, responsable, chef string) (string, string, error) {
	urlResp, err := s.signatures.Save(responsable, reportID+"_responsable")
	if err != nil {
		return "", "", err
	}
	urlChef, err := s.signatures.Save(chef, reportID+"_chef")
	if err != nil {
		if rmErr := s.signatures.Remove(urlResp); rmErr != nil {
			s.logger.Warn("could not remove orphaned signature",
				zap.String("form_id", reportID),
				zap.String("url", urlResp),
				zap.Error(rmErr))
		}
		return "", "", err
	}
	return urlResp, urlChef, nil
}

func (s *Service) insert(in *validation.FormInput, urlResp, urlChef, ip, userAgent string, diags []validation.Diagnostic) (*models.Form, []validation.Diagnostic, error) {
	vehicles := make([]models.Vehicle, len(in.Vehicles))
	for i, v := range in.Vehicles {
		vehicles[i] = models.Vehicle{
			Matricule:      v.Matricule,
			Chauffeur:      v.Chauffeur,
			HeureRevif:     v.HeureRevif,
			QuantiteLivree: v.QuantiteLivree,
			LieuComptage:   v.LieuComptage,
		}
	}

	form := &models.Form{
		ReportID:                in.ID,
		Entree:                  in.Entree,
		Origine:                 in.Origine,
		Depot:                   in.Depot,
		Chantier:                in.Chantier,
		Date:                    in.ParsedDate,
		StockDebut:              in.StockDebut,
		StockFin:                in.StockFin,
		SortieGasoil:            in.SortieGasoil,
		DebutIndex:              in.DebutIndex,
		FinIndex:                in.FinIndex,
		Vehicles:                datatypes.NewJSONSlice(vehicles),
		SignatureResponsable:    in.SignatureResponsable,
		SignatureURLResponsable: urlResp,
		SignatureChef:           in.SignatureChef,
		SignatureURLChef:        urlChef,
		Status:                  models.FormStatus(in.Status),
		Notes:                   in.Notes,
		SubmittedAt:             time.Now(),
		IPAddress:               ip,
		UserAgent:               userAgent,
	}

	if err := s.db.Create(form).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, apperr.Conflict("FORM_ID_EXISTS", "Form with this ID already exists")
		}
		return nil, nil, err
	}

	for _, d := range diags {
		s.logger.Warn("submission diagnostic",
			zap.String("form_id", form.ReportID),
			zap.String("field", d.Field),
			zap.String("message", d.Message))
	}
	s.logger.Info("form submitted",
		zap.String("form_id", form.ReportID),
		zap.String("depot", form.Depot),
		zap.Int("vehicle_count", form.VehicleCount()),
		zap.Float64("total_fuel", form.TotalFuelDelivered()),
		zap.String("ip", ip))

	return form, diags, nil
}

// Get returns a report by its public ID.
func (s *Service) Get(reportID string) (*models.Form, error) {
	var form models.Form
	if err := s.db.Where("report_id = ?", reportID).First(&form).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("FORM_NOT_FOUND", "Form not found")
		}
		return nil, err
	}
	return &form, nil
}

// List pages through reports matching the criteria, newest submission
// first. Signature payloads are stripped from list results.
func (s *Service) List(fc FilterCriteria, p Pagination) ([]models.Form, PageInfo, error) {
	p = p.normalize()

	var total int64
	if err := fc.apply(s.db.Model(&models.Form{})).Count(&total).Error; err != nil {
		return nil, PageInfo{}, err
	}

	var forms []models.Form
	err := fc.apply(s.db.Model(&models.Form{})).
		Order("submitted_at desc").
		Offset((p.Page - 1) * p.Limit).
		Limit(p.Limit).
		Find(&forms).Error
	if err != nil {
		return nil, PageInfo{}, err
	}

	for i := range forms {
		forms[i].StripSignatureData()
	}

	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	info := PageInfo{
		Current:      p.Page,
		Total:        totalPages,
		Count:        len(forms),
		TotalRecords: total,
		HasNext:      p.Page < totalPages,
		HasPrev:      p.Page > 1,
	}
	return forms, info, nil
}

// ByDateRange returns reports within [start, end], optionally narrowed by
// depot and status, ordered by report date descending.
func (s *Service) ByDateRange(start, end time.Time, depot string, status models.FormStatus) ([]models.Form, error) {
	q := s.db.Where("date >= ? AND date <= ?", start, end)
	if depot != "" {
		q = q.Where("depot = ?", depot)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var forms []models.Form
	if err := q.Order("date desc").Find(&forms).Error; err != nil {
		return nil, err
	}
	for i := range forms {
		forms[i].StripSignatureData()
	}
	return forms, nil
}

// Recent returns the latest submissions of the trailing N days.
func (s *Service) Recent(days, limit int) ([]models.Form, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	var forms []models.Form
	err := s.db.Where("submitted_at >= ?", cutoff).
		Order("submitted_at desc").
		Limit(limit).
		Find(&forms).Error
	if err != nil {
		return nil, err
	}
	for i := range forms {
		forms[i].StripSignatureData()
	}
	return forms, nil
}

// UpdateStatus moves a report through the workflow. An approval records
// the acting user and timestamp; re-approving overwrites both so the
// latest actor is always on file.
func (s *Service) UpdateStatus(reportID string, status models.FormStatus, notes string, actorID uint) (*models.Form, error) {
	if !models.ValidFormStatus(status) {
		return nil, apperr.BadRequest("INVALID_STATUS", "Status must be draft, submitted, approved or rejected")
	}

	form, err := s.Get(reportID)
	if err != nil {
		return nil, err
	}

	oldStatus := form.Status
	form.Status = status
	if notes != "" {
		form.Notes = notes
	}
	if status == models.StatusApproved {
		now := time.Now()
		form.ApprovedAt = &now
		form.ApprovedBy = actorID
	}

	if err := s.db.Save(form).Error; err != nil {
		return nil, err
	}

	s.logger.Info("form status updated",
		zap.String("form_id", form.ReportID),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(status)),
		zap.Uint("updated_by", actorID))
	return form, nil
}

// Delete removes a report permanently.
func (s *Service) Delete(reportID string) (*models.Form, error) {
	form, err := s.Get(reportID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Delete(&models.Form{}, form.ID).Error; err != nil {
		return nil, err
	}
	s.logger.Info("form deleted", zap.String("form_id", reportID), zap.String("depot", form.Depot))
	return form, nil
}

// BulkResult reports how a bulk update landed. There is no cross-record
// transaction: IDs that matched were updated, missing IDs are simply not
// counted, never an error.
type BulkResult struct {
	Matched int64 `json:"matched"`
	Updated int64 `json:"updated"`
}

// BulkUpdateStatus applies the supplied fields to every existing report
// in ids. Status and notes are each optional, but at least one must be
// given; an empty status leaves the workflow state untouched.
func (s *Service) BulkUpdateStatus(ids []string, status models.FormStatus, notes string, actorID uint) (BulkResult, error) {
	if len(ids) == 0 {
		return BulkResult{}, apperr.BadRequest("FORM_IDS_REQUIRED", "Form IDs array is required")
	}
	if status == "" && notes == "" {
		return BulkResult{}, apperr.BadRequest("NO_VALID_UPDATES", "No valid updates provided")
	}
	if status != "" && !models.ValidFormStatus(status) {
		return BulkResult{}, apperr.BadRequest("NO_VALID_UPDATES", "No valid updates provided")
	}

	updates := map[string]any{
		"updated_at": time.Now(),
	}
	if status != "" {
		updates["status"] = status
	}
	if notes != "" {
		updates["notes"] = notes
	}
	if status == models.StatusApproved {
		updates["approved_at"] = time.Now()
		updates["approved_by"] = actorID
	}

	res := s.db.Model(&models.Form{}).Where("report_id IN ?", ids).Updates(updates)
	if res.Error != nil {
		return BulkResult{}, res.Error
	}

	s.logger.Info("bulk status update",
		zap.Int64("updated", res.RowsAffected),
		zap.Int("requested", len(ids)),
		zap.String("status", string(status)),
		zap.Uint("updated_by", actorID))
	return BulkResult{Matched: res.RowsAffected, Updated: res.RowsAffected}, nil
}

// ResolveMany fetches the reports for an explicit ID list, newest date
// first, for multi-report export. Absence of every ID is a not-found.
func (s *Service) ResolveMany(ids []string) ([]models.Form, error) {
	var forms []models.Form
	if err := s.db.Where("report_id IN ?", ids).Order("date desc").Find(&forms).Error; err != nil {
		return nil, err
	}
	if len(forms) == 0 {
		return nil, apperr.NotFound("FORMS_NOT_FOUND", "No forms found")
	}
	return forms, nil
}
