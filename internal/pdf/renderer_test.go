package pdf

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/ahmedEssyad/eter-reports-separated/internal/models"
	"github.com/ahmedEssyad/eter-reports-separated/internal/reports"
	"github.com/ahmedEssyad/eter-reports-separated/internal/storage"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Smallest valid PNG (1x1 transparent pixel).
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func testRenderer(t *testing.T) (*Renderer, *storage.SignatureStore) {
	t.Helper()
	store, err := storage.NewSignatureStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("signature store: %v", err)
	}
	return NewRenderer(store, zap.NewNop()), store
}

func testForm(t *testing.T, store *storage.SignatureStore, id string, vehicleCount int) *models.Form {
	t.Helper()
	uri := "data:image/png;base64," + tinyPNG
	urlResp, err := store.Save(uri, id+"_responsable")
	if err != nil {
		t.Fatalf("save signature: %v", err)
	}
	urlChef, err := store.Save(uri, id+"_chef")
	if err != nil {
		t.Fatalf("save signature: %v", err)
	}

	vehicles := make([]models.Vehicle, vehicleCount)
	for i := range vehicles {
		vehicles[i] = models.Vehicle{
			Matricule:      fmt.Sprintf("CG-%03d", i),
			Chauffeur:      fmt.Sprintf("Chauffeur %d", i),
			HeureRevif:     "08:30",
			QuantiteLivree: 100,
			LieuComptage:   "Dépôt",
		}
	}

	return &models.Form{
		ReportID:                id,
		Entree:                  "Entrée nord",
		Origine:                 "Nouakchott",
		Depot:                   "Dépôt Central",
		Chantier:                "Chantier été",
		Date:                    time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		StockDebut:              1000,
		StockFin:                700,
		SortieGasoil:            300,
		Vehicles:                datatypes.NewJSONSlice(vehicles),
		SignatureURLResponsable: urlResp,
		SignatureURLChef:        urlChef,
		Status:                  models.StatusSubmitted,
		SubmittedAt:             time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestSingleReportProducesPDF(t *testing.T) {
	r, store := testRenderer(t)
	form := testForm(t, store, "pdf-1", 3)

	data, err := r.SingleReport(form)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestSingleReportDeterministic(t *testing.T) {
	r, store := testRenderer(t)
	form := testForm(t, store, "pdf-det", 2)

	a, err := r.SingleReport(form)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b, err := r.SingleReport(form)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same form rendered differently twice")
	}
}

func TestSingleReportMissingSignatureFile(t *testing.T) {
	r, store := testRenderer(t)
	form := testForm(t, store, "pdf-miss", 1)
	form.SignatureURLResponsable = "/uploads/signature_gone.png"

	data, err := r.SingleReport(form)
	if err != nil {
		t.Fatalf("missing image must not fail the render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestSingleReportOverflowingVehicles(t *testing.T) {
	r, store := testRenderer(t)
	// 16 vehicles exceed the fixed 15-row table; extras are dropped from
	// the page, never an error.
	form := testForm(t, store, "pdf-over", 16)

	doc := newDocument()
	r.reportPage(doc, form)
	if got := doc.pdf.PageCount(); got != 1 {
		t.Errorf("page count = %d, want 1", got)
	}
	if _, err := doc.output(); err != nil {
		t.Fatalf("output: %v", err)
	}
}

func TestMultipleReportsPageCount(t *testing.T) {
	r, store := testRenderer(t)
	forms := []models.Form{
		*testForm(t, store, "m-1", 1),
		*testForm(t, store, "m-2", 2),
		*testForm(t, store, "m-3", 3),
	}

	doc := r.buildMultiple(forms)
	// Cover page plus one page per report.
	if got := doc.pdf.PageCount(); got != 4 {
		t.Errorf("page count = %d, want 4", got)
	}
}

func TestCoverPageTruncatesListing(t *testing.T) {
	r, store := testRenderer(t)
	var forms []models.Form
	for i := 0; i < 12; i++ {
		forms = append(forms, *testForm(t, store, fmt.Sprintf("c-%d", i), 1))
	}

	doc := r.buildMultiple(forms)
	if got := doc.pdf.PageCount(); got != 13 {
		t.Errorf("page count = %d, want 13", got)
	}
	if _, err := doc.output(); err != nil {
		t.Fatalf("output: %v", err)
	}
}

func TestDateRangeReports(t *testing.T) {
	r, store := testRenderer(t)
	forms := []models.Form{
		*testForm(t, store, "dr-1", 2),
		*testForm(t, store, "dr-2", 1),
	}
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	doc := r.buildDateRange(forms, start, end, "Dépôt Central")
	if got := doc.pdf.PageCount(); got != 3 {
		t.Errorf("page count = %d, want 3", got)
	}
}

func TestSummarySinglePage(t *testing.T) {
	r, store := testRenderer(t)
	forms := []models.Form{*testForm(t, store, "s-1", 2)}
	stats := reports.Statistics{
		TotalReports:         1,
		TotalFuelDelivered:   200,
		TotalVehicles:        2,
		UniqueDriversCount:   2,
		AvgVehiclesPerReport: 2,
	}
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	doc := r.buildSummary(forms, stats, start, end)
	if got := doc.pdf.PageCount(); got != 1 {
		t.Errorf("page count = %d, want 1", got)
	}
}

func TestSummaryPaginates(t *testing.T) {
	r, store := testRenderer(t)
	var forms []models.Form
	for i := 0; i < 60; i++ {
		forms = append(forms, *testForm(t, store, fmt.Sprintf("sp-%d", i), 1))
	}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	doc := r.buildSummary(forms, reports.Statistics{TotalReports: 60}, start, end)
	if got := doc.pdf.PageCount(); got < 2 {
		t.Errorf("page count = %d, want at least 2", got)
	}
	if _, err := doc.output(); err != nil {
		t.Fatalf("output: %v", err)
	}
}
