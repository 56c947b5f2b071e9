package pdf

import (
	"bytes"
	"strconv"
	"time"

	"github.com/ahmedEssyad/eter-reports-separated/internal/models"
	"github.com/ahmedEssyad/eter-reports-separated/internal/reports"
	"github.com/ahmedEssyad/eter-reports-separated/internal/storage"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// Page geometry, in points. The report page replicates the paper form, so
// every section sits at fixed coordinates inside a 555x750 frame.
const (
	pageMargin    = 20.0
	frameWidth    = 555.0
	frameHeight   = 750.0
	summaryMargin = 30.0
)

// Renderer lays report data out as PDF documents. Pure layout over
// already-fetched records: the only I/O is reading saved signature images,
// and a missing image degrades to a blank cell.
type Renderer struct {
	signatures *storage.SignatureStore
	logger     *zap.Logger
}

func NewRenderer(signatures *storage.SignatureStore, logger *zap.Logger) *Renderer {
	return &Renderer{signatures: signatures, logger: logger}
}

type document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newDocument() *document {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	return &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *document) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// textAt draws s with its top-left corner at (x, y), in a box of the given
// width. Alignment is gofpdf-style ("L", "C", "R").
func (d *document) textAt(x, y, w float64, align, s string) {
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(w, 12, d.tr(s), "", 0, align, false, 0, "")
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SingleReport renders one report page.
func (r *Renderer) SingleReport(form *models.Form) ([]byte, error) {
	doc := newDocument()
	r.reportPage(doc, form)
	return doc.output()
}

// MultipleReports renders a cover page listing the exported reports,
// then one page per report.
func (r *Renderer) MultipleReports(forms []models.Form) ([]byte, error) {
	doc := r.buildMultiple(forms)
	return doc.output()
}

func (r *Renderer) buildMultiple(forms []models.Form) *document {
	doc := newDocument()
	r.coverPage(doc, forms)
	for i := range forms {
		r.reportPage(doc, &forms[i])
	}
	return doc
}

// DateRangeReports renders a cover page with the period's aggregate
// statistics, then one page per report.
func (r *Renderer) DateRangeReports(forms []models.Form, start, end time.Time, depot string) ([]byte, error) {
	doc := r.buildDateRange(forms, start, end, depot)
	return doc.output()
}

func (r *Renderer) buildDateRange(forms []models.Form, start, end time.Time, depot string) *document {
	doc := newDocument()
	r.dateRangeCoverPage(doc, forms, start, end, depot)
	for i := range forms {
		r.reportPage(doc, &forms[i])
	}
	return doc
}

// Summary renders the statistics block and the tabular listing; no
// per-report pages. The listing continues onto new pages as needed.
func (r *Renderer) Summary(forms []models.Form, stats reports.Statistics, start, end time.Time) ([]byte, error) {
	doc := r.buildSummary(forms, stats, start, end)
	return doc.output()
}
