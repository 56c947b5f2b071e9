package pdf

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ahmedEssyad/eter-reports-separated/internal/models"
	"github.com/ahmedEssyad/eter-reports-separated/internal/reports"
)

// Vertical limit for the summary listing; once the cursor passes it the
// table continues on a fresh page.
const summaryPageLimit = 750.0

var summaryColumns = []struct {
	header string
	width  float64
}{
	{"Date", 80},
	{"Dépôt", 150},
	{"Véhicules", 80},
	{"Carburant (L)", 100},
	{"Statut", 80},
}

func (r *Renderer) buildSummary(forms []models.Form, stats reports.Statistics, start, end time.Time) *document {
	doc := newDocument()
	doc.pdf.AddPage()

	width := 595.28 - 2*summaryMargin
	y := summaryMargin + 10

	doc.pdf.SetFont("Helvetica", "B", 20)
	doc.textAt(summaryMargin, y, width, "C", "ETER - Rapport de Synthèse")
	y += 26

	doc.pdf.SetFont("Helvetica", "", 12)
	doc.textAt(summaryMargin, y, width, "C",
		fmt.Sprintf("Période: %s - %s", formatDate(start), formatDate(end)))
	y += 50

	y = r.statisticsSection(doc, stats, y)
	r.summaryTable(doc, forms, y)
	return doc
}

func (r *Renderer) statisticsSection(doc *document, stats reports.Statistics, y float64) float64 {
	doc.pdf.SetFont("Helvetica", "B", 16)
	doc.textAt(summaryMargin, y, 400, "L", "Statistiques Générales")
	y += 24

	lines := []struct {
		label string
		value string
	}{
		{"Nombre total de rapports", strconv.Itoa(stats.TotalReports)},
		{"Carburant total distribué", formatNumber(stats.TotalFuelDelivered) + " L"},
		{"Nombre de véhicules", strconv.Itoa(stats.TotalVehicles)},
		{"Conducteurs uniques", strconv.Itoa(stats.UniqueDriversCount)},
		{"Moyenne véhicules/rapport", formatNumber(stats.AvgVehiclesPerReport)},
	}

	for _, line := range lines {
		doc.pdf.SetFont("Helvetica", "", 12)
		doc.pdf.SetXY(summaryMargin, y)
		doc.pdf.CellFormat(doc.pdf.GetStringWidth(doc.tr(line.label+": "))+2, 14, doc.tr(line.label+": "), "", 0, "L", false, 0, "")
		doc.pdf.SetFont("Helvetica", "B", 12)
		doc.pdf.CellFormat(120, 14, doc.tr(line.value), "", 0, "L", false, 0, "")
		y += 16
	}

	return y + 30
}

// summaryTable lists one row per report and wraps onto continuation pages
// with a reset cursor once the usable height is exhausted.
func (r *Renderer) summaryTable(doc *document, forms []models.Form, y float64) {
	doc.pdf.SetFont("Helvetica", "B", 16)
	doc.textAt(summaryMargin, y, 400, "L", "Détail des Rapports")
	y += 24

	x := 50.0
	doc.pdf.SetFont("Helvetica", "B", 10)
	for _, col := range summaryColumns {
		doc.pdf.Rect(x, y, col.width, 20, "D")
		doc.textAt(x+5, y+5, col.width-10, "L", col.header)
		x += col.width
	}
	y += 20

	doc.pdf.SetFont("Helvetica", "", 9)
	for i := range forms {
		form := &forms[i]
		cells := []string{
			formatDate(form.Date),
			form.Depot,
			strconv.Itoa(form.VehicleCount()),
			strconv.FormatFloat(math.Round(form.TotalFuelDelivered()), 'f', 0, 64),
			string(form.Status),
		}

		x = 50.0
		for j, col := range summaryColumns {
			doc.pdf.Rect(x, y, col.width, 15, "D")
			doc.textAt(x+2, y+3, col.width-4, "L", cells[j])
			x += col.width
		}
		y += 15

		if y > summaryPageLimit {
			doc.pdf.AddPage()
			doc.pdf.SetFont("Helvetica", "", 9)
			y = 50
		}
	}
}
