package pdf

import (
	"fmt"
	"math"
	"time"

	"github.com/ahmedEssyad/eter-reports-separated/internal/models"
)

// coverListLimit caps how many report identifiers the cover page lists
// before falling back to an "and N more" line.
const coverListLimit = 10

// coverPage opens a multi-report export: title, export date, report count
// and a short listing of the included reports.
func (r *Renderer) coverPage(doc *document, forms []models.Form) {
	doc.pdf.AddPage()
	y := 60.0
	width := frameWidth

	doc.pdf.SetFont("Helvetica", "B", 24)
	doc.textAt(pageMargin, y, width, "C", "ETER - Rapports Journaliers")
	y += 30
	doc.pdf.SetFont("Helvetica", "", 18)
	doc.textAt(pageMargin, y, width, "C", "Compilation des Rapports")
	y += 50

	doc.pdf.SetFont("Helvetica", "", 14)
	doc.textAt(pageMargin, y, width, "C", "Date d'export: "+formatDate(time.Now()))
	y += 18
	doc.textAt(pageMargin, y, width, "C", fmt.Sprintf("Nombre de rapports: %d", len(forms)))
	y += 50

	doc.pdf.SetFont("Helvetica", "B", 12)
	doc.textAt(pageMargin, y, width, "L", "Résumé:")
	y += 18

	doc.pdf.SetFont("Helvetica", "", 10)
	for i, form := range forms {
		if i == coverListLimit {
			break
		}
		doc.textAt(pageMargin, y, width, "L",
			fmt.Sprintf("%d. %s - %s - %s", i+1, form.ReportID, form.Depot, formatDate(form.Date)))
		y += 14
	}
	if len(forms) > coverListLimit {
		doc.pdf.SetFont("Helvetica", "I", 10)
		doc.textAt(pageMargin, y, width, "L",
			fmt.Sprintf("... et %d autres rapports", len(forms)-coverListLimit))
	}
}

// dateRangeCoverPage opens a period export: the range, active filters and
// the period's aggregate statistics.
func (r *Renderer) dateRangeCoverPage(doc *document, forms []models.Form, start, end time.Time, depot string) {
	doc.pdf.AddPage()
	y := 60.0
	width := frameWidth

	doc.pdf.SetFont("Helvetica", "B", 24)
	doc.textAt(pageMargin, y, width, "C", "ETER - Rapports par Période")
	y += 35

	doc.pdf.SetFont("Helvetica", "", 16)
	doc.textAt(pageMargin, y, width, "C",
		fmt.Sprintf("Du %s au %s", formatDate(start), formatDate(end)))
	y += 50

	doc.pdf.SetFont("Helvetica", "", 14)
	if depot != "" {
		doc.textAt(pageMargin, y, width, "C", "Dépôt: "+depot)
		y += 18
	}
	doc.textAt(pageMargin, y, width, "C", fmt.Sprintf("Nombre de rapports: %d", len(forms)))
	y += 50

	var totalFuel float64
	totalVehicles := 0
	for i := range forms {
		totalFuel += forms[i].TotalFuelDelivered()
		totalVehicles += forms[i].VehicleCount()
	}
	avgFuel := 0.0
	if len(forms) > 0 {
		avgFuel = totalFuel / float64(len(forms))
	}

	doc.pdf.SetFont("Helvetica", "B", 12)
	doc.textAt(pageMargin, y, width, "L", "Statistiques de la période:")
	y += 18

	doc.pdf.SetFont("Helvetica", "", 11)
	doc.textAt(pageMargin, y, width, "L",
		fmt.Sprintf("• Total carburant distribué: %.0f L", math.Round(totalFuel)))
	y += 15
	doc.textAt(pageMargin, y, width, "L", fmt.Sprintf("• Total véhicules: %d", totalVehicles))
	y += 15
	doc.textAt(pageMargin, y, width, "L",
		fmt.Sprintf("• Moyenne par rapport: %.0f L", math.Round(avgFuel)))
}
