package pdf

import (
	"bytes"
	"fmt"

	"github.com/ahmedEssyad/eter-reports-separated/internal/models"
	"github.com/ahmedEssyad/eter-reports-separated/internal/storage"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// The vehicle table always renders this many row slots, filled or not.
// The paper form has 15 lines; vehicles beyond that are dropped from the
// rendered page.
const vehicleRowSlots = 15

type infoCell struct {
	label string
	value string
	width float64
}

// reportPage draws one report on a fresh page, replicating the paper
// "Rapport Journalier" sheet: framed header, title row, info grid,
// 15-slot vehicle table and the signature strip.
func (r *Renderer) reportPage(doc *document, form *models.Form) {
	doc.pdf.AddPage()

	y := pageMargin
	doc.pdf.Rect(pageMargin, pageMargin, frameWidth, frameHeight, "D")

	// Header block
	doc.pdf.Rect(pageMargin, y, frameWidth, 60, "D")
	doc.pdf.SetFont("Helvetica", "B", 12)
	doc.textAt(pageMargin+10, y+15, frameWidth-20, "C", "Établissement des Travaux d'Entretien Routier -ETER-")
	doc.pdf.SetFont("Helvetica", "I", 10)
	doc.textAt(pageMargin+10, y+35, frameWidth-20, "C", "Direction des Approvisionnements et Logistique -DAL-")
	y += 70

	// Title row with the report number
	doc.pdf.Rect(pageMargin, y, frameWidth, 30, "D")
	doc.pdf.SetFont("Helvetica", "B", 14)
	doc.textAt(pageMargin+10, y+8, 400, "L", "Rapport Journalier")
	doc.pdf.SetFont("Helvetica", "B", 10)
	doc.textAt(pageMargin+420, y+12, 125, "L", "N° "+form.ReportID)
	y += 40

	r.infoGrid(doc, form, y)
	y += 110

	r.vehicleTable(doc, form, y)
	y += 340

	r.signatureStrip(doc, form, y)
}

func (r *Renderer) infoGrid(doc *document, form *models.Form, y float64) {
	firstMatricule := ""
	if len(form.Vehicles) > 0 {
		firstMatricule = form.Vehicles[0].Matricule
	}

	rows := [][]infoCell{
		{
			{"Entrée", form.Entree, 170},
			{"Origine", form.Origine, 170},
			{"Matricule CCG", firstMatricule, 95},
			{"Date", formatDate(form.Date), 120},
		},
		{
			{"Dépôt", form.Depot, 170},
			{"Chantier", form.Chantier, 170},
			{"Stock Début", formatNumber(form.StockDebut), 95},
			{"Stock Fin", formatNumber(form.StockFin), 60},
			{"Sortie Gasoil", formatNumber(form.SortieGasoil), 60},
		},
		{
			{"", "", 340},
			{"Début Index", formatNumber(form.DebutIndex), 95},
			{"Fin Index", formatNumber(form.FinIndex), 120},
		},
	}

	for i, row := range rows {
		r.infoRow(doc, row, y+float64(i)*25)
	}
}

func (r *Renderer) infoRow(doc *document, cells []infoCell, y float64) {
	x := pageMargin
	for _, cell := range cells {
		doc.pdf.Rect(x, y, cell.width, 25, "D")
		if cell.label != "" {
			doc.pdf.SetFont("Helvetica", "B", 8)
			doc.textAt(x+5, y+3, cell.width-10, "L", cell.label)
			doc.pdf.SetFont("Helvetica", "", 8)
			doc.textAt(x+5, y+12, cell.width-10, "L", cell.value)
		}
		x += cell.width
	}
}

var vehicleColumns = []struct {
	header string
	width  float64
}{
	{"Matricule", 70},
	{"Nom Chauffeur", 90},
	{"Signature", 60},
	{"Heure Revif", 70},
	{"Qté Livrée", 70},
	{"Lieu de Comptage", 80},
	{"Compteur", 75},
}

func (r *Renderer) vehicleTable(doc *document, form *models.Form, y float64) {
	x := pageMargin
	doc.pdf.SetFont("Helvetica", "B", 8)
	for _, col := range vehicleColumns {
		doc.pdf.Rect(x, y, col.width, 25, "D")
		doc.textAt(x+2, y+8, col.width-4, "C", col.header)
		x += col.width
	}
	y += 25

	doc.pdf.SetFont("Helvetica", "", 8)
	for i := 0; i < vehicleRowSlots; i++ {
		var v models.Vehicle
		if i < len(form.Vehicles) {
			v = form.Vehicles[i]
		}

		quantity := ""
		if v.QuantiteLivree != 0 {
			quantity = formatNumber(v.QuantiteLivree)
		}
		// The signature and compteur columns stay blank; they are filled
		// in by hand on the printed sheet.
		cells := []string{v.Matricule, v.Chauffeur, "", v.HeureRevif, quantity, v.LieuComptage, ""}

		x = pageMargin
		for j, col := range vehicleColumns {
			doc.pdf.Rect(x, y, col.width, 20, "D")
			if cells[j] != "" {
				doc.textAt(x+2, y+6, col.width-4, "C", cells[j])
			}
			x += col.width
		}
		y += 20
	}
}

func (r *Renderer) signatureStrip(doc *document, form *models.Form, y float64) {
	doc.pdf.Line(pageMargin, y, pageMargin+frameWidth, y)

	doc.pdf.SetFont("Helvetica", "", 9)
	doc.textAt(pageMargin+30, y+15, 150, "L", "Signature Responsable")
	doc.textAt(pageMargin+250, y+15, 150, "L", fmt.Sprintf("Total: %sL", formatNumber(form.TotalFuelDelivered())))
	doc.textAt(pageMargin+450, y+15, 105, "L", "Signature Chef")

	r.embedSignature(doc, form.ReportID, "responsable", form.SignatureURLResponsable, pageMargin+30, y+30)
	r.embedSignature(doc, form.ReportID, "chef", form.SignatureURLChef, pageMargin+420, y+30)
}

// embedSignature places a saved signature image; any failure to read or
// register it leaves the slot blank and is only logged.
func (r *Renderer) embedSignature(doc *document, reportID, role, urlPath string, x, y float64) {
	if urlPath == "" {
		return
	}

	data, err := r.signatures.Read(urlPath)
	if err != nil {
		r.logger.Warn("could not load signature image",
			zap.String("form_id", reportID),
			zap.String("role", role),
			zap.Error(err))
		return
	}

	name := fmt.Sprintf("sig_%s_%s", reportID, role)
	opts := gofpdf.ImageOptions{ImageType: storage.ImageType(data)}
	doc.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if doc.pdf.Err() {
		r.logger.Warn("could not embed signature image",
			zap.String("form_id", reportID),
			zap.String("role", role),
			zap.String("error", doc.pdf.Error().Error()))
		doc.pdf.ClearError()
		return
	}
	doc.pdf.ImageOptions(name, x, y, 120, 60, false, opts, 0, "")
}
