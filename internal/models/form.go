package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type FormStatus string

const (
	StatusDraft     FormStatus = "draft"
	StatusSubmitted FormStatus = "submitted"
	StatusApproved  FormStatus = "approved"
	StatusRejected  FormStatus = "rejected"
)

func ValidFormStatus(s FormStatus) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Vehicle is one line of the report's vehicle table.
type Vehicle struct {
	Matricule      string  `json:"matricule"`
	Chauffeur      string  `json:"chauffeur"`
	HeureRevif     string  `json:"heureRevif,omitempty"`
	QuantiteLivree float64 `json:"quantiteLivree,omitempty"`
	LieuComptage   string  `json:"lieuComptage,omitempty"`
}

// Form is one daily fuel-delivery report (Rapport Journalier).
// ReportID is the caller-facing identifier printed on the paper form;
// the numeric primary key is internal only. No soft delete: an admin
// delete removes the row.
type Form struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ReportID string `gorm:"size:64;uniqueIndex;not null" json:"id"`

	Entree   string `gorm:"size:100;not null" json:"entree"`
	Origine  string `gorm:"size:100;not null" json:"origine"`
	Depot    string `gorm:"size:100;not null;index" json:"depot"`
	Chantier string `gorm:"size:100;not null" json:"chantier"`

	Date time.Time `gorm:"not null;index" json:"date"`

	StockDebut   float64 `json:"stockDebut"`
	StockFin     float64 `json:"stockFin"`
	SortieGasoil float64 `json:"sortieGasoil"`
	DebutIndex   float64 `json:"debutIndex"`
	FinIndex     float64 `json:"finIndex"`

	Vehicles datatypes.JSONSlice[Vehicle] `json:"vehicles"`

	SignatureResponsable    string `gorm:"type:text" json:"signatureResponsable,omitempty"`
	SignatureURLResponsable string `gorm:"size:255" json:"signatureUrlResponsable,omitempty"`
	SignatureChef           string `gorm:"type:text" json:"signatureChef,omitempty"`
	SignatureURLChef        string `gorm:"size:255" json:"signatureUrlChef,omitempty"`

	Status FormStatus `gorm:"type:varchar(20);not null;default:'submitted';index" json:"status"`
	Notes  string     `gorm:"size:500" json:"notes,omitempty"`

	SubmittedAt time.Time  `gorm:"index" json:"submittedAt"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy  uint       `json:"approvedBy,omitempty"`

	IPAddress string `gorm:"size:64" json:"ipAddress,omitempty"`
	UserAgent string `gorm:"size:512" json:"userAgent,omitempty"`
}

// TotalFuelDelivered sums the delivered quantities; a missing quantity counts as 0.
func (f *Form) TotalFuelDelivered() float64 {
	var total float64
	for _, v := range f.Vehicles {
		total += v.QuantiteLivree
	}
	return total
}

func (f *Form) VehicleCount() int {
	return len(f.Vehicles)
}

// UniqueDriverCount counts distinct drivers, case-insensitive and trimmed.
func (f *Form) UniqueDriverCount() int {
	seen := make(map[string]struct{}, len(f.Vehicles))
	for _, v := range f.Vehicles {
		name := strings.ToLower(strings.TrimSpace(v.Chauffeur))
		if name != "" {
			seen[name] = struct{}{}
		}
	}
	return len(seen)
}

// StripSignatureData clears the inline base64 payloads, keeping the file
// URLs. List endpoints use it so responses stay small.
func (f *Form) StripSignatureData() {
	f.SignatureResponsable = ""
	f.SignatureChef = ""
}
