package validation

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmedEssyad/eter-reports-separated/internal/models"
)

// FieldError is one hard validation failure. Any FieldError rejects the
// whole submission.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Diagnostic is a soft warning attached to an accepted submission
// (stock imbalance, stale date). Logged and returned, never rejected.
type Diagnostic struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type VehicleInput struct {
	Matricule      string  `json:"matricule"`
	Chauffeur      string  `json:"chauffeur"`
	HeureRevif     string  `json:"heureRevif"`
	QuantiteLivree float64 `json:"quantiteLivree"`
	LieuComptage   string  `json:"lieuComptage"`
}

type FormInput struct {
	ID                   string         `json:"id"`
	Entree               string         `json:"entree"`
	Origine              string         `json:"origine"`
	Depot                string         `json:"depot"`
	Chantier             string         `json:"chantier"`
	Date                 string         `json:"date"`
	StockDebut           float64        `json:"stockDebut"`
	StockFin             float64        `json:"stockFin"`
	SortieGasoil         float64        `json:"sortieGasoil"`
	DebutIndex           float64        `json:"debutIndex"`
	FinIndex             float64        `json:"finIndex"`
	Vehicles             []VehicleInput `json:"vehicles"`
	SignatureResponsable string         `json:"signatureResponsable"`
	SignatureChef        string         `json:"signatureChef"`
	Status               string         `json:"status"`
	Notes                string         `json:"notes"`

	// ParsedDate is filled by Form on success.
	ParsedDate time.Time `json:"-"`
}

var (
	timeOfDayRe = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
	signatureRe = regexp.MustCompile(`^data:image/(png|jpeg|jpg);base64,`)

	// Free text may not carry angle brackets; they are stripped, not rejected.
	bracketStripper = strings.NewReplacer("<", "", ">", "")

	stockBalanceTolerance = 0.1
)

func cleanText(s string) string {
	return strings.TrimSpace(bracketStripper.Replace(s))
}

// Form validates and normalizes a submission in place. It returns soft
// diagnostics alongside the hard per-field errors; the submission is
// rejected whole when errs is non-empty.
func Form(in *FormInput, now time.Time) (diags []Diagnostic, errs []FieldError) {
	in.ID = strings.TrimSpace(in.ID)

	required := []struct {
		field string
		value *string
		label string
	}{
		{"entree", &in.Entree, "Entry"},
		{"origine", &in.Origine, "Origin"},
		{"depot", &in.Depot, "Depot"},
		{"chantier", &in.Chantier, "Construction site"},
	}
	for _, f := range required {
		*f.value = cleanText(*f.value)
		if *f.value == "" {
			errs = append(errs, FieldError{f.field, f.label + " is required"})
		} else if utf8.RuneCountInString(*f.value) > 100 {
			errs = append(errs, FieldError{f.field, f.label + " cannot exceed 100 characters"})
		}
	}

	diags = append(diags, validateDate(in, now, &errs)...)

	checkRange(&errs, "stockDebut", in.StockDebut, 0, 100000, "Start stock")
	checkRange(&errs, "stockFin", in.StockFin, 0, 100000, "End stock")
	checkRange(&errs, "sortieGasoil", in.SortieGasoil, 0, 50000, "Diesel output")
	if in.DebutIndex < 0 {
		errs = append(errs, FieldError{"debutIndex", "Start index cannot be negative"})
	}
	if in.FinIndex < 0 {
		errs = append(errs, FieldError{"finIndex", "End index cannot be negative"})
	}

	if diff := in.StockDebut - in.SortieGasoil - in.StockFin; diff > stockBalanceTolerance || diff < -stockBalanceTolerance {
		diags = append(diags, Diagnostic{
			Field: "stockFin",
			Message: fmt.Sprintf("Stock inconsistency: start(%g) - output(%g) does not match end(%g)",
				in.StockDebut, in.SortieGasoil, in.StockFin),
		})
	}

	errs = append(errs, validateVehicles(in.Vehicles)...)

	errs = append(errs, validateSignature("signatureResponsable", "Supervisor", in.SignatureResponsable)...)
	errs = append(errs, validateSignature("signatureChef", "Chief", in.SignatureChef)...)

	in.Notes = cleanText(in.Notes)
	if utf8.RuneCountInString(in.Notes) > 500 {
		errs = append(errs, FieldError{"notes", "Notes cannot exceed 500 characters"})
	}

	if in.Status == "" {
		in.Status = string(models.StatusSubmitted)
	} else if !models.ValidFormStatus(models.FormStatus(in.Status)) {
		errs = append(errs, FieldError{"status", "Status must be draft, submitted, approved or rejected"})
	}

	return diags, errs
}

func validateDate(in *FormInput, now time.Time, errs *[]FieldError) []Diagnostic {
	if in.Date == "" {
		*errs = append(*errs, FieldError{"date", "Date is required"})
		return nil
	}

	parsed, err := parseDate(in.Date)
	if err != nil {
		*errs = append(*errs, FieldError{"date", "Invalid date format"})
		return nil
	}
	in.ParsedDate = parsed

	if parsed.After(now) {
		*errs = append(*errs, FieldError{"date", "Date cannot be in the future"})
		return nil
	}

	if parsed.Before(now.AddDate(-1, 0, 0)) {
		return []Diagnostic{{
			Field:   "date",
			Message: "Report date is more than one year in the past",
		}}
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func validateVehicles(vehicles []VehicleInput) []FieldError {
	var errs []FieldError

	if len(vehicles) == 0 {
		return []FieldError{{"vehicles", "At least one vehicle is required"}}
	}

	for i := range vehicles {
		v := &vehicles[i]
		prefix := fmt.Sprintf("vehicles[%d].", i)

		v.Matricule = strings.ToUpper(cleanText(v.Matricule))
		if v.Matricule == "" {
			errs = append(errs, FieldError{prefix + "matricule", "Vehicle matricule is required"})
		} else if utf8.RuneCountInString(v.Matricule) > 20 {
			errs = append(errs, FieldError{prefix + "matricule", "Matricule cannot exceed 20 characters"})
		}

		v.Chauffeur = cleanText(v.Chauffeur)
		if v.Chauffeur == "" {
			errs = append(errs, FieldError{prefix + "chauffeur", "Driver name is required"})
		} else if utf8.RuneCountInString(v.Chauffeur) > 100 {
			errs = append(errs, FieldError{prefix + "chauffeur", "Driver name cannot exceed 100 characters"})
		}

		v.HeureRevif = strings.TrimSpace(v.HeureRevif)
		if v.HeureRevif != "" && !timeOfDayRe.MatchString(v.HeureRevif) {
			errs = append(errs, FieldError{prefix + "heureRevif", "Invalid time format (HH:MM)"})
		}

		if v.QuantiteLivree < 0 || v.QuantiteLivree > 10000 {
			errs = append(errs, FieldError{prefix + "quantiteLivree", "Quantity delivered must be between 0 and 10,000"})
		}

		v.LieuComptage = cleanText(v.LieuComptage)
		if utf8.RuneCountInString(v.LieuComptage) > 200 {
			errs = append(errs, FieldError{prefix + "lieuComptage", "Location cannot exceed 200 characters"})
		}
	}

	return errs
}

// validateSignature checks the data-URI shape first, then that the base64
// payload actually decodes. Signature payloads are exempt from bracket
// stripping.
func validateSignature(field, who, value string) []FieldError {
	if value == "" {
		return []FieldError{{field, who + " signature is required"}}
	}
	if !signatureRe.MatchString(value) {
		return []FieldError{{field, "Invalid signature format"}}
	}
	payload := value[strings.Index(value, ",")+1:]
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return []FieldError{{field, "Signature image data is not valid base64"}}
	}
	return nil
}

func checkRange(errs *[]FieldError, field string, value, min, max float64, label string) {
	if value < min || value > max {
		*errs = append(*errs, FieldError{field, fmt.Sprintf("%s must be between %g and %g", label, min, max)})
	}
}
