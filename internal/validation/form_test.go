package validation

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func validSignature() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
}

func validInput() FormInput {
	return FormInput{
		Entree:       "Entree nord",
		Origine:      "Nouakchott",
		Depot:        "Depot Central",
		Chantier:     "Chantier A",
		Date:         "2025-06-14",
		StockDebut:   1000,
		StockFin:     700,
		SortieGasoil: 300,
		Vehicles: []VehicleInput{
			{Matricule: "ab-123", Chauffeur: "Mohamed", HeureRevif: "08:30", QuantiteLivree: 150},
		},
		SignatureResponsable: validSignature(),
		SignatureChef:        validSignature(),
	}
}

func hasFieldError(errs []FieldError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestFormValid(t *testing.T) {
	in := validInput()
	diags, errs := Form(&in, testNow)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if in.Status != "submitted" {
		t.Errorf("default status = %q, want submitted", in.Status)
	}
	if in.ParsedDate.IsZero() {
		t.Error("ParsedDate not set")
	}
}

func TestFormRequiredFields(t *testing.T) {
	in := validInput()
	in.Depot = "   "
	in.Chantier = ""
	_, errs := Form(&in, testNow)
	if !hasFieldError(errs, "depot") || !hasFieldError(errs, "chantier") {
		t.Fatalf("missing required-field errors, got %v", errs)
	}
}

func TestFormDateRules(t *testing.T) {
	t.Run("future rejected", func(t *testing.T) {
		in := validInput()
		in.Date = "2025-06-16"
		_, errs := Form(&in, testNow)
		if !hasFieldError(errs, "date") {
			t.Fatalf("future date accepted: %v", errs)
		}
	})

	t.Run("today accepted", func(t *testing.T) {
		in := validInput()
		in.Date = "2025-06-15"
		_, errs := Form(&in, testNow)
		if hasFieldError(errs, "date") {
			t.Fatalf("same-day date rejected: %v", errs)
		}
	})

	t.Run("over a year old warns", func(t *testing.T) {
		in := validInput()
		in.Date = "2024-01-01"
		diags, errs := Form(&in, testNow)
		if hasFieldError(errs, "date") {
			t.Fatalf("old date rejected: %v", errs)
		}
		found := false
		for _, d := range diags {
			if d.Field == "date" {
				found = true
			}
		}
		if !found {
			t.Fatal("expected stale-date diagnostic")
		}
	})

	t.Run("rfc3339 accepted", func(t *testing.T) {
		in := validInput()
		in.Date = "2025-06-14T00:00:00Z"
		_, errs := Form(&in, testNow)
		if hasFieldError(errs, "date") {
			t.Fatalf("RFC3339 date rejected: %v", errs)
		}
	})

	t.Run("garbage rejected", func(t *testing.T) {
		in := validInput()
		in.Date = "15/06/2025"
		_, errs := Form(&in, testNow)
		if !hasFieldError(errs, "date") {
			t.Fatal("unparseable date accepted")
		}
	})
}

func TestFormStockBounds(t *testing.T) {
	in := validInput()
	in.StockDebut = 150000
	in.SortieGasoil = 60000
	_, errs := Form(&in, testNow)
	if !hasFieldError(errs, "stockDebut") || !hasFieldError(errs, "sortieGasoil") {
		t.Fatalf("out-of-range stocks accepted: %v", errs)
	}
}

func TestFormStockBalanceDiagnostic(t *testing.T) {
	in := validInput()
	in.StockDebut = 1000
	in.SortieGasoil = 200
	in.StockFin = 700 // off by 100, beyond tolerance
	diags, errs := Form(&in, testNow)
	if len(errs) != 0 {
		t.Fatalf("imbalance must not reject: %v", errs)
	}
	found := false
	for _, d := range diags {
		if d.Field == "stockFin" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected stock imbalance diagnostic")
	}
}

func TestFormVehicleRules(t *testing.T) {
	t.Run("none required", func(t *testing.T) {
		in := validInput()
		in.Vehicles = nil
		_, errs := Form(&in, testNow)
		if !hasFieldError(errs, "vehicles") {
			t.Fatal("empty vehicle list accepted")
		}
	})

	t.Run("matricule uppercased", func(t *testing.T) {
		in := validInput()
		in.Vehicles[0].Matricule = "  ab-123 "
		_, errs := Form(&in, testNow)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if in.Vehicles[0].Matricule != "AB-123" {
			t.Errorf("matricule = %q, want AB-123", in.Vehicles[0].Matricule)
		}
	})

	t.Run("bad time format", func(t *testing.T) {
		in := validInput()
		in.Vehicles[0].HeureRevif = "25:99"
		_, errs := Form(&in, testNow)
		if !hasFieldError(errs, "vehicles[0].heureRevif") {
			t.Fatalf("invalid time accepted: %v", errs)
		}
	})

	t.Run("empty time allowed", func(t *testing.T) {
		in := validInput()
		in.Vehicles[0].HeureRevif = ""
		_, errs := Form(&in, testNow)
		if len(errs) != 0 {
			t.Fatalf("empty time rejected: %v", errs)
		}
	})

	t.Run("quantity bounds", func(t *testing.T) {
		in := validInput()
		in.Vehicles[0].QuantiteLivree = 10001
		_, errs := Form(&in, testNow)
		if !hasFieldError(errs, "vehicles[0].quantiteLivree") {
			t.Fatal("excess quantity accepted")
		}
	})

	t.Run("sixteen vehicles accepted", func(t *testing.T) {
		in := validInput()
		for i := 0; i < 15; i++ {
			in.Vehicles = append(in.Vehicles, VehicleInput{
				Matricule: "CG-100", Chauffeur: "Driver", QuantiteLivree: 10,
			})
		}
		_, errs := Form(&in, testNow)
		if len(errs) != 0 {
			t.Fatalf("16 vehicles rejected: %v", errs)
		}
	})
}

func TestFormSignatureRules(t *testing.T) {
	cases := []struct {
		name  string
		value string
		valid bool
	}{
		{"png", validSignature(), true},
		{"jpeg", "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("x")), true},
		{"missing", "", false},
		{"wrong mime", "data:image/gif;base64,QUJD", false},
		{"plain text", "hello", false},
		{"bad base64", "data:image/png;base64,!!!not-base64!!!", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			in.SignatureResponsable = tc.value
			_, errs := Form(&in, testNow)
			got := !hasFieldError(errs, "signatureResponsable")
			if got != tc.valid {
				t.Errorf("valid = %v, want %v (errs %v)", got, tc.valid, errs)
			}
		})
	}
}

func TestFormStripsAngleBrackets(t *testing.T) {
	in := validInput()
	in.Depot = "<script>Depot</script>"
	in.Notes = "ok <b>note</b>"
	_, errs := Form(&in, testNow)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if strings.ContainsAny(in.Depot, "<>") || strings.ContainsAny(in.Notes, "<>") {
		t.Errorf("brackets survived: depot=%q notes=%q", in.Depot, in.Notes)
	}
}

func TestFormNotesLimit(t *testing.T) {
	in := validInput()
	in.Notes = strings.Repeat("a", 501)
	_, errs := Form(&in, testNow)
	if !hasFieldError(errs, "notes") {
		t.Fatal("oversized notes accepted")
	}
}

func TestFormAccentedTextLengths(t *testing.T) {
	// Accented characters take two bytes in UTF-8; limits count characters.
	t.Run("100 accented chars accepted", func(t *testing.T) {
		in := validInput()
		in.Depot = strings.Repeat("é", 100)
		_, errs := Form(&in, testNow)
		if hasFieldError(errs, "depot") {
			t.Fatalf("100-character depot rejected: %v", errs)
		}
	})

	t.Run("101 accented chars rejected", func(t *testing.T) {
		in := validInput()
		in.Depot = strings.Repeat("é", 101)
		_, errs := Form(&in, testNow)
		if !hasFieldError(errs, "depot") {
			t.Fatal("oversized depot accepted")
		}
	})

	t.Run("accented driver name", func(t *testing.T) {
		in := validInput()
		in.Vehicles[0].Chauffeur = strings.Repeat("è", 100)
		_, errs := Form(&in, testNow)
		if hasFieldError(errs, "vehicles[0].chauffeur") {
			t.Fatalf("100-character driver name rejected: %v", errs)
		}
	})

	t.Run("accented notes at limit", func(t *testing.T) {
		in := validInput()
		in.Notes = strings.Repeat("à", 500)
		_, errs := Form(&in, testNow)
		if hasFieldError(errs, "notes") {
			t.Fatalf("500-character notes rejected: %v", errs)
		}
	})
}

func TestFormStatusValues(t *testing.T) {
	in := validInput()
	in.Status = "archived"
	_, errs := Form(&in, testNow)
	if !hasFieldError(errs, "status") {
		t.Fatal("unknown status accepted")
	}
}
