package validation

import (
	"strings"
	"testing"
)

func TestUsernameRules(t *testing.T) {
	cases := []struct {
		name  string
		value string
		valid bool
	}{
		{"normal", "admin_01", true},
		{"uppercased input", "Admin-01", true},
		{"too short", "ab", false},
		{"too long", strings.Repeat("a", 31), false},
		{"bad characters", "user name", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := tc.value
			errs := Username(&v)
			if (len(errs) == 0) != tc.valid {
				t.Errorf("Username(%q) errs = %v, want valid=%v", tc.value, errs, tc.valid)
			}
		})
	}

	t.Run("normalized to lower case", func(t *testing.T) {
		v := "  Admin-01 "
		if errs := Username(&v); len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if v != "admin-01" {
			t.Errorf("username = %q, want admin-01", v)
		}
	})
}

func TestPasswordRules(t *testing.T) {
	if errs := Password("abc123"); len(errs) != 0 {
		t.Fatalf("valid password rejected: %v", errs)
	}
	if errs := Password("ab1"); len(errs) == 0 {
		t.Fatal("short password accepted")
	}
	if errs := Password("abcdef"); len(errs) == 0 {
		t.Fatal("digit-free password accepted")
	}
	if errs := Password("123456"); len(errs) == 0 {
		t.Fatal("letter-free password accepted")
	}
}

func TestDisplayNameAccentedLengths(t *testing.T) {
	t.Run("accented name accepted", func(t *testing.T) {
		v := "Élodie Gérard-N'Diaye"
		if errs := DisplayName(&v); len(errs) != 0 {
			t.Fatalf("accented name rejected: %v", errs)
		}
	})

	t.Run("100 accented chars accepted", func(t *testing.T) {
		v := strings.Repeat("é", 100)
		if errs := DisplayName(&v); len(errs) != 0 {
			t.Fatalf("100-character name rejected: %v", errs)
		}
	})

	t.Run("101 accented chars rejected", func(t *testing.T) {
		v := strings.Repeat("é", 101)
		if errs := DisplayName(&v); len(errs) == 0 {
			t.Fatal("oversized name accepted")
		}
	})

	t.Run("single char rejected", func(t *testing.T) {
		v := "A"
		if errs := DisplayName(&v); len(errs) == 0 {
			t.Fatal("one-character name accepted")
		}
	})
}

func TestRoleValues(t *testing.T) {
	for _, role := range []string{"", "admin", "supervisor", "user"} {
		if errs := Role(role); len(errs) != 0 {
			t.Errorf("Role(%q) rejected: %v", role, errs)
		}
	}
	if errs := Role("root"); len(errs) == 0 {
		t.Fatal("unknown role accepted")
	}
}
