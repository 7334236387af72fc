package student

import (
	"strings"
	"testing"

	"github.com/projectklase/comunika/core"
)

func Test_ValidateDraft(t *testing.T) {
	t.Run("clean draft passes untouched", func(t *testing.T) {
		d := Draft{
			SchoolID:  "sch1",
			Name:      "Maria Silva",
			Email:     "maria@test.br",
			BirthDate: "2015-04-02",
			Phones:    []string{"11987654321"},
		}
		res := ValidateDraft(d)
		if !res.Valid {
			t.Fatalf("ValidateDraft() invalid: %+v", res.Errors)
		}
		if len(res.Adjustments) != 0 {
			t.Errorf("ValidateDraft() adjustments = %+v, want none", res.Adjustments)
		}
		if res.Draft.Name != d.Name || res.Draft.Email != d.Email || res.Draft.Phones[0] != d.Phones[0] {
			t.Errorf("ValidateDraft() draft changed: %+v", res.Draft)
		}
	})

	t.Run("missing name is an error", func(t *testing.T) {
		res := ValidateDraft(Draft{Name: "   "})
		if res.Valid {
			t.Fatal("ValidateDraft() valid, want invalid")
		}
		if len(res.Errors) != 1 || res.Errors[0].Field != "name" {
			t.Errorf("ValidateDraft() errors = %+v", res.Errors)
		}
	})

	t.Run("long name clamped to 120", func(t *testing.T) {
		res := ValidateDraft(Draft{Name: strings.Repeat("a", 150)})
		if !res.Valid {
			t.Fatalf("ValidateDraft() invalid: %+v", res.Errors)
		}
		if got := len([]rune(res.Draft.Name)); got != 120 {
			t.Errorf("ValidateDraft() name length = %d, want 120", got)
		}
		if len(res.Adjustments) != 1 || res.Adjustments[0].Reason != core.AdjustTruncated {
			t.Errorf("ValidateDraft() adjustments = %+v", res.Adjustments)
		}
	})

	t.Run("email lowercased with adjustment", func(t *testing.T) {
		res := ValidateDraft(Draft{Name: "Maria", Email: "Maria@Test.BR"})
		if !res.Valid {
			t.Fatalf("ValidateDraft() invalid: %+v", res.Errors)
		}
		if res.Draft.Email != "maria@test.br" {
			t.Errorf("ValidateDraft() email = %q", res.Draft.Email)
		}
		if len(res.Adjustments) != 1 || res.Adjustments[0].Reason != core.AdjustEmailCase {
			t.Errorf("ValidateDraft() adjustments = %+v", res.Adjustments)
		}
	})

	t.Run("malformed email is an error, not an adjustment", func(t *testing.T) {
		res := ValidateDraft(Draft{Name: "Maria", Email: "not-an-email"})
		if res.Valid {
			t.Fatal("ValidateDraft() valid, want invalid")
		}
		if len(res.Errors) != 1 || res.Errors[0].Field != "email" {
			t.Errorf("ValidateDraft() errors = %+v", res.Errors)
		}
	})

	t.Run("bad birth date is an error", func(t *testing.T) {
		res := ValidateDraft(Draft{Name: "Maria", BirthDate: "02/04/2015"})
		if res.Valid {
			t.Fatal("ValidateDraft() valid, want invalid")
		}
		if res.Errors[0].Field != "birth_date" {
			t.Errorf("ValidateDraft() errors = %+v", res.Errors)
		}
	})

	t.Run("phones validated per index", func(t *testing.T) {
		res := ValidateDraft(Draft{
			Name:   "Maria",
			Phones: []string{"(11) 98765-4321", "123", "1187654321"},
		})
		if res.Valid {
			t.Fatal("ValidateDraft() valid, want invalid")
		}
		if len(res.Errors) != 1 || res.Errors[0].Field != "phones[1]" {
			t.Fatalf("ValidateDraft() errors = %+v", res.Errors)
		}
		want := []string{"11987654321", "1187654321"}
		if len(res.Draft.Phones) != len(want) {
			t.Fatalf("ValidateDraft() phones = %v, want %v", res.Draft.Phones, want)
		}
		for i := range want {
			if res.Draft.Phones[i] != want[i] {
				t.Errorf("ValidateDraft() phones[%d] = %q, want %q", i, res.Draft.Phones[i], want[i])
			}
		}
		if len(res.Adjustments) != 1 || res.Adjustments[0].Field != "phones[0]" {
			t.Errorf("ValidateDraft() adjustments = %+v", res.Adjustments)
		}
	})

	t.Run("idempotent on its own output", func(t *testing.T) {
		first := ValidateDraft(Draft{
			Name:   "  Maria   Silva ",
			Email:  "Maria@Test.BR",
			Phones: []string{"+55 (11) 98765-4321"},
		})
		second := ValidateDraft(first.Draft)
		if !second.Valid {
			t.Fatalf("ValidateDraft() second pass invalid: %+v", second.Errors)
		}
		if len(second.Adjustments) != 0 {
			t.Errorf("ValidateDraft() second pass adjustments = %+v, want none", second.Adjustments)
		}
	})
}
