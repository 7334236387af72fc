package class

import (
	"strings"
	"testing"

	"github.com/projectklase/comunika/core"
)

func Test_ValidateDraft(t *testing.T) {
	t.Run("clean draft passes untouched", func(t *testing.T) {
		res := ValidateDraft(Draft{SchoolID: "sch1", Name: "5º Ano B", Code: "5B-2026"})
		if !res.Valid {
			t.Fatalf("ValidateDraft() invalid: %+v", res.Errors)
		}
		if len(res.Adjustments) != 0 {
			t.Errorf("ValidateDraft() adjustments = %+v, want none", res.Adjustments)
		}
		if res.Class.Name != "5º Ano B" || res.Class.Code != "5B-2026" {
			t.Errorf("ValidateDraft() class = %+v", res.Class)
		}
	})

	t.Run("missing name is an error", func(t *testing.T) {
		res := ValidateDraft(Draft{Code: "5B"})
		if res.Valid || len(res.Errors) != 1 || res.Errors[0].Field != "name" {
			t.Errorf("ValidateDraft() = %+v, want name error", res)
		}
	})

	t.Run("name clamped to 120", func(t *testing.T) {
		res := ValidateDraft(Draft{Name: strings.Repeat("n", 150)})
		if !res.Valid {
			t.Fatalf("ValidateDraft() invalid: %+v", res.Errors)
		}
		if got := len([]rune(res.Class.Name)); got != 120 {
			t.Errorf("ValidateDraft() name length = %d, want 120", got)
		}
		if len(res.Adjustments) != 1 || res.Adjustments[0].Reason != core.AdjustTruncated {
			t.Errorf("ValidateDraft() adjustments = %+v", res.Adjustments)
		}
	})

	t.Run("code clamped to 20", func(t *testing.T) {
		res := ValidateDraft(Draft{Name: "Turma", Code: strings.Repeat("c", 30)})
		if !res.Valid {
			t.Fatalf("ValidateDraft() invalid: %+v", res.Errors)
		}
		if got := len([]rune(res.Class.Code)); got != 20 {
			t.Errorf("ValidateDraft() code length = %d, want 20", got)
		}
	})

	t.Run("trimmed name is an adjustment", func(t *testing.T) {
		res := ValidateDraft(Draft{Name: "  Turma da Manhã  "})
		if !res.Valid {
			t.Fatalf("ValidateDraft() invalid: %+v", res.Errors)
		}
		if res.Class.Name != "Turma da Manhã" {
			t.Errorf("ValidateDraft() name = %q", res.Class.Name)
		}
		if len(res.Adjustments) != 1 || res.Adjustments[0].Reason != core.AdjustTrimmed {
			t.Errorf("ValidateDraft() adjustments = %+v", res.Adjustments)
		}
	})
}
