package student

import (
	"fmt"
	"regexp"

	"github.com/projectklase/comunika/core"
)

const nameMaxLen = 120

// basic local@domain.tld shape; anything fancier is the mail server's problem
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type (
	// Draft is a person record as submitted by a form, before sanitation.
	Draft struct {
		ID        string   `json:"id,omitempty"`
		SchoolID  string   `json:"school_id"`
		Name      string   `json:"name"`
		Email     string   `json:"email,omitempty"`
		BirthDate string   `json:"birth_date,omitempty"` // YYYY-MM-DD
		Phones    []string `json:"phones,omitempty"`
		Notes     string   `json:"notes,omitempty"`
	}

	// ValidationResult always carries the sanitized draft, even when invalid,
	// so the caller can re-display corrected-so-far values.
	ValidationResult struct {
		Valid       bool              `json:"is_valid"`
		Draft       Draft             `json:"data"`
		Errors      []core.FieldError `json:"errors"`
		Adjustments []core.Adjustment `json:"adjustments"`
	}
)

// DraftFromStudent rebuilds the form representation of a stored record, which
// is what the bulk hygiene pass feeds back through ValidateDraft.
func DraftFromStudent(st Student) Draft {
	d := Draft{
		ID:       st.ID,
		SchoolID: st.SchoolID,
		Name:     st.Name,
		Email:    st.Email,
		Phones:   st.Phones,
		Notes:    st.Notes,
	}
	if !st.BirthDate.IsZero() {
		d.BirthDate = st.BirthDate.Format("2006-01-02")
	}
	return d
}

// ValidateDraft sanitizes and structurally validates a person draft.
// It is pure and never returns an error; unrecoverable problems become
// field-scoped entries in Errors.
func ValidateDraft(d Draft) ValidationResult {
	res := ValidationResult{Draft: d}

	// name: required, clamped
	name := core.SanitizeText(d.Name, nameMaxLen)
	if name == "" {
		res.Errors = append(res.Errors, core.FieldError{
			Field: "name", Error: "name is required", Value: d.Name,
		})
	} else if name != d.Name {
		reason := core.AdjustTrimmed
		if len([]rune(name)) == nameMaxLen {
			reason = core.AdjustTruncated
		}
		res.Adjustments = append(res.Adjustments, core.Adjustment{
			Field: "name", Reason: reason, Old: d.Name, New: name,
		})
	}
	res.Draft.Name = name

	// email: optional; a malformed email cannot be fixed automatically
	if d.Email != "" {
		email := core.CleanString(d.Email, true /* lower */)
		if !emailRegex.MatchString(email) {
			res.Errors = append(res.Errors, core.FieldError{
				Field: "email", Error: "invalid email address", Value: d.Email,
			})
		} else {
			if email != d.Email {
				res.Adjustments = append(res.Adjustments, core.Adjustment{
					Field: "email", Reason: core.AdjustEmailCase, Old: d.Email, New: email,
				})
			}
			res.Draft.Email = email
		}
	}

	// birth date: optional
	if d.BirthDate != "" {
		if _, ok := core.ParseDate(d.BirthDate); !ok {
			res.Errors = append(res.Errors, core.FieldError{
				Field: "birth_date", Error: "invalid date", Value: d.BirthDate,
			})
		}
	}

	// phones: each entry validated on its own; the output list keeps only
	// the entries that survived
	if len(d.Phones) > 0 {
		kept := make([]string, 0, len(d.Phones))
		for i, raw := range d.Phones {
			field := fmt.Sprintf("phones[%d]", i)
			check := core.ValidatePhone(raw)
			if !check.Valid {
				res.Errors = append(res.Errors, core.FieldError{
					Field: field, Error: "invalid phone number", Value: raw,
				})
				continue
			}
			if check.Changed {
				res.Adjustments = append(res.Adjustments, core.Adjustment{
					Field: field, Reason: core.AdjustPhoneFormat, Old: raw, New: check.Normalized,
				})
			}
			kept = append(kept, check.Normalized)
		}
		res.Draft.Phones = kept
	}

	res.Valid = len(res.Errors) == 0
	return res
}
