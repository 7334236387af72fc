package class

import "github.com/projectklase/comunika/core"

const (
	nameMaxLen = 120
	codeMaxLen = 20
)

type (
	Draft struct {
		ID       string `json:"id,omitempty"`
		SchoolID string `json:"school_id"`
		Name     string `json:"name"`
		Code     string `json:"code,omitempty"`
	}

	ValidationResult struct {
		Valid       bool              `json:"is_valid"`
		Class       Class             `json:"data"`
		Errors      []core.FieldError `json:"errors"`
		Adjustments []core.Adjustment `json:"adjustments"`
	}
)

// ValidateDraft sanitizes and structurally validates a class draft.
func ValidateDraft(d Draft) ValidationResult {
	res := ValidationResult{Class: Class{ID: d.ID, SchoolID: d.SchoolID}}

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
	res.Class.Name = name

	if d.Code != "" {
		code := core.SanitizeText(d.Code, codeMaxLen)
		if code != d.Code {
			reason := core.AdjustTrimmed
			if len([]rune(code)) == codeMaxLen {
				reason = core.AdjustTruncated
			}
			res.Adjustments = append(res.Adjustments, core.Adjustment{
				Field: "code", Reason: reason, Old: d.Code, New: code,
			})
		}
		res.Class.Code = code
	}

	res.Valid = len(res.Errors) == 0
	return res
}
