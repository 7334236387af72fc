package student

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/projectklase/comunika/core"
)

// ParsedNotes is what can be opportunistically recovered from a student's
// notes blob. Absent fields stay zero; parsing never errors.
type ParsedNotes struct {
	Document string
	Address  Address
}

type notesBlob struct {
	CPF      string    `json:"cpf"`
	Document string    `json:"document"`
	Address  *noteAddr `json:"address"`
	Endereco *noteAddr `json:"endereco"` // legacy rows imported from the old system
}

type noteAddr struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
}

// cpfLineRegex recovers "cpf: 123.456.789-00" style lines from free-text rows
// that predate the JSON notes format.
var cpfLineRegex = regexp.MustCompile(`(?i)\bcpf\b[:\s]*([\d][\d.\-/ ]{9,17})`)

// ParseNotes best-effort parses a semi-structured notes blob.
// Malformed or absent blobs yield an all-absent result.
func ParseNotes(blob string) ParsedNotes {
	var parsed ParsedNotes
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return parsed
	}

	var data notesBlob
	if err := json.Unmarshal([]byte(blob), &data); err == nil {
		doc := data.CPF
		if doc == "" {
			doc = data.Document
		}
		parsed.Document = core.DigitsOnly(doc)

		addr := data.Address
		if addr == nil {
			addr = data.Endereco
		}
		if addr != nil {
			parsed.Address = Address{
				Street:   core.CleanString(addr.Street),
				Number:   core.CleanString(addr.Number),
				District: core.CleanString(addr.District),
				City:     core.CleanString(addr.City),
				State:    core.CleanString(addr.State),
				Zip:      core.CleanString(addr.Zip),
			}
		}
		return parsed
	}

	// not JSON; scan for a cpf line
	if m := cpfLineRegex.FindStringSubmatch(blob); m != nil {
		if digits := core.DigitsOnly(m[1]); len(digits) == 11 {
			parsed.Document = digits
		}
	}
	return parsed
}
