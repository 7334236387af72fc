package student

import "testing"

func Test_ParseNotes(t *testing.T) {
	tests := []struct {
		name     string
		blob     string
		wantDoc  string
		wantAddr Address
	}{
		{name: "empty", blob: ""},
		{name: "whitespace only", blob: "  \n\t "},
		{name: "plain free text", blob: "alergico a amendoim"},
		{
			name:    "json cpf",
			blob:    `{"cpf": "123.456.789-00"}`,
			wantDoc: "12345678900",
		},
		{
			name:    "json document key",
			blob:    `{"document": "12345678900"}`,
			wantDoc: "12345678900",
		},
		{
			name: "json address",
			blob: `{"address": {"street": " Rua A ", "number": "10", "city": "São Paulo", "zip": "01000-000"}}`,
			wantAddr: Address{
				Street: "Rua A", Number: "10", City: "São Paulo", Zip: "01000-000",
			},
		},
		{
			name: "legacy endereco key",
			blob: `{"endereco": {"street": "Rua B", "number": "22", "city": "Campinas"}}`,
			wantAddr: Address{
				Street: "Rua B", Number: "22", City: "Campinas",
			},
		},
		{
			name:    "cpf line in free text",
			blob:    "pai trabalha fora\nCPF: 123.456.789-00\nobs: nada",
			wantDoc: "12345678900",
		},
		{
			name: "cpf line with wrong digit count ignored",
			blob: "CPF: 123.456",
		},
		{
			name:    "malformed json falls back to line scan",
			blob:    "{\"oops\ncpf: 123.456.789-00",
			wantDoc: "12345678900",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNotes(tt.blob)
			if got.Document != tt.wantDoc {
				t.Errorf("ParseNotes().Document = %q, want %q", got.Document, tt.wantDoc)
			}
			if got.Address != tt.wantAddr {
				t.Errorf("ParseNotes().Address = %+v, want %+v", got.Address, tt.wantAddr)
			}
		})
	}
}
