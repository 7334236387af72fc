package core

import "testing"

func Test_NormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "digits kept", in: "1187654321", want: "1187654321"},
		{name: "punctuation dropped", in: "(11) 8765-4321", want: "1187654321"},
		{name: "country code stripped", in: "+55 11 98765-4321", want: "11987654321"},
		{name: "country code on landline", in: "551187654321", want: "1187654321"},
		{name: "trunk zero stripped", in: "011 98765-4321", want: "11987654321"},
		{name: "country code then trunk zero", in: "+55 011 98765-4321", want: "11987654321"},
		{name: "short number untouched", in: "5511", want: "5511"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.in); got != tt.want {
				t.Errorf("NormalizePhone() = %q, want %q", got, tt.want)
			}
		})
	}
}

func Test_ValidatePhone(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantNorm    string
		wantValid   bool
		wantChanged bool
	}{
		{name: "empty", in: "", wantNorm: "", wantValid: false, wantChanged: false},
		{name: "valid landline", in: "1187654321", wantNorm: "1187654321", wantValid: true, wantChanged: false},
		{name: "valid mobile", in: "11987654321", wantNorm: "11987654321", wantValid: true, wantChanged: false},
		{name: "formatted mobile", in: "(11) 98765-4321", wantNorm: "11987654321", wantValid: true, wantChanged: true},
		{name: "international form", in: "+5511987654321", wantNorm: "11987654321", wantValid: true, wantChanged: true},
		{name: "mobile without nine prefix", in: "11887654321", wantNorm: "11887654321", wantValid: false, wantChanged: false},
		{name: "ddd with zero", in: "0187654321", wantNorm: "0187654321", wantValid: false, wantChanged: false},
		{name: "too short", in: "876543", wantNorm: "876543", wantValid: false, wantChanged: false},
		{name: "too long", in: "119876543210000", wantNorm: "119876543210000", wantValid: false, wantChanged: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePhone(tt.in)
			if got.Normalized != tt.wantNorm {
				t.Errorf("ValidatePhone().Normalized = %q, want %q", got.Normalized, tt.wantNorm)
			}
			if got.Valid != tt.wantValid {
				t.Errorf("ValidatePhone().Valid = %v, want %v", got.Valid, tt.wantValid)
			}
			if got.Changed != tt.wantChanged {
				t.Errorf("ValidatePhone().Changed = %v, want %v", got.Changed, tt.wantChanged)
			}
		})
	}
}

func Test_ValidatePhone_idempotent(t *testing.T) {
	first := ValidatePhone("+55 (11) 98765-4321")
	if !first.Valid || !first.Changed {
		t.Fatalf("ValidatePhone() first pass = %+v", first)
	}
	second := ValidatePhone(first.Normalized)
	if !second.Valid || second.Changed || second.Normalized != first.Normalized {
		t.Errorf("ValidatePhone() second pass = %+v, want unchanged %q", second, first.Normalized)
	}
}
