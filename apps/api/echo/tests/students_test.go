package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/projectklase/comunika/apps/api/echo"
	"github.com/projectklase/comunika/core/student"
)

const schoolID = "4f3a9c1e-2b5d-4e7a-8c6f-1d2e3a4b5c6d"

func Test_home(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("home code = %v, want %v", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "Welcome to Comunika API!" {
		t.Errorf("home body = %q", rec.Body.String())
	}
}

func Test_staffApi_login(t *testing.T) {
	member := createStaff(t, "secretaria", "s3cret", false)

	tests := []httpTest{
		{name: "empty body", body: []byte("{}"), wantCode: http.StatusBadRequest},
		{
			name:     "unknown username",
			body:     marshalObj(t, LoginRequest{Username: "lol", Password: "s3cret"}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "wrong password",
			body:     marshalObj(t, LoginRequest{Username: member.Username, Password: "lol"}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "ok",
			body:     marshalObj(t, LoginRequest{Username: member.Username, Password: "s3cret"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/staff/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.name == "ok" {
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling LoginResponse: %v", err)
				}
				if resp.Token == "" {
					t.Error("login returned an empty token")
				}
			}
		})
	}
}

func Test_studentApi_write(t *testing.T) {
	token := getToken(t, createStaff(t, "coordenacao", "s3cret", false))

	t.Run("missing token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/students")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, errMissingToken),
		}, rec)
	})

	var anaID string
	t.Run("create", func(t *testing.T) {
		body := marshalObj(t, StudentWriteRequest{
			Draft: student.Draft{
				SchoolID:  schoolID,
				Name:      "Ana Clara Lima",
				Email:     "ana.lima@test.br",
				BirthDate: "2014-03-10",
				Phones:    []string{"(11) 98765-4321"},
				Notes:     `{"cpf": "390.533.447-05"}`,
			},
			Enrollment: "2026-001",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/students", token, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("create code = %v, body %s", rec.Code, rec.Body.String())
		}
		var st student.Student
		if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
			t.Fatalf("unmarshalling Student: %v", err)
		}
		if st.ID == "" {
			t.Fatal("created student has no ID")
		}
		if st.Phones[0] != "11987654321" {
			t.Errorf("created phone = %q, want normalized", st.Phones[0])
		}
		anaID = st.ID
	})

	t.Run("invalid draft", func(t *testing.T) {
		body := marshalObj(t, StudentWriteRequest{
			Draft: student.Draft{SchoolID: schoolID, Name: "   "},
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/students", token, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v, body %s", rec.Code, rec.Body.String())
		}
		var res student.ValidationResult
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling ValidationResult: %v", err)
		}
		if res.Valid || len(res.Errors) == 0 {
			t.Errorf("write accepted an invalid draft: %+v", res)
		}
	})

	t.Run("duplicate email blocks", func(t *testing.T) {
		body := marshalObj(t, StudentWriteRequest{
			Draft: student.Draft{
				SchoolID: schoolID,
				Name:     "Outra Pessoa",
				Email:    "ANA.LIMA@test.br",
			},
			Enrollment: "2026-099",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/students", token, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("code = %v, body %s", rec.Code, rec.Body.String())
		}
		var res student.Result
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling Result: %v", err)
		}
		if !res.HasBlocking || res.Blocking[0].Field != "email" {
			t.Errorf("write = %+v, want email blocking issue", res)
		}
	})

	t.Run("similar name needs confirmation", func(t *testing.T) {
		reqBody := StudentWriteRequest{
			Draft: student.Draft{
				SchoolID:  schoolID,
				Name:      "ana clara lima",
				Email:     "homonima@test.br",
				BirthDate: "2014-03-10",
			},
			Enrollment: "2026-002",
		}

		req, rec := newAuthRequest(http.MethodPost, "/v1/students", token, marshalObj(t, reqBody))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Fatalf("code = %v, body %s", rec.Code, rec.Body.String())
		}
		var res student.Result
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling Result: %v", err)
		}
		if res.HasBlocking {
			t.Fatalf("write = %+v, want similarities only", res)
		}
		if !res.HasSimilarities || res.Similarities[0].Type != "name_dob" {
			t.Fatalf("write = %+v, want name_dob similarity", res)
		}

		// explicit confirmation lets it through
		reqBody.ConfirmSimilar = true
		req, rec = newAuthRequest(http.MethodPost, "/v1/students", token, marshalObj(t, reqBody))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Errorf("confirmed write code = %v, body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("update excludes own record", func(t *testing.T) {
		body := marshalObj(t, StudentWriteRequest{
			Draft: student.Draft{
				SchoolID:  schoolID,
				Name:      "Ana Clara Lima",
				Email:     "ana.lima@test.br",
				BirthDate: "2014-03-10",
			},
			Enrollment:     "2026-001",
			ConfirmSimilar: true, // the confirmed homonym still shows up as similar
		})
		req, rec := newAuthRequest(http.MethodPut, "/v1/students/"+anaID, token, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("update code = %v, body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("retrieve unknown is 404", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/nope", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, httpErr{Error: "not found"}),
		}, rec)
	})
}

func Test_studentApi_checkDuplicates(t *testing.T) {
	token := getToken(t, createStaff(t, "atendimento", "s3cret", false))

	cand := student.Candidate{
		SchoolID: schoolID,
		CPF:      "39053344705", // same digits as the stored formatted CPF
		Name:     "Qualquer Nome",
	}
	req, rec := newAuthRequest(http.MethodPost, "/v1/students/check-duplicates", token, marshalObj(t, cand))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v, body %s", rec.Code, rec.Body.String())
	}
	var res student.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling Result: %v", err)
	}
	if !res.HasBlocking || res.Blocking[0].Field != "cpf" {
		t.Errorf("checkDuplicates = %+v, want cpf blocking issue", res)
	}
}

func Test_studentApi_validate(t *testing.T) {
	token := getToken(t, createStaff(t, "revisao", "s3cret", false))

	draft := student.Draft{
		SchoolID: schoolID,
		Name:     "  Beatriz Nunes  ",
		Email:    "Bia.Nunes@Test.BR",
		Phones:   []string{"(21) 99876-1234"},
	}
	req, rec := newAuthRequest(http.MethodPost, "/v1/students/validate", token, marshalObj(t, draft))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v, body %s", rec.Code, rec.Body.String())
	}
	var res student.ValidationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling ValidationResult: %v", err)
	}
	if !res.Valid {
		t.Fatalf("validate = %+v, want valid", res)
	}
	if res.Draft.Name != "Beatriz Nunes" || res.Draft.Email != "bia.nunes@test.br" || res.Draft.Phones[0] != "21998761234" {
		t.Errorf("validate draft = %+v, want sanitized values", res.Draft)
	}
}
