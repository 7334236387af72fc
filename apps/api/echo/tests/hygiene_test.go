package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/projectklase/comunika/core/hygiene"
	"github.com/projectklase/comunika/core/student"
)

func Test_hygieneApi(t *testing.T) {
	memberToken := getToken(t, createStaff(t, "estagiario", "s3cret", false))
	adminToken := getToken(t, createStaff(t, "diretoria", "s3cret", true))

	// something for the pass to fix
	if _, err := studentRepo.CreateStudent(context.Background(), student.Student{
		SchoolID: schoolID,
		Name:     "  Carlos Prado  ",
		Phones:   []string{"(11) 91234-5678"},
	}); err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}

	t.Run("missing token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/admin/hygiene")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, errMissingToken),
		}, rec)
	})

	t.Run("staff member is forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/admin/hygiene", memberToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		}, rec)
	})

	var report hygiene.Report
	t.Run("admin runs the pass", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/admin/hygiene", adminToken)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v, body %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("unmarshalling Report: %v", err)
		}
		if report.Failed() {
			t.Fatalf("run = %+v, want success", report)
		}
		if report.TitlesTrimmed == 0 || report.PhonesFixed == 0 {
			t.Errorf("run = %+v, want the seeded record fixed", report)
		}
	})

	t.Run("latest returns the stored report", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/admin/hygiene/latest", adminToken)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v, body %s", rec.Code, rec.Body.String())
		}
		var latest hygiene.Report
		if err := json.Unmarshal(rec.Body.Bytes(), &latest); err != nil {
			t.Fatalf("unmarshalling Report: %v", err)
		}
		if latest.ID != report.ID {
			t.Errorf("latest ID = %s, want %s", latest.ID, report.ID)
		}
	})
}
