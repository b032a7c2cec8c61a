package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/garnizeh/jobtracker/api"
	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/garnizeh/jobtracker/pkg/repository/mock"
)

func validBody() map[string]any {
	return map[string]any{
		"companyName": "Acme",
		"jobTitle":    "Engineer",
		"status":      "Applied",
		"date":        "2024-01-15",
	}
}

func withField(k string, v any) map[string]any {
	b := validBody()
	b[k] = v
	return b
}

func withoutField(k string) map[string]any {
	b := validBody()
	delete(b, k)
	return b
}

func seeded(m *mock.ApplicationRepo) {
	m.Stored[1] = models.JobApplication{
		ID: 1, CompanyName: "Acme", JobTitle: "Engineer", Status: "Applied",
		Date: models.NewDate(2024, 1, 15), JobLink: "https://acme.example", Notes: "keep",
	}
}

type errBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field"`
}

func expectKind(kind, field string) func(t *testing.T, b []byte) {
	return func(t *testing.T, b []byte) {
		t.Helper()
		var e errBody
		if err := json.Unmarshal(b, &e); err != nil {
			t.Fatalf("decode error body %s: %v", b, err)
		}
		if e.Kind != kind || e.Field != field || e.Error == "" {
			t.Fatalf("expected kind=%s field=%s got %+v", kind, field, e)
		}
	}
}

func expectInvalidBody(t *testing.T, b []byte) {
	t.Helper()
	var e errBody
	if err := json.Unmarshal(b, &e); err != nil {
		t.Fatalf("decode error body %s: %v", b, err)
	}
	if e.Kind != api.KindInvalidBody {
		t.Fatalf("expected invalid_body got %+v", e)
	}
}

func TestApplicationsHandler(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		path        string
		body        any
		prepare     func(m *mock.ApplicationRepo)
		wantStatus  int
		wantCommits int
		checkBody   func(t *testing.T, body []byte)
	}{
		{
			name:        "Create_Valid",
			method:      http.MethodPost,
			path:        "/applications",
			body:        validBody(),
			wantStatus:  http.StatusCreated,
			wantCommits: 1,
			checkBody: func(t *testing.T, b []byte) {
				var a models.JobApplication
				if err := json.Unmarshal(b, &a); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if a.ID != 1 || a.JobLink != "" || a.Notes != "" || a.Date.String() != "2024-01-15" {
					t.Fatalf("unexpected created record %+v", a)
				}
			},
		},
		{
			name:       "Create_MissingCompanyName",
			method:     http.MethodPost,
			path:       "/applications",
			body:       withoutField("companyName"),
			wantStatus: http.StatusBadRequest,
			checkBody:  expectKind(api.KindMissingField, "companyName"),
		},
		{
			name:       "Create_MissingDate",
			method:     http.MethodPost,
			path:       "/applications",
			body:       withoutField("date"),
			wantStatus: http.StatusBadRequest,
			checkBody:  expectKind(api.KindMissingField, "date"),
		},
		{
			name:       "Create_NullStatus",
			method:     http.MethodPost,
			path:       "/applications",
			body:       withField("status", nil),
			wantStatus: http.StatusBadRequest,
			checkBody:  expectKind(api.KindMissingField, "status"),
		},
		{
			name:        "Create_EmptyStatus",
			method:      http.MethodPost,
			path:        "/applications",
			body:        withField("status", ""),
			wantStatus:  http.StatusCreated,
			wantCommits: 1,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte(`"status":""`)) {
					t.Fatalf("expected empty status to be stored, got %s", b)
				}
			},
		},
		{
			name:       "Create_EmptyDate",
			method:     http.MethodPost,
			path:       "/applications",
			body:       withField("date", ""),
			wantStatus: http.StatusBadRequest,
			checkBody:  expectKind(api.KindMalformedDate, "date"),
		},
		{
			name:       "Create_EmptyJobTitle",
			method:     http.MethodPost,
			path:       "/applications",
			body:       withField("jobTitle", ""),
			wantStatus: http.StatusBadRequest,
			checkBody:  expectKind(api.KindMissingField, "jobTitle"),
		},
		{
			name:       "Create_MalformedDate",
			method:     http.MethodPost,
			path:       "/applications",
			body:       withField("date", "15/01/2024"),
			wantStatus: http.StatusBadRequest,
			checkBody:  expectKind(api.KindMalformedDate, "date"),
		},
		{
			name:       "Create_ImpossibleDate",
			method:     http.MethodPost,
			path:       "/applications",
			body:       withField("date", "2024-02-30"),
			wantStatus: http.StatusBadRequest,
			checkBody:  expectKind(api.KindMalformedDate, "date"),
		},
		{
			name:        "Create_DateTimeTruncated",
			method:      http.MethodPost,
			path:        "/applications",
			body:        withField("date", "2024-01-15T23:59:00"),
			wantStatus:  http.StatusCreated,
			wantCommits: 1,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte(`"date":"2024-01-15"`)) {
					t.Fatalf("expected truncated date, got %s", b)
				}
			},
		},
		{
			name:       "Create_StatusTooLong",
			method:     http.MethodPost,
			path:       "/applications",
			body:       withField("status", strings.Repeat("x", 51)),
			wantStatus: http.StatusBadRequest,
			checkBody:  expectKind(api.KindTooLong, "status"),
		},
		{
			name:       "Create_JobLinkTooLong",
			method:     http.MethodPost,
			path:       "/applications",
			body:       withField("jobLink", "https://"+strings.Repeat("a", 200)),
			wantStatus: http.StatusBadRequest,
			checkBody:  expectKind(api.KindTooLong, "jobLink"),
		},
		{
			name:        "Create_MultibyteAtLimit",
			method:      http.MethodPost,
			path:        "/applications",
			body:        withField("companyName", strings.Repeat("é", 100)),
			wantStatus:  http.StatusCreated,
			wantCommits: 1,
		},
		{
			name:       "Create_UnknownProperty",
			method:     http.MethodPost,
			path:       "/applications",
			body:       withField("salary", "lots"),
			wantStatus: http.StatusBadRequest,
			checkBody:  expectInvalidBody,
		},
		{
			name:       "Create_WrongType",
			method:     http.MethodPost,
			path:       "/applications",
			body:       withField("companyName", 42),
			wantStatus: http.StatusBadRequest,
			checkBody:  expectInvalidBody,
		},
		{
			name:       "Create_NotJSON",
			method:     http.MethodPost,
			path:       "/applications",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
			checkBody:  expectKind(api.KindInvalidBody, ""),
		},
		{
			name:       "Create_Array",
			method:     http.MethodPost,
			path:       "/applications",
			body:       []any{validBody()},
			wantStatus: http.StatusBadRequest,
			checkBody:  expectInvalidBody,
		},
		{
			name:        "Create_ClientIDIgnored",
			method:      http.MethodPost,
			path:        "/applications",
			body:        withField("id", 99),
			wantStatus:  http.StatusCreated,
			wantCommits: 1,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte(`"id":1`)) {
					t.Fatalf("expected store-assigned id, got %s", b)
				}
			},
		},
		{
			name:        "Create_NullOptionals",
			method:      http.MethodPost,
			path:        "/applications",
			body:        withField("notes", nil),
			wantStatus:  http.StatusCreated,
			wantCommits: 1,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte(`"notes":""`)) {
					t.Fatalf("expected empty notes, got %s", b)
				}
			},
		},
		{
			name:        "Update_ResetsOmittedOptionals",
			method:      http.MethodPut,
			path:        "/applications/1",
			body:        withField("status", "Interview"),
			prepare:     seeded,
			wantStatus:  http.StatusOK,
			wantCommits: 1,
			checkBody: func(t *testing.T, b []byte) {
				var a models.JobApplication
				if err := json.Unmarshal(b, &a); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if a.ID != 1 || a.Status != "Interview" || a.JobLink != "" || a.Notes != "" {
					t.Fatalf("expected wholesale replace, got %+v", a)
				}
			},
		},
		{
			name:       "Update_UnknownID",
			method:     http.MethodPut,
			path:       "/applications/2",
			body:       validBody(),
			prepare:    seeded,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Update_UnknownIDNamed",
			method:     http.MethodPut,
			path:       "/applications/42",
			body:       validBody(),
			wantStatus: http.StatusNotFound,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte(`"error":"application 42 not found"`)) {
					t.Fatalf("unexpected body %s", b)
				}
			},
		},
		{
			name:       "Update_UnknownIDBeatsBadBody",
			method:     http.MethodPut,
			path:       "/applications/2",
			body:       withoutField("companyName"),
			prepare:    seeded,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Update_MissingField",
			method:     http.MethodPut,
			path:       "/applications/1",
			body:       withoutField("jobTitle"),
			prepare:    seeded,
			wantStatus: http.StatusBadRequest,
			checkBody:  expectKind(api.KindMissingField, "jobTitle"),
		},
		{
			name:       "Update_OverflowID",
			method:     http.MethodPut,
			path:       "/applications/99999999999999999999",
			body:       validBody(),
			wantStatus: http.StatusNotFound,
		},
		{
			name:        "Delete_Existing",
			method:      http.MethodDelete,
			path:        "/applications/1",
			prepare:     seeded,
			wantStatus:  http.StatusNoContent,
			wantCommits: 1,
			checkBody: func(t *testing.T, b []byte) {
				if len(b) != 0 {
					t.Fatalf("expected empty body, got %s", b)
				}
			},
		},
		{
			name:       "Delete_Unknown",
			method:     http.MethodDelete,
			path:       "/applications/7",
			wantStatus: http.StatusNotFound,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte(`"error":"application 7 not found"`)) {
					t.Fatalf("unexpected body %s", b)
				}
			},
		},
		{
			name:       "Delete_NonNumeric",
			method:     http.MethodDelete,
			path:       "/applications/abc",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "List_Empty",
			method:     http.MethodGet,
			path:       "/applications",
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				if strings.TrimSpace(string(b)) != "[]" {
					t.Fatalf("expected [] got %s", b)
				}
			},
		},
		{
			name:       "StatusCounts_Empty",
			method:     http.MethodGet,
			path:       "/applications/status_counts",
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				if strings.TrimSpace(string(b)) != "{}" {
					t.Fatalf("expected {} got %s", b)
				}
			},
		},
		{
			name:       "List_StorageFailure",
			method:     http.MethodGet,
			path:       "/applications",
			prepare:    func(m *mock.ApplicationRepo) { m.Err = errors.New("database is locked") },
			wantStatus: http.StatusInternalServerError,
			checkBody: func(t *testing.T, b []byte) {
				if strings.Contains(string(b), "locked") {
					t.Fatalf("storage detail leaked to client: %s", b)
				}
			},
		},
		{
			name:       "Create_StorageFailure",
			method:     http.MethodPost,
			path:       "/applications",
			body:       validBody(),
			prepare:    func(m *mock.ApplicationRepo) { m.Err = errors.New("disk full") },
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "StatusCounts_StorageFailure",
			method:     http.MethodGet,
			path:       "/applications/status_counts",
			prepare:    func(m *mock.ApplicationRepo) { m.Err = errors.New("disk full") },
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewApplicationRepo()
			if tt.prepare != nil {
				tt.prepare(repo)
			}
			before := repo.Stored[1]

			r := mux.NewRouter()
			api.RegisterApplicationRoutes(r, api.NewApplicationsHandler(repo))

			var bodyReader io.Reader
			switch b := tt.body.(type) {
			case nil:
			case string:
				bodyReader = strings.NewReader(b)
			default:
				data, _ := json.Marshal(b)
				bodyReader = bytes.NewReader(data)
			}
			req := httptest.NewRequest(tt.method, tt.path, bodyReader)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()
			data, _ := io.ReadAll(res.Body)
			if res.StatusCode != tt.wantStatus {
				t.Fatalf("%s: expected status %d got %d body=%s", tt.name, tt.wantStatus, res.StatusCode, string(data))
			}
			if repo.Commits != tt.wantCommits {
				t.Fatalf("%s: expected %d commits got %d", tt.name, tt.wantCommits, repo.Commits)
			}
			if tt.wantCommits == 0 && repo.Stored[1] != before {
				t.Fatalf("%s: record mutated without a commit", tt.name)
			}
			if tt.checkBody != nil {
				tt.checkBody(t, data)
			}
		})
	}
}
