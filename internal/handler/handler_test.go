package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"jobpilot-service/internal/dto"
	"jobpilot-service/internal/middleware"
	"jobpilot-service/internal/model"
	"jobpilot-service/internal/repository/memstore"
	"jobpilot-service/internal/service"
	"jobpilot-service/internal/validation"
	"jobpilot-service/pkg/config"
	"jobpilot-service/pkg/jwtutil"
	"jobpilot-service/pkg/storage"

	"github.com/labstack/echo/v4"
)

type fakeUploader struct {
	keys []string
}

func (f *fakeUploader) Upload(_ context.Context, obj storage.Object) (string, error) {
	f.keys = append(f.keys, obj.Key)
	_, _ = io.Copy(io.Discard, obj.Body)
	return "https://bucket.s3.us-east-1.amazonaws.com/" + obj.Key, nil
}

type testServer struct {
	e        *echo.Echo
	store    *memstore.Store
	uploader *fakeUploader
}

// newTestServer mounts the handlers with the caller resolved from the
// X-Test-User header instead of a token.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.New()
	uploader := &fakeUploader{}
	v := validation.New()
	tokens := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-secret", ExpirationHours: 168})

	authH := NewAuthHandler(service.NewAuthService(store.Users(), tokens, v))
	companyH := NewCompanyHandler(service.NewCompanyService(store.Companies(), uploader, v, 2*1024*1024))
	jobH := NewJobHandler(service.NewJobService(store.Jobs(), store.Companies(), v))

	asUser := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, err := strconv.ParseUint(c.Request().Header.Get("X-Test-User"), 10, 64); err == nil {
				c.Set(middleware.UserKey, &model.User{ID: uint(id)})
			}
			return next(c)
		}
	}

	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.POST("/api/auth/register", authH.Register)
	e.POST("/api/auth/login", authH.Login)
	e.POST("/api/company/setup", companyH.Setup, asUser)
	e.GET("/api/company/my-company", companyH.GetMine, asUser)
	e.POST("/api/jobs", jobH.Create, asUser)
	e.GET("/api/jobs/my-jobs", jobH.ListMine, asUser)
	e.GET("/api/jobs/:id", jobH.Get)
	e.PUT("/api/jobs/:id", jobH.Update, asUser)
	e.DELETE("/api/jobs/:id", jobH.Delete, asUser)

	return &testServer{e: e, store: store, uploader: uploader}
}

func (s *testServer) do(method, path, user string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	return s.serve(req)
}

func (s *testServer) serve(req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func (s *testServer) seedCompany(t *testing.T, userID uint) {
	t.Helper()
	err := s.store.Companies().Create(context.Background(), &model.Company{
		UserID: userID, CompanyName: "Acme", OrgType: model.OrgStartup,
		IndustryType: model.IndustryTechnology, TeamSize: model.TeamSmall,
		YearEstablished: "2020", AboutUs: "About", Location: "Lisbon",
		Phone: "123", Email: "jobs@acme.test",
	})
	if err != nil {
		t.Fatalf("seeding company: %v", err)
	}
}

func jobBody(title string) map[string]interface{} {
	return map[string]interface{}{
		"jobTitle":        title,
		"tags":            "react, node  go",
		"jobRole":         "Developer",
		"minSalary":       "$40,000",
		"maxSalary":       60000,
		"salaryType":      "Yearly",
		"educationLevel":  "Graduation",
		"experienceLevel": "1-2 years",
		"jobType":         "Full Time",
		"jobLevel":        "Entry Level",
		"expirationDate":  time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		"country":         "Portugal",
		"state":           "Lisbon",
		"description":     strings.Repeat("Ship features across our hiring platform. ", 3),
	}
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "Jane Employer", "username": "jane", "email": "jane@example.com", "password": "secret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body["token"] == "" || body["user"] == nil {
		t.Fatalf("unexpected register body %v", body)
	}
	user := body["user"].(map[string]interface{})
	if user["name"] != "Jane Employer" || user["username"] != "jane" {
		t.Errorf("user = %v", user)
	}
	if _, ok := user["password"]; ok {
		t.Error("password must never be serialised")
	}

	rec, body = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "Other", "username": "other", "email": "JANE@example.com", "password": "secret1",
	})
	if rec.Code != http.StatusConflict || body["message"] != "Email is already in use." {
		t.Errorf("duplicate register = %d %v", rec.Code, body)
	}

	rec, body = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "JANE", "password": "secret1",
	})
	if rec.Code != http.StatusOK || body["token"] == nil {
		t.Errorf("login = %d %v", rec.Code, body)
	}

	rec, body = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "jane@example.com", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized || body["message"] != "Invalid credentials." {
		t.Errorf("bad login = %d %v", rec.Code, body)
	}
}

func TestRegisterMalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec, body := s.serve(req)
	if rec.Code != http.StatusBadRequest || body["message"] != "All fields are required." {
		t.Errorf("malformed register = %d %v", rec.Code, body)
	}
}

func TestCompanySetupMultipart(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"companyName": "Acme", "orgType": "Private", "industryType": "Finance",
		"teamSize": "51–200", "yearEstablished": "1999", "aboutUs": "Money things",
		"location": "Zurich", "phone": "+41", "email": "hi@acme.test",
	}
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="logo"; filename="acme.png"`)
	h.Set("Content-Type", "image/png")
	part, _ := w.CreatePart(h)
	_, _ = part.Write([]byte("\x89PNG fake"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/company/setup", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set("X-Test-User", "5")
	rec, body := s.serve(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body["message"] != "Company profile saved successfully!" {
		t.Errorf("message = %v", body["message"])
	}
	company := body["company"].(map[string]interface{})
	if company["teamSize"] != "51–200" || company["userId"] != float64(5) {
		t.Errorf("company = %v", company)
	}
	if logo, _ := company["logo"].(string); !strings.HasSuffix(logo, "_acme.png") {
		t.Errorf("logo = %q", logo)
	}
	if len(s.uploader.keys) != 1 {
		t.Errorf("uploads = %d, want 1", len(s.uploader.keys))
	}

	rec, body = s.do(http.MethodGet, "/api/company/my-company", "5", nil)
	if rec.Code != http.StatusOK || body["companyName"] != "Acme" {
		t.Errorf("my-company = %d %v", rec.Code, body)
	}
}

func TestCompanySetupMissingFields(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(http.MethodPost, "/api/company/setup", "5", map[string]string{
		"companyName": "Acme",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	msg, _ := body["message"].(string)
	if !strings.HasPrefix(msg, "All required fields must be provided: ") {
		t.Errorf("message = %q", msg)
	}
	if errs, _ := body["errors"].(map[string]interface{}); errs["orgType"] == nil {
		t.Errorf("errors = %v", body["errors"])
	}

	rec, body = s.do(http.MethodGet, "/api/company/my-company", "5", nil)
	if rec.Code != http.StatusNotFound || body["message"] != "Company profile not found." {
		t.Errorf("my-company = %d %v", rec.Code, body)
	}
}

func TestJobLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.seedCompany(t, 1)
	s.seedCompany(t, 2)

	rec, created := s.do(http.MethodPost, "/api/jobs", "1", jobBody("Frontend Developer"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	tags, _ := created["tags"].([]interface{})
	if len(tags) != 3 || tags[0] != "react" || tags[2] != "go" {
		t.Errorf("tags = %v", created["tags"])
	}
	if created["minSalary"] != float64(40000) || created["timeStatus"] != "Expiring Tomorrow" {
		t.Errorf("minSalary/timeStatus = %v/%v", created["minSalary"], created["timeStatus"])
	}
	if created["applicants"] != float64(10) || created["status"] != "Active" {
		t.Errorf("defaults = %v/%v", created["applicants"], created["status"])
	}
	id := int(created["id"].(float64))
	path := "/api/jobs/" + strconv.Itoa(id)

	rec, detail := s.do(http.MethodGet, path, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	company, _ := detail["company"].(map[string]interface{})
	if company["companyName"] != "Acme" || company["email"] != "jobs@acme.test" {
		t.Errorf("detail company = %v", company)
	}

	rec, body := s.do(http.MethodPut, path, "2", map[string]interface{}{"jobTitle": "Taken over"})
	if rec.Code != http.StatusUnauthorized || body["message"] != "User not authorized to update this job." {
		t.Errorf("foreign update = %d %v", rec.Code, body)
	}

	rec, body = s.do(http.MethodPut, path, "1", map[string]interface{}{"isRemote": true, "tags": []string{" rust ", ""}})
	if rec.Code != http.StatusOK || body["isRemote"] != true || body["jobTitle"] != "Frontend Developer" {
		t.Errorf("update = %d %v", rec.Code, body)
	}
	if tags, _ := body["tags"].([]interface{}); len(tags) != 1 || tags[0] != "rust" {
		t.Errorf("updated tags = %v", body["tags"])
	}

	rec, list := s.do(http.MethodGet, "/api/jobs/my-jobs?isRemote=true&search=FRONT", "1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	jobs, _ := list["jobs"].([]interface{})
	pagination, _ := list["pagination"].(map[string]interface{})
	if len(jobs) != 1 || pagination["totalJobs"] != float64(1) || pagination["limit"] != float64(10) {
		t.Errorf("list = %v", list)
	}

	rec, body = s.do(http.MethodDelete, path, "2", nil)
	if rec.Code != http.StatusUnauthorized || body["message"] != "User not authorized to delete this job." {
		t.Errorf("foreign delete = %d %v", rec.Code, body)
	}
	rec, body = s.do(http.MethodDelete, path, "1", nil)
	if rec.Code != http.StatusOK || body["message"] != "Job deleted successfully." {
		t.Errorf("delete = %d %v", rec.Code, body)
	}
	rec, _ = s.do(http.MethodGet, path, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestCreateJobWithoutCompany(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(http.MethodPost, "/api/jobs", "1", jobBody("Frontend Developer"))
	if rec.Code != http.StatusBadRequest || body["message"] != "Please complete your account setup before posting a job." {
		t.Errorf("create = %d %v", rec.Code, body)
	}
}

func TestCreateJobValidationErrors(t *testing.T) {
	s := newTestServer(t)
	s.seedCompany(t, 1)

	req := jobBody("Dev")
	req["jobType"] = "Gig"
	rec, body := s.do(http.MethodPost, "/api/jobs", "1", req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["message"] != "Job validation failed: jobTitle, jobType" {
		t.Errorf("message = %v", body["message"])
	}
	errs, _ := body["errors"].(map[string]interface{})
	if errs["jobTitle"] == nil || errs["jobType"] == nil {
		t.Errorf("errors = %v", body["errors"])
	}
}

func TestJobIDNotNumeric(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/jobs/abc", "/api/jobs/0", "/api/jobs/-1"} {
		rec, body := s.do(http.MethodGet, path, "", nil)
		if rec.Code != http.StatusNotFound || body["message"] != "Job not found." {
			t.Errorf("GET %s = %d %v", path, rec.Code, body)
		}
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(http.MethodGet, "/nope", "", nil)
	if rec.Code != http.StatusNotFound || body["message"] != "Not Found" {
		t.Errorf("unknown route = %d %v", rec.Code, body)
	}

	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.GET("/boom", func(c echo.Context) error { return errors.New("kaboom") })
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	var out dto.MessageResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if rec.Code != http.StatusInternalServerError || out.Message != "Internal Server Error" {
		t.Errorf("plain error = %d %+v", rec.Code, out)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		pinger Pinger
		want   int
	}{
		{"healthy", pingFunc(func(context.Context) error { return nil }), http.StatusOK},
		{"database down", pingFunc(func(context.Context) error { return errors.New("down") }), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.pinger, "jobpilot-service")
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

			if err := h.HealthCheck(c); err != nil {
				t.Fatalf("HealthCheck returned error: %v", err)
			}
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
