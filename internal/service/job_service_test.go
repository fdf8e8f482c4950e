package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"jobpilot-service/internal/apperror"
	"jobpilot-service/internal/dto"
	"jobpilot-service/internal/jobquery"
	"jobpilot-service/internal/model"
	"jobpilot-service/internal/repository/memstore"
	"jobpilot-service/internal/validation"
)

func ptr[T any](v T) *T {
	return &v
}

func validJobRequest(title string) *dto.JobRequest {
	tags := dto.SplitTags("react, node  go")
	return &dto.JobRequest{
		JobTitle:        ptr(title),
		Tags:            &tags,
		JobRole:         ptr(model.RoleDeveloper),
		MinSalary:       ptr(dto.Salary(50000)),
		MaxSalary:       ptr(dto.ParseSalary("$80,000")),
		SalaryType:      ptr(model.SalaryYearly),
		EducationLevel:  ptr(model.EducationGraduation),
		ExperienceLevel: ptr(model.ExperienceTwoToFive),
		JobType:         ptr(model.JobFullTime),
		JobLevel:        ptr(model.LevelMid),
		ExpirationDate:  ptr(time.Now().AddDate(0, 0, 5).Format("2006-01-02")),
		Country:         ptr("Germany"),
		State:           ptr("Berlin"),
		Description:     ptr(strings.Repeat("Build and run the services behind our hiring tools. ", 2)),
	}
}

type jobFixture struct {
	svc   *JobService
	store *memstore.Store
}

func newJobFixture(t *testing.T, employers ...uint) *jobFixture {
	t.Helper()
	store := memstore.New()
	for _, id := range employers {
		company := validCompanyRequest().Company(id)
		if err := store.Companies().Create(context.Background(), company); err != nil {
			t.Fatalf("creating company: %v", err)
		}
	}
	return &jobFixture{
		svc:   NewJobService(store.Jobs(), store.Companies(), validation.New()),
		store: store,
	}
}

func (f *jobFixture) create(t *testing.T, employer uint, title string) *dto.JobResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), employer, validJobRequest(title))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return resp
}

func TestCreateJobDefaults(t *testing.T) {
	f := newJobFixture(t, 1)

	resp := f.create(t, 1, "Backend Engineer")

	if resp.ID == 0 || resp.EmployerID != 1 || resp.CompanyID == 0 {
		t.Errorf("ids not set: %+v", resp.Job)
	}
	if resp.Status != model.StatusActive || resp.Applicants != 10 || resp.Currency != "USD" {
		t.Errorf("defaults = %s/%d/%s", resp.Status, resp.Applicants, resp.Currency)
	}
	if resp.IsRemote || resp.Requirements != "" {
		t.Errorf("isRemote/requirements = %v/%q", resp.IsRemote, resp.Requirements)
	}
	if got := strings.Join(resp.Tags, "|"); got != "react|node|go" {
		t.Errorf("tags = %q", got)
	}
	if resp.MaxSalary != 80000 {
		t.Errorf("MaxSalary = %v, want 80000", resp.MaxSalary)
	}
	if resp.TimeStatus != "Expiring in 5 days" {
		t.Errorf("TimeStatus = %q", resp.TimeStatus)
	}
}

func TestCreateJobWithoutCompany(t *testing.T) {
	f := newJobFixture(t)

	_, err := f.svc.Create(context.Background(), 1, validJobRequest("Backend Engineer"))
	appErr := apperror.As(err, "")
	if appErr.Kind != apperror.KindValidation || appErr.Message != "Please complete your account setup before posting a job." {
		t.Errorf("error = %v, want account setup validation", err)
	}
	if n := f.store.Jobs().Count(); n != 0 {
		t.Errorf("stored jobs = %d, want 0", n)
	}
}

func TestCreateJobValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.JobRequest)
		field  string
	}{
		{"short title", func(r *dto.JobRequest) { r.JobTitle = ptr("Dev") }, "jobTitle"},
		{"missing role", func(r *dto.JobRequest) { r.JobRole = nil }, "jobRole"},
		{"bad enum", func(r *dto.JobRequest) { r.JobType = ptr(model.JobType("Freelance")) }, "jobType"},
		{"short description", func(r *dto.JobRequest) { r.Description = ptr("too short") }, "description"},
		{"missing date", func(r *dto.JobRequest) { r.ExpirationDate = nil }, "expirationDate"},
		{"bad date", func(r *dto.JobRequest) { r.ExpirationDate = ptr("next week") }, "expirationDate"},
		{"bad status", func(r *dto.JobRequest) { r.Status = ptr(model.JobStatus("Archived")) }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newJobFixture(t, 1)
			req := validJobRequest("Backend Engineer")
			tt.mutate(req)

			_, err := f.svc.Create(context.Background(), 1, req)
			appErr := apperror.As(err, "")
			if appErr.Kind != apperror.KindValidation {
				t.Fatalf("error = %v, want validation", err)
			}
			if !strings.HasPrefix(appErr.Message, "Job validation failed: ") {
				t.Errorf("Message = %q", appErr.Message)
			}
			if _, ok := appErr.Fields[tt.field]; !ok {
				t.Errorf("Fields = %v, want %s", appErr.Fields, tt.field)
			}
			if n := f.store.Jobs().Count(); n != 0 {
				t.Errorf("stored jobs = %d, want 0", n)
			}
		})
	}
}

func TestListPagination(t *testing.T) {
	f := newJobFixture(t, 1, 2)
	for i := 0; i < 12; i++ {
		f.create(t, 1, fmt.Sprintf("Engineer %02d", i))
	}
	f.create(t, 2, "Someone else's job")

	page1, err := f.svc.List(context.Background(), jobquery.ListQuery{EmployerID: 1, Page: 1, Limit: 5})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(page1.Jobs) != 5 {
		t.Errorf("page 1 jobs = %d, want 5", len(page1.Jobs))
	}
	want := jobquery.Pagination{TotalJobs: 12, TotalPages: 3, CurrentPage: 1, Limit: 5}
	if page1.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", page1.Pagination, want)
	}
	if page1.Jobs[0].JobTitle != "Engineer 11" {
		t.Errorf("first job = %q, want newest", page1.Jobs[0].JobTitle)
	}
	if page1.Jobs[0].Company == nil || page1.Jobs[0].Company.CompanyName != "Acme" {
		t.Errorf("company brief missing: %+v", page1.Jobs[0].Company)
	}
	if page1.Jobs[0].Company.Phone != "" {
		t.Error("list brief must not carry company contact details")
	}

	page3, err := f.svc.List(context.Background(), jobquery.ListQuery{EmployerID: 1, Page: 3, Limit: 5})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(page3.Jobs) != 2 {
		t.Errorf("page 3 jobs = %d, want 2", len(page3.Jobs))
	}
	for _, j := range page3.Jobs {
		if j.EmployerID != 1 {
			t.Errorf("job %d belongs to employer %d", j.ID, j.EmployerID)
		}
	}
}

func TestGetJobDetail(t *testing.T) {
	f := newJobFixture(t, 1)
	created := f.create(t, 1, "Backend Engineer")

	got, err := f.svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Company == nil || got.Company.Phone != "+49 30 1234" || got.Company.AboutUs == "" {
		t.Errorf("detail company = %+v", got.Company)
	}

	_, err = f.svc.Get(context.Background(), 999)
	if appErr := apperror.As(err, ""); appErr.Kind != apperror.KindNotFound || appErr.Message != "Job not found." {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestUpdateJob(t *testing.T) {
	f := newJobFixture(t, 1)
	created := f.create(t, 1, "Backend Engineer")
	originalExpiry := *created.ExpirationDate

	resp, err := f.svc.Update(context.Background(), 1, created.ID, &dto.JobRequest{
		JobTitle:       ptr("Senior Backend Engineer"),
		IsRemote:       ptr(true),
		ExpirationDate: ptr(""),
		Status:         ptr(model.StatusDraft),
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	stored := f.store.Jobs().Get(created.ID)
	if stored.JobTitle != "Senior Backend Engineer" || !stored.IsRemote || stored.Status != model.StatusDraft {
		t.Errorf("update not applied: %+v", stored)
	}
	if stored.Country != "Germany" || len(stored.Tags) != 3 {
		t.Errorf("absent fields not retained: country %q tags %v", stored.Country, stored.Tags)
	}
	if !stored.ExpirationDate.Equal(originalExpiry) {
		t.Errorf("expiration = %v, want unchanged %v", stored.ExpirationDate, originalExpiry)
	}
	if resp.TimeStatus == "" {
		t.Error("response should carry timeStatus")
	}
}

func TestUpdateJobValidationLeavesJobUnchanged(t *testing.T) {
	f := newJobFixture(t, 1)
	created := f.create(t, 1, "Backend Engineer")

	_, err := f.svc.Update(context.Background(), 1, created.ID, &dto.JobRequest{JobTitle: ptr("x")})
	if !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
	if got := f.store.Jobs().Get(created.ID).JobTitle; got != "Backend Engineer" {
		t.Errorf("JobTitle = %q, want unchanged", got)
	}
}

func TestOwnershipChecks(t *testing.T) {
	f := newJobFixture(t, 1, 2)
	created := f.create(t, 1, "Backend Engineer")

	_, err := f.svc.Update(context.Background(), 2, created.ID, &dto.JobRequest{JobTitle: ptr("Hijacked title")})
	if appErr := apperror.As(err, ""); appErr.Kind != apperror.KindUnauthorized || appErr.Message != "User not authorized to update this job." {
		t.Errorf("update error = %v", err)
	}

	err = f.svc.Delete(context.Background(), 2, created.ID)
	if appErr := apperror.As(err, ""); appErr.Kind != apperror.KindUnauthorized || appErr.Message != "User not authorized to delete this job." {
		t.Errorf("delete error = %v", err)
	}

	stored := f.store.Jobs().Get(created.ID)
	if stored == nil || stored.JobTitle != "Backend Engineer" {
		t.Errorf("job changed by non-owner: %+v", stored)
	}
}

func TestDeleteJob(t *testing.T) {
	f := newJobFixture(t, 1)
	created := f.create(t, 1, "Backend Engineer")

	if err := f.svc.Delete(context.Background(), 1, created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if f.store.Jobs().Get(created.ID) != nil {
		t.Error("job still stored after delete")
	}

	err := f.svc.Delete(context.Background(), 1, created.ID)
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("second delete error = %v, want not found", err)
	}
}
