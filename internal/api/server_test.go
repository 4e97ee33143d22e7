package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/api"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/dto"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/helper"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/services"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/testsupport"
	"gorm.io/gorm"
)

type testServer struct {
	app     *fiber.App
	db      *gorm.DB
	auth    helper.Auth
	admin   *domain.User
	program *domain.Program
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, db := testsupport.NewStore(t)
	auth := helper.SetupAuth("test-secret")
	deps := api.NewDeps(store, auth, nil, testsupport.Logger(), services.ReviewOptions{Now: testsupport.Now})

	return &testServer{
		app:     api.NewApp(deps),
		db:      db,
		auth:    auth,
		admin:   testsupport.CreateAdmin(t, db),
		program: testsupport.CreateProgram(t, db, "WEB-101", "Web Development", domain.ProgramTypeOnline, 150000),
	}
}

func (s *testServer) token(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := s.auth.GenerateToken(user.ID, user.Email, nil)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/api/admin/applications", "", "")
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, body %s", status, body)
	}
	status, _ = s.do(t, http.MethodGet, "/api/admin/applications", "garbage", "")
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d for invalid token", status)
	}
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	s := newTestServer(t)
	student := testsupport.CreateUser(t, s.db, "student@academy.test", "S", "T", domain.UserStatusActive, domain.RoleStudent)
	_, app := applicant(t, s)

	status, body := s.do(t, http.MethodPost, "/api/admin/applications/"+itoa(app.ID)+"/review", s.token(t, student), `{"status":"approved"}`)
	if status != http.StatusForbidden {
		t.Fatalf("status = %d, body %s", status, body)
	}

	var reloaded domain.Application
	s.db.First(&reloaded, app.ID)
	if reloaded.Status != domain.ApplicationPending {
		t.Fatalf("non-admin changed status to %s", reloaded.Status)
	}
}

func TestReviewEndpointApproves(t *testing.T) {
	s := newTestServer(t)
	testsupport.CreateBatch(t, s.db, s.program.ID, "Web Dev April", "WEB-APR", testsupport.Days(21), domain.ClassScheduled)
	user, app := applicant(t, s)

	status, body := s.do(t, http.MethodPost, "/api/admin/applications/"+itoa(app.ID)+"/review", s.token(t, s.admin),
		`{"status":"approved","notes":"Great portfolio"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %s", status, body)
	}

	var resp struct {
		Data services.ReviewResult `json:"data"`
	}
	if err := sonic.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Status != domain.ApplicationApproved || resp.Data.ReviewedBy != s.admin.ID {
		t.Fatalf("unexpected result: %+v", resp.Data)
	}
	if resp.Data.Enrollment == nil || resp.Data.Enrollment.Kind != services.EnrollmentCreated {
		t.Fatalf("expected enrollment, got %+v", resp.Data.Enrollment)
	}
	if resp.Data.EmailSent {
		t.Fatal("email disabled, EmailSent must be false")
	}

	// the applicant now sees the decision in their inbox
	status, body = s.do(t, http.MethodGet, "/api/notifications?unread=true", s.token(t, user), "")
	if status != http.StatusOK {
		t.Fatalf("inbox status = %d, body %s", status, body)
	}
	var inbox struct {
		Data []dto.NotificationResponse `json:"data"`
	}
	if err := sonic.Unmarshal(body, &inbox); err != nil {
		t.Fatalf("decode inbox: %v", err)
	}
	if len(inbox.Data) != 1 || inbox.Data[0].Title != "Application Approved" {
		t.Fatalf("unexpected inbox: %+v", inbox.Data)
	}

	status, _ = s.do(t, http.MethodPatch, "/api/notifications/"+itoa(inbox.Data[0].ID)+"/read", s.token(t, s.admin), "")
	if status != http.StatusNotFound {
		t.Fatalf("marking someone else's notification: status = %d", status)
	}
	status, _ = s.do(t, http.MethodPatch, "/api/notifications/"+itoa(inbox.Data[0].ID)+"/read", s.token(t, user), "")
	if status != http.StatusOK {
		t.Fatalf("mark read status = %d", status)
	}
}

func TestReviewEndpointErrors(t *testing.T) {
	s := newTestServer(t)
	_, app := applicant(t, s)
	token := s.token(t, s.admin)
	path := "/api/admin/applications/" + itoa(app.ID) + "/review"

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"invalid status", path, `{"status":"archived"}`, http.StatusBadRequest},
		{"missing status", path, `{"notes":"hi"}`, http.StatusBadRequest},
		{"malformed body", path, `{"status":`, http.StatusBadRequest},
		{"bad id", "/api/admin/applications/abc/review", `{"status":"approved"}`, http.StatusBadRequest},
		{"unknown application", "/api/admin/applications/9999/review", `{"status":"approved"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := s.do(t, http.MethodPost, tc.path, token, tc.body)
			if status != tc.want {
				t.Fatalf("status = %d, want %d, body %s", status, tc.want, body)
			}
		})
	}
}

func TestListAndDetailEndpoints(t *testing.T) {
	s := newTestServer(t)
	_, app := applicant(t, s)
	token := s.token(t, s.admin)

	status, body := s.do(t, http.MethodGet, "/api/admin/applications?status=pending&per_page=5", token, "")
	if status != http.StatusOK {
		t.Fatalf("list status = %d, body %s", status, body)
	}
	var list struct {
		Data dto.ApplicationListResponse `json:"data"`
	}
	if err := sonic.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Data.Items) != 1 || list.Data.Pagination.PerPage != 5 {
		t.Fatalf("unexpected list: %+v", list.Data)
	}

	status, _ = s.do(t, http.MethodGet, "/api/admin/applications?applying_as=janitor", token, "")
	if status != http.StatusBadRequest {
		t.Fatalf("bad filter status = %d", status)
	}

	status, body = s.do(t, http.MethodGet, "/api/admin/applications/"+itoa(app.ID), token, "")
	if status != http.StatusOK || !strings.Contains(string(body), `"applying_as":"student"`) {
		t.Fatalf("detail status = %d, body %s", status, body)
	}
	status, _ = s.do(t, http.MethodGet, "/api/admin/applications/9999", token, "")
	if status != http.StatusNotFound {
		t.Fatalf("missing detail status = %d", status)
	}

	status, body = s.do(t, http.MethodGet, "/api/admin/applications/stats", token, "")
	if status != http.StatusOK || !strings.Contains(string(body), `"pending":1`) {
		t.Fatalf("stats status = %d, body %s", status, body)
	}
}

func TestLoginEndpointSetsCookie(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@academy.test","password":"`+testsupport.Password+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "access_token" {
			session = c
		}
	}
	if session == nil || !session.HttpOnly || session.Value == "" {
		t.Fatalf("expected httpOnly access_token cookie, got %+v", resp.Cookies())
	}

	status, _ := s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"admin@academy.test","password":"wrong-password"}`)
	if status != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", status)
	}
	status, _ = s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"not-an-email","password":"x"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("invalid email status = %d", status)
	}
}

func TestMeEndpoint(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/api/auth/me", s.token(t, s.admin), "")
	if status != http.StatusOK || !strings.Contains(string(body), `"ADMIN"`) {
		t.Fatalf("me status = %d, body %s", status, body)
	}
}

func applicant(t *testing.T, s *testServer) (*domain.User, *domain.Application) {
	t.Helper()
	user := testsupport.CreateUser(t, s.db, "chidi@academy.test", "Chidi", "Eze", domain.UserStatusPending, domain.RoleApplicant)
	app := testsupport.CreateApplication(t, s.db, user.ID, domain.ApplyingAsStudent, &s.program.ID, domain.ApplicationPending)
	return user, app
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
