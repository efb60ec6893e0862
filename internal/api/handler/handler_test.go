package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"punchdesk/internal/dto"
	"punchdesk/internal/model"
	"punchdesk/internal/punch"
	"punchdesk/internal/service"
	apperrors "punchdesk/pkg/errors"
	"punchdesk/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	user *model.Employee
	err  error
}

func (m *mockAuthService) CurrentUser(_ context.Context) (*model.Employee, error) {
	return m.user, m.err
}
func (m *mockAuthService) Zone(e *model.Employee) string {
	if e != nil && e.Timezone != "" {
		return e.Timezone
	}
	return "UTC"
}

// ── Mock PunchService ──

type mockPunchService struct {
	status    *dto.PunchStatusResponse
	toggleErr error
	gotZone   string
	gotUID    string
	history   []dto.PunchRecordResponse
}

func (m *mockPunchService) Status(_ context.Context, zone string) (*dto.PunchStatusResponse, error) {
	m.gotZone = zone
	return m.status, nil
}
func (m *mockPunchService) Toggle(_ context.Context, uid, zone string) (*dto.PunchStatusResponse, error) {
	m.gotUID, m.gotZone = uid, zone
	return m.status, m.toggleErr
}
func (m *mockPunchService) History(_ context.Context, _ *dto.PeriodRequest, _ string) ([]dto.PunchRecordResponse, error) {
	return m.history, nil
}
func (m *mockPunchService) DailySummary(_ context.Context, date, _ string) (*dto.DailySummaryResponse, error) {
	return &dto.DailySummaryResponse{Date: date}, nil
}
func (m *mockPunchService) WeeklySummary(_ context.Context, req *dto.PeriodRequest, _ string) (*dto.WeeklySummaryResponse, error) {
	return &dto.WeeklySummaryResponse{StartDate: req.StartDate, EndDate: req.EndDate}, nil
}

// ── Mock ReportService ──

type mockReportService struct {
	resp   *dto.ReportResponse
	err    error
	gotReq *dto.ReportQuery
}

func (m *mockReportService) Daily(_ context.Context, req *dto.ReportQuery) (*dto.ReportResponse, error) {
	m.gotReq = req
	return m.resp, m.err
}
func (m *mockReportService) Weekly(_ context.Context, req *dto.ReportQuery) (*dto.ReportResponse, error) {
	m.gotReq = req
	return m.resp, m.err
}

// ── Mock PunchEditService ──

type mockPunchEditService struct {
	session     *dto.EditSession
	saveResult  *dto.SavePunchEditResponse
	err         error
	gotReq      *dto.SavePunchEditRequest
	gotOperator string
}

func (m *mockPunchEditService) ListPunches(_ context.Context, _ string, _ *dto.PeriodRequest) ([]dto.PunchRecordResponse, error) {
	return nil, m.err
}
func (m *mockPunchEditService) OpenEdit(_ context.Context, _, _ string) (*dto.EditSession, error) {
	return m.session, m.err
}
func (m *mockPunchEditService) SaveEdit(_ context.Context, _, _ string, req *dto.SavePunchEditRequest, operatorUID string) (*dto.SavePunchEditResponse, error) {
	m.gotReq, m.gotOperator = req, operatorUID
	return m.saveResult, m.err
}

// ── Mock UserService ──

type mockUserService struct {
	users     []model.Employee
	assigned  *model.Employee
	roleResp  *dto.RoleChangeResponse
	err       error
	gotGrant  bool
	gotCaller *model.Employee
}

func (m *mockUserService) List(_ context.Context, _ *dto.UserListRequest) ([]model.Employee, error) {
	return m.users, m.err
}
func (m *mockUserService) AssignSchedule(_ context.Context, _ string, _ *dto.AssignScheduleRequest, _ string) (*model.Employee, error) {
	return m.assigned, m.err
}
func (m *mockUserService) SetAdmin(_ context.Context, caller *model.Employee, _ string, grant bool) (*dto.RoleChangeResponse, error) {
	m.gotCaller, m.gotGrant = caller, grant
	return m.roleResp, m.err
}
func (m *mockUserService) ToggleAdmin(_ context.Context, caller *model.Employee, _ string) (*dto.RoleChangeResponse, error) {
	m.gotCaller = caller
	return m.roleResp, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) DailyXLSX(_ context.Context, _ *dto.ReportQuery) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) WeeklyXLSX(_ context.Context, _ *dto.ReportQuery) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) PunchesICS(_ context.Context, _ string, _ *dto.PeriodRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock AuditService ──

type mockAuditService struct {
	logs  []model.AdminActionLog
	total int64
}

func (m *mockAuditService) List(_ context.Context, _ *dto.AuditLogListRequest) ([]model.AdminActionLog, int64, error) {
	return m.logs, m.total, nil
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

var testProfile = &model.Employee{UID: "test-user-id", FirstName: "Test", LastName: "Admin", Role: model.RoleAdmin, Timezone: "Asia/Manila"}

// withAuth 模拟认证中间件注入的上下文
func withAuth(profile *model.Employee) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", profile.UID)
		c.Set("profile", profile)
		c.Set("role", string(profile.Role))
		c.Next()
	}
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func ptr[T any](v T) *T { return &v }

// ═══════════════════════════════════════════════════════════
// ProfileHandler / AttendanceHandler Tests
// ═══════════════════════════════════════════════════════════

func TestProfileHandler_GetMe(t *testing.T) {
	h := NewProfileHandler(&mockAuthService{})

	r := gin.New()
	r.GET("/me", withAuth(testProfile), h.GetMe)
	w := serve(r, "GET", "/me", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data dto.ProfileResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Timezone != "Asia/Manila" || body.Data.Name != "Test Admin" {
		t.Errorf("unexpected profile: %+v", body.Data)
	}
	if len(body.Data.Permissions) == 0 {
		t.Error("admin 应具有权限")
	}
}

func TestProfileHandler_GetMe_Unauthenticated(t *testing.T) {
	h := NewProfileHandler(&mockAuthService{})

	r := gin.New()
	r.GET("/me", h.GetMe)
	w := serve(r, "GET", "/me", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAttendanceHandler_Toggle_Success(t *testing.T) {
	mock := &mockPunchService{status: &dto.PunchStatusResponse{Status: punch.Status{State: punch.StateClockedIn}}}
	h := NewAttendanceHandler(&mockAuthService{}, mock, zap.NewNop())

	r := gin.New()
	r.POST("/attendance/toggle", withAuth(testProfile), h.Toggle)
	w := serve(r, "POST", "/attendance/toggle", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.gotUID != "test-user-id" || mock.gotZone != "Asia/Manila" {
		t.Errorf("expected uid/zone from profile, got %s/%s", mock.gotUID, mock.gotZone)
	}
	if !strings.Contains(w.Body.String(), `"state":"clocked-in"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestAttendanceHandler_Toggle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"进行中", apperrors.ErrActionInFlight, http.StatusConflict, response.CodeInFlight},
		{"超时", apperrors.ErrTimeout, http.StatusGatewayTimeout, response.CodeTimeout},
		{"未认证", apperrors.ErrUnauthenticated, http.StatusUnauthorized, response.CodeUnauthenticated},
		{"外部 4xx", &apperrors.ServiceError{Status: 400, Message: "Already punched in"}, http.StatusBadRequest, response.CodeUpstream},
		{"外部 5xx", &apperrors.ServiceError{Status: 503, Message: "down"}, http.StatusBadGateway, response.CodeUpstream},
		{"未知错误", errors.New("boom"), http.StatusInternalServerError, response.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAttendanceHandler(&mockAuthService{}, &mockPunchService{toggleErr: tt.err}, zap.NewNop())
			r := gin.New()
			r.POST("/attendance/toggle", withAuth(testProfile), h.Toggle)
			w := serve(r, "POST", "/attendance/toggle", nil)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAttendanceHandler_Toggle_UpstreamMessageVerbatim(t *testing.T) {
	err := &apperrors.ServiceError{Status: 400, Message: "Already punched in"}
	h := NewAttendanceHandler(&mockAuthService{}, &mockPunchService{toggleErr: err}, zap.NewNop())

	r := gin.New()
	r.POST("/attendance/toggle", withAuth(testProfile), h.Toggle)
	w := serve(r, "POST", "/attendance/toggle", nil)

	if resp := parseResponse(w); resp.Message != "Already punched in" {
		t.Errorf("expected verbatim message, got %q", resp.Message)
	}
}

func TestAttendanceHandler_History_BadDate(t *testing.T) {
	h := NewAttendanceHandler(&mockAuthService{}, &mockPunchService{}, zap.NewNop())

	r := gin.New()
	r.GET("/attendance/history", withAuth(testProfile), h.History)
	w := serve(r, "GET", "/attendance/history?start_date=2024-02-30", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ReportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReportHandler_Daily_PassesQuery(t *testing.T) {
	mock := &mockReportService{resp: &dto.ReportResponse{Period: "daily", Date: "2024-03-06"}}
	h := NewReportHandler(mock, zap.NewNop())

	r := gin.New()
	r.GET("/reports/daily", h.Daily)
	w := serve(r, "GET", "/reports/daily?date=2024-03-06&q=ops", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.gotReq.Date != "2024-03-06" || mock.gotReq.Q != "ops" {
		t.Errorf("unexpected query: %+v", mock.gotReq)
	}
}

func TestReportHandler_Weekly_InvalidDate(t *testing.T) {
	h := NewReportHandler(&mockReportService{}, zap.NewNop())

	r := gin.New()
	r.GET("/reports/weekly", h.Weekly)
	w := serve(r, "GET", "/reports/weekly?start_date=03/04/2024", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != response.CodeValidation {
		t.Errorf("expected code %d, got %d", response.CodeValidation, resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// PunchEditHandler Tests
// ═══════════════════════════════════════════════════════════

func TestPunchEditHandler_SaveEdit_Success(t *testing.T) {
	mock := &mockPunchEditService{saveResult: &dto.SavePunchEditResponse{}}
	h := NewPunchEditHandler(mock, zap.NewNop())

	r := gin.New()
	r.PUT("/admin/users/:uid/punches/:punch_id", withAuth(testProfile), h.SaveEdit)
	w := serve(r, "PUT", "/admin/users/u1/punches/p1", jsonBody(map[string]string{"punch_in": "08:30"}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if mock.gotReq.PunchIn == nil || *mock.gotReq.PunchIn != "08:30" || mock.gotReq.PunchOut != nil {
		t.Errorf("unexpected request: %+v", mock.gotReq)
	}
	if mock.gotOperator != "test-user-id" {
		t.Errorf("expected operator test-user-id, got %s", mock.gotOperator)
	}
}

func TestPunchEditHandler_SaveEdit_InvalidTime(t *testing.T) {
	mock := &mockPunchEditService{}
	h := NewPunchEditHandler(mock, zap.NewNop())

	r := gin.New()
	r.PUT("/admin/users/:uid/punches/:punch_id", withAuth(testProfile), h.SaveEdit)

	for _, bad := range []string{"8:30", "24:00", "08:60", "0830"} {
		w := serve(r, "PUT", "/admin/users/u1/punches/p1", jsonBody(dto.SavePunchEditRequest{PunchOut: ptr(bad)}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%q: expected 400, got %d", bad, w.Code)
		}
	}
	if mock.gotReq != nil {
		t.Error("非法时间不应到达 Service")
	}
}

func TestPunchEditHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"记录不存在", service.ErrPunchNotFound, http.StatusNotFound},
		{"未下班", service.ErrPunchOutNotEditable, http.StatusBadRequest},
		{"下班早于上班", service.ErrPunchOutBeforeIn, http.StatusBadRequest},
		{"进行中", apperrors.ErrActionInFlight, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPunchEditHandler(&mockPunchEditService{err: tt.err}, zap.NewNop())
			r := gin.New()
			r.PUT("/admin/users/:uid/punches/:punch_id", withAuth(testProfile), h.SaveEdit)
			w := serve(r, "PUT", "/admin/users/u1/punches/p1", jsonBody(map[string]string{"punch_in": "08:00"}))

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestPunchEditHandler_ValidationDetailsCarryField(t *testing.T) {
	h := NewPunchEditHandler(&mockPunchEditService{err: service.ErrPunchOutBeforeIn}, zap.NewNop())

	r := gin.New()
	r.PUT("/admin/users/:uid/punches/:punch_id", withAuth(testProfile), h.SaveEdit)
	w := serve(r, "PUT", "/admin/users/u1/punches/p1", jsonBody(map[string]string{"punch_out": "08:00"}))

	if !strings.Contains(w.Body.String(), `"field":"punch_out"`) {
		t.Errorf("expected field detail, got %s", w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// UserHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_GrantAdmin(t *testing.T) {
	mock := &mockUserService{roleResp: &dto.RoleChangeResponse{Message: "Admin role granted"}}
	h := NewUserHandler(mock, zap.NewNop())

	r := gin.New()
	r.POST("/admin/users/:uid/grant-admin", withAuth(testProfile), h.GrantAdmin)
	w := serve(r, "POST", "/admin/users/u2/grant-admin", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !mock.gotGrant || mock.gotCaller.UID != "test-user-id" {
		t.Errorf("expected grant by caller, got grant=%v caller=%v", mock.gotGrant, mock.gotCaller)
	}
}

func TestUserHandler_RoleErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"修改自己", service.ErrUserSelfRoleChange, http.StatusForbidden},
		{"超级管理员", service.ErrSuperAdminImmutable, http.StatusForbidden},
		{"无权", service.ErrNoPermission, http.StatusForbidden},
		{"不存在", service.ErrUserNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewUserHandler(&mockUserService{err: tt.err}, zap.NewNop())
			r := gin.New()
			r.POST("/admin/users/:uid/toggle-admin", withAuth(testProfile), h.ToggleAdmin)
			w := serve(r, "POST", "/admin/users/u2/toggle-admin", nil)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestUserHandler_AssignSchedule_Empty(t *testing.T) {
	h := NewUserHandler(&mockUserService{err: service.ErrScheduleEmpty}, zap.NewNop())

	r := gin.New()
	r.PUT("/admin/users/:uid/schedule", withAuth(testProfile), h.AssignSchedule)
	w := serve(r, "PUT", "/admin/users/u2/schedule", jsonBody(dto.AssignScheduleRequest{}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Message != "Provide at least a schedule or timezone." {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler / AuditHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_DailyReport(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("xlsx-bytes"), filename: "考勤日报_2024-03-06.xlsx"}
	h := NewExportHandler(mock, zap.NewNop())

	r := gin.New()
	r.GET("/export/reports/daily", h.DailyReport)
	w := serve(r, "GET", "/export/reports/daily?date=2024-03-06", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment; filename*=UTF-8''") {
		t.Errorf("unexpected content disposition: %s", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestExportHandler_Punches_UpstreamError(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: apperrors.ErrTimeout}, zap.NewNop())

	r := gin.New()
	r.GET("/export/users/:uid/punches.ics", h.Punches)
	w := serve(r, "GET", "/export/users/u1/punches.ics", nil)

	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", w.Code)
	}
}

func TestExportHandler_GenerateFail(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportGenerateFail}, zap.NewNop())

	r := gin.New()
	r.GET("/export/reports/weekly", h.WeeklyReport)
	w := serve(r, "GET", "/export/reports/weekly", nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestAuditHandler_List_InvalidAction(t *testing.T) {
	h := NewAuditHandler(&mockAuditService{}, zap.NewNop())

	r := gin.New()
	r.GET("/admin/audit-logs", h.List)
	w := serve(r, "GET", "/admin/audit-logs?action=drop_table", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuditHandler_List_Paged(t *testing.T) {
	h := NewAuditHandler(&mockAuditService{logs: []model.AdminActionLog{{Action: model.ActionPunchEdit}}, total: 1}, zap.NewNop())

	r := gin.New()
	r.GET("/admin/audit-logs", h.List)
	w := serve(r, "GET", "/admin/audit-logs?page=1&page_size=10", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"total":1`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}
