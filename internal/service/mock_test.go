package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"punchdesk/config"
	"punchdesk/internal/model"
	"punchdesk/internal/repository"
	"punchdesk/pkg/inflight"
)

// ── Mock AttendanceAPI ──

type mockAPI struct {
	mu sync.Mutex

	status  *model.PunchStatus
	users   []model.Employee
	punches map[string][]model.PunchRecord
	daily   *model.DailyReport
	weekly  *model.WeeklyReport

	statusErr  error
	usersErr   error
	reportErr  error
	punchErr   error
	updateErr  error
	roleErr    error
	assignErr  error
	punchesErr error
	// 设置 punchesErr 时，前 punchesFailAfter 次 GetUserPunches 仍正常返回
	punchesFailAfter int
	punchesCalls     int

	// gate 非 nil 时打卡调用阻塞到关闭
	gate chan struct{}

	punchInCalls  int
	punchOutCalls int
	updates       []model.PunchUpdate
	grants        []string
	revokes       []string
	assignments   map[string]model.ScheduleAssignment
	now           time.Time
}

func newMockAPI() *mockAPI {
	return &mockAPI{
		punches:     make(map[string][]model.PunchRecord),
		assignments: make(map[string]model.ScheduleAssignment),
		now:         time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
	}
}

func (m *mockAPI) wait() {
	if m.gate != nil {
		<-m.gate
	}
}

func (m *mockAPI) PunchIn(_ context.Context) (*model.PunchInResult, error) {
	m.mu.Lock()
	m.punchInCalls++
	m.mu.Unlock()
	m.wait()
	if m.punchErr != nil {
		return nil, m.punchErr
	}
	return &model.PunchInResult{ID: "new-punch", PunchIn: m.now}, nil
}

func (m *mockAPI) PunchOut(_ context.Context) (*model.PunchOutResult, error) {
	m.mu.Lock()
	m.punchOutCalls++
	m.mu.Unlock()
	m.wait()
	if m.punchErr != nil {
		return nil, m.punchErr
	}
	return &model.PunchOutResult{ID: "open-punch", PunchOut: m.now}, nil
}

func (m *mockAPI) GetPunchStatus(_ context.Context) (*model.PunchStatus, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	if m.status == nil {
		return &model.PunchStatus{}, nil
	}
	return m.status, nil
}

func (m *mockAPI) GetHistory(_ context.Context, _, _ string) ([]model.PunchRecord, error) {
	return m.punches["me"], nil
}

func (m *mockAPI) GetDailySummary(_ context.Context, date string) (*model.DailySummary, error) {
	return &model.DailySummary{UID: "me", DailyMetrics: model.DailyMetrics{WorkDate: date}}, nil
}

func (m *mockAPI) GetWeeklySummary(_ context.Context, start, end string) (*model.WeeklySummary, error) {
	return &model.WeeklySummary{UID: "me", StartDate: start, EndDate: end}, nil
}

func (m *mockAPI) GetUserDetails(_ context.Context) (*model.Employee, error) {
	if len(m.users) == 0 {
		return &model.Employee{UID: "me"}, nil
	}
	u := m.users[0]
	return &u, nil
}

func (m *mockAPI) GetAllUsers(_ context.Context) ([]model.Employee, error) {
	if m.usersErr != nil {
		return nil, m.usersErr
	}
	out := make([]model.Employee, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *mockAPI) GetDailyReport(_ context.Context, date string) (*model.DailyReport, error) {
	if m.reportErr != nil {
		return nil, m.reportErr
	}
	if m.daily == nil {
		return &model.DailyReport{Date: date}, nil
	}
	return m.daily, nil
}

func (m *mockAPI) GetWeeklyReport(_ context.Context, start, end string) (*model.WeeklyReport, error) {
	if m.reportErr != nil {
		return nil, m.reportErr
	}
	if m.weekly == nil {
		return &model.WeeklyReport{StartDate: start, EndDate: end}, nil
	}
	return m.weekly, nil
}

func (m *mockAPI) GetUserPunches(_ context.Context, uid, _, _ string) ([]model.PunchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.punchesCalls++
	if m.punchesErr != nil && m.punchesCalls > m.punchesFailAfter {
		return nil, m.punchesErr
	}
	out := make([]model.PunchRecord, len(m.punches[uid]))
	copy(out, m.punches[uid])
	return out, nil
}

func (m *mockAPI) UpdatePunch(_ context.Context, punchID string, update model.PunchUpdate) (*model.PunchUpdateResult, error) {
	m.mu.Lock()
	m.updates = append(m.updates, update)
	m.mu.Unlock()
	m.wait()
	if m.updateErr != nil {
		return nil, m.updateErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for uid, list := range m.punches {
		for i := range list {
			if list[i].ID != punchID {
				continue
			}
			if update.PunchIn != nil {
				list[i].PunchIn = *update.PunchIn
			}
			if update.PunchOut != nil {
				list[i].PunchOut = update.PunchOut
			}
			list[i].AdminEdited = true
			list[i].Metrics = &model.DailyMetrics{RegularHours: 7.5}
			m.punches[uid] = list
			return &model.PunchUpdateResult{ID: punchID, PunchIn: list[i].PunchIn, PunchOut: list[i].PunchOut, Metrics: list[i].Metrics, AdminEdited: true}, nil
		}
	}
	return &model.PunchUpdateResult{ID: punchID, AdminEdited: true}, nil
}

func (m *mockAPI) AssignSchedule(_ context.Context, uid string, req model.ScheduleAssignment) (*model.Employee, error) {
	if m.assignErr != nil {
		return nil, m.assignErr
	}
	m.assignments[uid] = req
	return &model.Employee{UID: uid, Schedule: req.Schedule, Timezone: req.Timezone}, nil
}

func (m *mockAPI) GrantAdmin(_ context.Context, uid string) (string, error) {
	if m.roleErr != nil {
		return "", m.roleErr
	}
	m.grants = append(m.grants, uid)
	m.setRole(uid, model.RoleAdmin)
	return "Admin role granted", nil
}

func (m *mockAPI) RevokeAdmin(_ context.Context, uid string) (string, error) {
	if m.roleErr != nil {
		return "", m.roleErr
	}
	m.revokes = append(m.revokes, uid)
	m.setRole(uid, model.RoleEmployee)
	return "Admin role revoked", nil
}

func (m *mockAPI) setRole(uid string, r model.Role) {
	for i := range m.users {
		if m.users[i].UID == uid {
			m.users[i].Role = r
		}
	}
}

// ── Mock AuditLogRepository ──

type mockAuditRepo struct {
	mu        sync.Mutex
	logs      []model.AdminActionLog
	createErr error
}

func (m *mockAuditRepo) Create(_ context.Context, log *model.AdminActionLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockAuditRepo) List(_ context.Context, f repository.AuditLogFilter) ([]model.AdminActionLog, int64, error) {
	var out []model.AdminActionLog
	for _, l := range m.logs {
		if f.TargetUID != "" && l.TargetUID != f.TargetUID {
			continue
		}
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

// ── 测试辅助 ──

func testDeps(api *mockAPI) (Deps, *mockAuditRepo) {
	audit := &mockAuditRepo{}
	return Deps{
		Cfg:    &config.Config{Report: config.ReportConfig{DefaultTimezone: "UTC"}},
		Repo:   &repository.Repository{AuditLog: audit},
		API:    api,
		Guard:  inflight.NewMemoryGuard(),
		Logger: zap.NewNop(),
	}, audit
}

func ptr[T any](v T) *T { return &v }

func utc(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
