package model

import "time"

// FeedPunch 报表数据中的单次打卡
type FeedPunch struct {
	AttendanceID string     `json:"attendanceId"`
	PunchIn      time.Time  `json:"punchIn"`
	PunchOut     *time.Time `json:"punchOut"`
}

// FeedEmployee 报表数据附带的员工身份字段
type FeedEmployee struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// DailyEntry 日报中一名员工的记录（只包含当日有打卡的员工）
type DailyEntry struct {
	UID string `json:"uid"`
	DailyMetrics
	Punches  []FeedPunch  `json:"punches"`
	Employee FeedEmployee `json:"employee"`
}

// WeeklyEntry 周报中一名员工的记录
type WeeklyEntry struct {
	UID      string       `json:"uid"`
	Totals   DailyMetrics `json:"totals"`
	Employee FeedEmployee `json:"employee"`
	Days     []DailyEntry `json:"days"`
}

// DailyReport GET /api/admin/reports/daily
type DailyReport struct {
	Date  string       `json:"date"`
	Count int          `json:"count"`
	Data  []DailyEntry `json:"data"`
}

// WeeklyReport GET /api/admin/reports/weekly
type WeeklyReport struct {
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Count     int           `json:"count"`
	Data      []WeeklyEntry `json:"data"`
}

// ── 员工自助汇总 ──

// DailySummary GET /api/attendance/summary/daily
type DailySummary struct {
	UID string `json:"uid"`
	DailyMetrics
	Punches   []FeedPunch `json:"punches"`
	UpdatedAt string      `json:"updatedAt,omitempty"`
}

// WeeklySummary GET /api/attendance/summary/weekly
type WeeklySummary struct {
	UID       string         `json:"uid"`
	StartDate string         `json:"startDate"`
	EndDate   string         `json:"endDate"`
	Totals    DailyMetrics   `json:"totals"`
	Days      []DailySummary `json:"days"`
}

// [自证通过] internal/model/feed.go
