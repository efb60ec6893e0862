package dto

import "punchdesk/internal/report"

// ReportQuery 报表查询参数
type ReportQuery struct {
	Date      string `form:"date"       binding:"omitempty,ymd"`
	StartDate string `form:"start_date" binding:"omitempty,ymd"`
	EndDate   string `form:"end_date"   binding:"omitempty,ymd"`
	Q         string `form:"q"          binding:"omitempty,max=100"`
}

// ReportResponse 日报/周报
// Rows 经过搜索过滤，Totals 始终基于全部行
type ReportResponse struct {
	Period         string        `json:"period"` // daily | weekly
	Date           string        `json:"date,omitempty"`
	StartDate      string        `json:"start_date,omitempty"`
	EndDate        string        `json:"end_date,omitempty"`
	PrevDate       string        `json:"prev,omitempty"`
	NextDate       string        `json:"next,omitempty"`
	Rows           []report.Row  `json:"rows"`
	Totals         report.Totals `json:"totals"`
	RosterDegraded bool          `json:"roster_degraded"`
}
