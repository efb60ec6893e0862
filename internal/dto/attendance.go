package dto

import (
	"punchdesk/internal/model"
	"punchdesk/internal/punch"
)

// ── 员工打卡 ──

// PeriodRequest 日期区间查询参数
type PeriodRequest struct {
	StartDate string `form:"start_date" binding:"omitempty,ymd"`
	EndDate   string `form:"end_date"   binding:"omitempty,ymd"`
}

// DateRequest 单日查询参数
type DateRequest struct {
	Date string `form:"date" binding:"omitempty,ymd"`
}

// PunchStatusResponse 打卡状态
type PunchStatusResponse struct {
	punch.Status
	Timezone string `json:"timezone"`
}

// PunchRecordResponse 单条打卡记录（时间按员工时区渲染）
type PunchRecordResponse struct {
	ID          string              `json:"id"`
	PunchIn     string              `json:"punch_in"`
	PunchOut    *string             `json:"punch_out"`
	LocalDate   string              `json:"local_date"`
	LocalIn     string              `json:"local_in"`
	LocalOut    *string             `json:"local_out"`
	AdminEdited bool                `json:"admin_edited"`
	Metrics     *model.DailyMetrics `json:"metrics,omitempty"`
}

// DailySummaryResponse 员工日汇总；无数据时 Summary 为空
type DailySummaryResponse struct {
	Date    string              `json:"date"`
	Summary *model.DailySummary `json:"summary"`
}

// WeeklySummaryResponse 员工周汇总
type WeeklySummaryResponse struct {
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
	Summary   *model.WeeklySummary `json:"summary"`
}
