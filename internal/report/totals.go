package report

import (
	"fmt"
	"strings"
)

// Totals 看板汇总指标
type Totals struct {
	Employees        int     `json:"employees"`
	Present          int     `json:"present"`
	Absent           int     `json:"absent"`
	Late             int     `json:"late"`
	RegularHours     float64 `json:"regular_hours"`
	OvertimeHours    float64 `json:"overtime_hours"`
	NightDiffHours   float64 `json:"night_diff_hours"`
	TotalWorkedHours float64 `json:"total_worked_hours"`
	LateMinutes      int     `json:"late_minutes"`
	UndertimeMinutes int     `json:"undertime_minutes"`
	// AvgRegularHours 只计 RegularHours > 0 的行；没有时为 0
	AvgRegularHours float64 `json:"avg_regular_hours"`
}

// Summarize 汇总展示行
func Summarize(rows []Row) Totals {
	var t Totals
	var withHours int
	for _, r := range rows {
		t.Employees++
		if r.Status == StatusAbsent {
			t.Absent++
		} else {
			t.Present++
		}
		if r.LateMinutes > 0 {
			t.Late++
		}
		t.RegularHours += r.RegularHours
		t.OvertimeHours += r.OvertimeHours
		t.NightDiffHours += r.NightDiffHours
		t.TotalWorkedHours += r.TotalWorkedHours
		t.LateMinutes += r.LateMinutes
		t.UndertimeMinutes += r.UndertimeMinutes
		if r.RegularHours > 0 {
			withHours++
		}
	}
	if withHours > 0 {
		t.AvgRegularHours = t.RegularHours / float64(withHours)
	}
	return t
}

// Filter 按姓名或部门做不区分大小写的子串匹配；q 为空返回原切片
func Filter(rows []Row, q string) []Row {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.Department), q) {
			out = append(out, r)
		}
	}
	return out
}

// ── 显示格式 ──

// FormatHours 8.00h；0 显示为 —
func FormatHours(h float64) string {
	if h == 0 {
		return "—"
	}
	return fmt.Sprintf("%.2fh", h)
}

// FormatMinutes 1h 5m / 45m；0 显示为 —
func FormatMinutes(m int) string {
	if m == 0 {
		return "—"
	}
	if h := m / 60; h > 0 {
		return fmt.Sprintf("%dh %dm", h, m%60)
	}
	return fmt.Sprintf("%dm", m)
}

// Deref 可空时间字符串的展示值
func Deref(s *string) string {
	if s == nil {
		return "—"
	}
	return *s
}
