// Package clock 处理员工时区下的墙钟时间：HH:MM 解析与格式化、按时区换算日历日期，
// 以及把管理员输入的本地时间还原为绝对时间点。
package clock

import (
	"fmt"
	"sync"
	"time"

	// 容器镜像里可能没有系统时区库
	_ "time/tzdata"

	apperrors "punchdesk/pkg/errors"
)

const (
	// ISOLayout 提交给外部服务的时间格式（UTC，毫秒）
	ISOLayout = "2006-01-02T15:04:05.000Z"
	// DateLayout 日历日期，不带时区
	DateLayout = "2006-01-02"
)

var zoneCache sync.Map // map[string]*time.Location

// LoadZone 加载 IANA 时区（带缓存）；空字符串视为 UTC
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	if v, ok := zoneCache.Load(name); ok {
		return v.(*time.Location), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, apperrors.NewValidation("timezone", fmt.Sprintf("未知时区: %s", name))
	}
	zoneCache.Store(name, loc)
	return loc, nil
}

// Resolve 依次尝试 zone、fallback，都不可用时返回 UTC
func Resolve(zone, fallback string) *time.Location {
	if zone != "" {
		if loc, err := LoadZone(zone); err == nil {
			return loc
		}
	}
	if loc, err := LoadZone(fallback); err == nil {
		return loc
	}
	return time.UTC
}

// FormatHHMM 24 小时制 HH:MM；时区不可用时按 UTC
func FormatHHMM(t time.Time, zone string) string {
	return t.In(Resolve(zone, "")).Format("15:04")
}

// LocalDate t 在 zone 下的日历日期 YYYY-MM-DD
func LocalDate(t time.Time, zone string) string {
	return t.In(Resolve(zone, "")).Format(DateLayout)
}

// FormatISO 外部服务使用的时间字符串
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ── 日期与周期 ──

// ParseDate 解析 YYYY-MM-DD，结果为 UTC 零点
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperrors.NewValidation("date", "日期格式应为 YYYY-MM-DD")
	}
	return d, nil
}

// Today now 在 loc 下的日期（UTC 零点表示）
func Today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekOf 返回 date 所在周的周一与周日
func WeekOf(date time.Time) (start, end time.Time) {
	offset := (int(date.Weekday()) + 6) % 7
	y, m, d := date.Date()
	start = time.Date(y, m, d-offset, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 6)
}

// ShiftDay 前后移动 n 天
func ShiftDay(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// ShiftWeek 前后移动 n 周
func ShiftWeek(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, 7*n)
}

// FormatDate 日期转 YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}
