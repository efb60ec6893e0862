package clock

import (
	"errors"
	"time"

	apperrors "punchdesk/pkg/errors"
)

// ErrNonexistentLocalTime 该墙钟时间在目标时区当天不存在（夏令时跳变区间）
var ErrNonexistentLocalTime = &apperrors.ValidationError{
	Field:   "time",
	Message: "该本地时间因夏令时切换而不存在",
}

// ParseHHMM 严格解析 HH:MM（00-23 / 00-59）
func ParseHHMM(s string) (hour, minute int, err error) {
	invalid := apperrors.NewValidation("time", "时间格式应为 HH:MM")
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, invalid
	}
	digit := func(b byte) (int, bool) {
		if b < '0' || b > '9' {
			return 0, false
		}
		return int(b - '0'), true
	}
	var d [4]int
	for i, pos := range []int{0, 1, 3, 4} {
		v, ok := digit(s[pos])
		if !ok {
			return 0, 0, invalid
		}
		d[i] = v
	}
	hour, minute = d[0]*10+d[1], d[2]*10+d[3]
	if hour > 23 || minute > 59 {
		return 0, 0, invalid
	}
	return hour, minute, nil
}

// Rebuild 把 hhmm 解释为 original 在 zone 下那一天的本地时间，返回对应的绝对时间点。
//
// zone 为空时按 UTC 墙钟处理 original 的 UTC 日期。
// original 在 zone 下已经显示为同一天同一 HH:MM 时原样返回（秒与毫秒保留）。
// 重叠时段（秋季回拨）取先出现的那一次；跳过时段返回 ErrNonexistentLocalTime。
func Rebuild(original time.Time, hhmm, zone string) (time.Time, error) {
	h, m, err := ParseHHMM(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	loc, err := LoadZone(zone)
	if err != nil {
		return time.Time{}, err
	}

	local := original.In(loc)
	if local.Hour() == h && local.Minute() == m {
		return original, nil
	}

	y, mo, d := local.Date()
	want := time.Date(y, mo, d, h, m, 0, 0, time.UTC)

	// 候选时间点先按 UTC 解释，再用观察到的墙钟差值修正；
	// 候选与修正结果之间跨越偏移切换时需要第二次修正
	candidate := want
	for i := 0; i < 2; i++ {
		diff := want.Sub(wallClock(candidate, loc))
		if diff == 0 {
			return candidate.UTC(), nil
		}
		candidate = candidate.Add(diff)
	}
	if wallClock(candidate, loc).Equal(want) {
		return candidate.UTC(), nil
	}
	return time.Time{}, ErrNonexistentLocalTime
}

// wallClock t 在 loc 下的墙钟读数，以 UTC 时间值表示，便于直接相减
func wallClock(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), l.Minute(), l.Second(), l.Nanosecond(), time.UTC)
}

// IsNonexistent 判断是否为夏令时跳变导致的无效时间
func IsNonexistent(err error) bool {
	return errors.Is(err, ErrNonexistentLocalTime)
}
