package service

import (
	"errors"
	"sort"
	"time"
)

// ── 时间与日期集合工具 ──
//
// 全系统时间约定：
//   - 时刻为 "HH:MM"（分钟粒度，零填充），区间为半开 [start, end)
//   - 日期为 ISO "2006-01-02"，按部署时区的本地日历比较，不做时区换算
// 该约定在占用判定、预约校验与考勤中保持一致。

var (
	ErrInvalidTimeWindow = errors.New("时间窗口非法：格式须为 HH:MM 且开始早于结束")
	ErrEmptyDateSet      = errors.New("日期集合不能为空")
	ErrInvalidDate       = errors.New("日期格式非法：须为 YYYY-MM-DD")
)

// TimeWindow 半开时间区间 [Start, End)
type TimeWindow struct {
	Start string
	End   string
}

// validClock 校验 HH:MM 格式（要求零填充，保证字典序即时间序）
func validClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// Validate 校验时间窗口格式与次序
func (w TimeWindow) Validate() error {
	if !validClock(w.Start) || !validClock(w.End) || w.Start >= w.End {
		return ErrInvalidTimeWindow
	}
	return nil
}

// Overlaps 判断两个同日半开区间是否相交
func (w TimeWindow) Overlaps(start, end string) bool {
	return w.Start < end && start < w.End
}

// ParseDate 解析 ISO 日期
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ExpandDates 规范化日期集合：解析、去重、升序排序
// 空集合或含非法元素时报错
func ExpandDates(dates []string) ([]string, error) {
	if len(dates) == 0 {
		return nil, ErrEmptyDateSet
	}
	seen := make(map[string]bool, len(dates))
	result := make([]string, 0, len(dates))
	for _, d := range dates {
		if _, err := ParseDate(d); err != nil {
			return nil, err
		}
		if !seen[d] {
			seen[d] = true
			result = append(result, d)
		}
	}
	sort.Strings(result)
	return result, nil
}

// Today 当前本地日历日（时间部分截断）
func Today() string {
	return time.Now().Format("2006-01-02")
}
