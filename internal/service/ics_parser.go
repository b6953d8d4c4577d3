package service

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"nexus-lab/backend/internal/model"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容解析为固定课程场次列表。
//
// 设计决策：
//   - DTSTART/DTEND 确定星期几与上下课时间
//   - 场次有效期取导入请求给定的日期区间，不从 RRULE 反推具体周次
//   - 合并同 day+time 的重复事件（ICS 常以多个单次事件表示同一门课）
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 5 * 1024 * 1024 // 5MB
	icsFetchTimeout = 30 * time.Second
)

// icsImportTarget 导入目标归属信息
type icsImportTarget struct {
	ClassroomID string
	SubjectID   string
	TeacherID   string
	StartDate   time.Time
	EndDate     time.Time
}

// parsedSessionEvent ICS 解析中间结构
type parsedSessionEvent struct {
	DayOfWeek int // 1=周一 … 7=周日
	StartTime string
	EndTime   string
}

// FetchICSContent 从 URL 获取 ICS 内容
func FetchICSContent(rawURL string) (io.ReadCloser, error) {
	// webcal:// → https://
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	client := &http.Client{Timeout: icsFetchTimeout}
	resp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("获取 ICS 失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("获取 ICS 失败: HTTP %d", resp.StatusCode)
	}
	// 限制响应体大小，防止恶意 URL 返回超大内容导致 OOM
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: resp.Body,
	}, nil
}

// ParseICS 解析 ICS 内容并转为课程场次列表
func ParseICS(reader io.Reader, target icsImportTarget) ([]model.ScheduleSession, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	// 阶段 1: 解析所有 VEVENT
	var events []parsedSessionEvent
	for _, comp := range cal.Events() {
		evt, ok := parseVEvent(comp)
		if !ok {
			continue
		}
		events = append(events, evt)
	}

	// 阶段 2: 去重（同 day+time 视为同一场次）
	merged := dedupeEvents(events)

	// 阶段 3: 转为 model.ScheduleSession
	result := make([]model.ScheduleSession, 0, len(merged))
	for _, evt := range merged {
		result = append(result, model.ScheduleSession{
			ClassroomID: target.ClassroomID,
			SubjectID:   target.SubjectID,
			TeacherID:   target.TeacherID,
			DayOfWeek:   evt.DayOfWeek,
			StartTime:   model.ClockTime(evt.StartTime),
			EndTime:     model.ClockTime(evt.EndTime),
			StartDate:   target.StartDate,
			EndDate:     target.EndDate,
			Source:      "ics",
		})
	}
	return result, nil
}

// parseVEvent 解析单个 VEVENT 组件
func parseVEvent(evt *ics.VEvent) (parsedSessionEvent, bool) {
	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart)
	if err != nil {
		return parsedSessionEvent{}, false
	}
	dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd)
	if err != nil {
		// 若无 DTEND，默认 2 小时
		dtEnd = dtStart.Add(2 * time.Hour)
	}

	return parsedSessionEvent{
		DayOfWeek: goWeekdayToISO(dtStart.Weekday()),
		StartTime: dtStart.Format("15:04"),
		EndTime:   dtEnd.Format("15:04"),
	}, true
}

// dedupeEvents 去除同 day+time 的重复事件，保持首次出现顺序
func dedupeEvents(events []parsedSessionEvent) []parsedSessionEvent {
	seen := make(map[parsedSessionEvent]bool, len(events))
	result := make([]parsedSessionEvent, 0, len(events))
	for _, e := range events {
		if !seen[e] {
			seen[e] = true
			result = append(result, e)
		}
	}
	return result
}

// ── 辅助函数 ──

// goWeekdayToISO 将 Go 的 time.Weekday (0=Sunday) 转为 ISO 8601 (1=Monday … 7=Sunday)
func goWeekdayToISO(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	// 尝试多种 ICS 日期格式
	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	// 检查 TZID 参数
	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range formats {
		if t, err := time.Parse(layout, val); err == nil {
			if strings.HasSuffix(layout, "Z") {
				return t.Local(), nil
			}
			if tzid != "" {
				if tzLoc, err := time.LoadLocation(tzid); err == nil {
					return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).Local(), nil
				}
			}
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
		}
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}
